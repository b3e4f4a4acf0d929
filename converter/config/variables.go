/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyInputPath   = "InputPath"
	KeyLogging     = "logging"
	KeyLogPath     = "LogPath"
	KeyOutputPath  = "OutputPath"
	KeySettleDelay = "SettleDelay"
	KeyStrict      = "Strict"
	KeySuppress    = "Suppress"
	KeyWatchDir    = "WatchDir"
	KeyWatchOutDir = "WatchOutDir"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values. Unset paths and the settle delay are not
// errors, so they are defaulted without logging.
const (
	defaultVerbosity   = logging.Info
	defaultInputPath   = StdPath
	defaultOutputPath  = StdPath
	defaultSettleDelay = 500 * time.Millisecond
)

// Variables describes the variables that can be used for converter control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
		Validate: func(c *Config) {
			if c.InputPath == "" {
				c.InputPath = defaultInputPath
			}
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
		Validate: func(c *Config) {
			if c.OutputPath == "" {
				c.OutputPath = defaultOutputPath
			}
		},
	},
	{
		Name: KeySettleDelay,
		Type: typeUint,
		Update: func(c *Config, v string) {
			c.SettleDelay = time.Duration(parseUint(KeySettleDelay, v, c)) * time.Millisecond
		},
		Validate: func(c *Config) {
			if c.SettleDelay <= 0 {
				c.SettleDelay = defaultSettleDelay
			}
		},
	},
	{
		Name:   KeyStrict,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Strict = parseBool(KeyStrict, v, c) },
	},
	{
		Name: KeySuppress,
		Type: typeBool,
		Update: func(c *Config, v string) {
			c.Suppress = parseBool(KeySuppress, v, c)
			if l, ok := c.Logger.(*logging.JSONLogger); ok {
				l.SetSuppress(c.Suppress)
			}
		},
	},
	{
		Name:   KeyWatchDir,
		Type:   typeString,
		Update: func(c *Config, v string) { c.WatchDir = v },
	},
	{
		Name:   KeyWatchOutDir,
		Type:   typeString,
		Update: func(c *Config, v string) { c.WatchOutDir = v },
		Validate: func(c *Config) {
			if c.WatchOutDir == "" {
				c.WatchOutDir = c.WatchDir
			}
		},
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}
