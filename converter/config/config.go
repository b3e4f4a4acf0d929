/*
NAME
  config.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for the XA converter.
package config

import (
	"time"

	"github.com/ausocean/utils/logging"
)

// StdPath is the path used to mean stdin for input or stdout for output.
const StdPath = "-"

// Config provides parameters relevant to a converter. A new config must be
// passed to the constructor. Default values for these fields are defined in
// variables.go.
type Config struct {
	// Logger holds an implementation of the Logger interface.
	// This must be set for the converter to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	// LogPath is the file that logs are also written to. Logs only go to
	// stderr if this is empty.
	LogPath string

	// Strict makes decoding fail on a block with an out of range gain factor
	// selector. Otherwise such blocks are decoded without prediction.
	Strict bool

	// InputPath and OutputPath are the XA source and WAV destination of a
	// single conversion. StdPath selects stdin and stdout respectively.
	InputPath  string
	OutputPath string

	// WatchDir is the directory watched for new XA files in watch mode.
	WatchDir string

	// WatchOutDir is where WAV files converted in watch mode are written.
	// This defaults to WatchDir.
	WatchOutDir string

	// SettleDelay is how long a file in WatchDir must go without being
	// written before it is converted.
	SettleDelay time.Duration

	Suppress bool // Holds logger suppression state.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
