/*
DESCRIPTION
  bjxa converts XA ADPCM audio files to WAV, either one file at a time or by
  watching a directory for new files.

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

// Package bjxa is a command for converting XA files to WAV.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/xa/converter"
	"github.com/ausocean/xa/converter/config"
)

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Warning
	logSuppress  = true
)

// Actions.
const (
	actionHelp   = "help"
	actionDecode = "decode"
	actionWatch  = "watch"
)

const pkg = "bjxa: "

const usageText = `Usage: bjxa [flags] <action> [args...]

Available actions:

  help
    Show this message and exit.

  decode [<xa file> [<wav file>]]
    Read an XA file and convert it into a WAV file.
    A missing file or "-" means stdin or stdout.

  watch [<dir> [<out dir>]]
    Convert XA files written to dir into WAV files in out dir,
    which defaults to dir, until interrupted.

Flags:
`

// flagKeys maps flags to the config variables they set.
var flagKeys = map[string]string{
	"LogLevel": config.KeyLogging,
	"LogPath":  config.KeyLogPath,
	"Strict":   config.KeyStrict,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run runs bjxa with the given arguments and returns the exit status. Usage
// requested with help goes to stdout, everything else to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bjxa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("LogLevel", "Warning", "logging verbosity: Debug, Info, Warning, Error or Fatal")
	fs.String("LogPath", "", "file to also write logs to, rotated when large")
	fs.Bool("Strict", false, "fail on blocks with an out of range gain factor")
	cfgPath := fs.String("Config", "", "JSON file of config variables, overridden by flags")
	fs.Usage = func() { usage(fs, stderr) }

	err := fs.Parse(args)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		return 1
	}

	vars, err := readVars(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, pkg+err.Error())
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		if k, ok := flagKeys[f.Name]; ok {
			vars[k] = f.Value.String()
		}
	})

	args = fs.Args()
	if len(args) == 0 {
		fmt.Fprintln(stderr, pkg+"missing an action")
		usage(fs, stderr)
		return 1
	}

	action, args := args[0], args[1:]
	switch action {
	case actionHelp:
		usage(fs, stdout)
		return 0
	case actionDecode:
		setArgs(vars, args, config.KeyInputPath, config.KeyOutputPath)
	case actionWatch:
		setArgs(vars, args, config.KeyWatchDir, config.KeyWatchOutDir)
	default:
		fmt.Fprintln(stderr, pkg+"unknown action")
		usage(fs, stderr)
		return 1
	}
	if len(args) > 2 {
		fmt.Fprintln(stderr, pkg+"too many arguments")
		usage(fs, stderr)
		return 1
	}

	log, closeLog := newLogger(vars[config.KeyLogPath], stderr)
	defer closeLog()
	cfg := config.Config{Logger: log, LogLevel: logVerbosity}
	cfg.Update(vars)
	c, err := converter.New(cfg)
	if err != nil {
		fmt.Fprintln(stderr, pkg+err.Error())
		return 1
	}

	switch action {
	case actionDecode:
		_, err = c.DecodeFile(c.Config().InputPath, c.Config().OutputPath)
	case actionWatch:
		err = watch(c)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s%s: %v\n", pkg, action, err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprint(w, usageText)
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}

// readVars reads config variables from the JSON object in the file at path.
// An empty path gives no variables.
func readVars(path string) (map[string]string, error) {
	vars := make(map[string]string)
	if path == "" {
		return vars, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read config")
	}
	err = json.Unmarshal(b, &vars)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	return vars, nil
}

// setArgs sets the config variables named by keys from the action's
// positional arguments.
func setArgs(vars map[string]string, args []string, keys ...string) {
	for i, k := range keys {
		if i < len(args) {
			vars[k] = args[i]
		}
	}
}

// newLogger returns a logger writing to stderr and, if path is not empty, a
// rotated log file at path. The returned function closes the log file.
func newLogger(path string, stderr io.Writer) (logging.Logger, func() error) {
	if path == "" {
		return logging.New(logVerbosity, stderr, logSuppress), func() error { return nil }
	}
	fileLog := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	return logging.New(logVerbosity, io.MultiWriter(stderr, fileLog), logSuppress), fileLog.Close
}

// watch runs the converter's watch mode until interrupted.
func watch(c *converter.Converter) error {
	cfg := c.Config()
	if cfg.WatchDir == "" {
		return errors.New("missing a directory to watch")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.Watch(ctx, cfg.WatchDir, cfg.WatchOutDir)
}
