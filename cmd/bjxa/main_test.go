/*
DESCRIPTION
  main_test.go contains tests for the bjxa command line.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// xaFile returns a single block mono 8-bit XA file. A profile with a gain
// factor selector above 4 makes the block corrupt.
func xaFile(profile byte) []byte {
	b := make([]byte, 32, 32+33)
	binary.LittleEndian.PutUint32(b[0:], 0x3144574b)
	binary.LittleEndian.PutUint32(b[4:], 33)
	binary.LittleEndian.PutUint32(b[8:], 32)
	binary.LittleEndian.PutUint16(b[12:], 8000)
	b[14] = 8
	b[15] = 1
	b = append(b, profile)
	return append(b, bytes.Repeat([]byte{0x10}, 32)...)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, b []byte) string {
		path := filepath.Join(dir, name)
		err := os.WriteFile(path, b, 0o644)
		if err != nil {
			t.Fatalf("could not write %s: %v", name, err)
		}
		return path
	}
	good := write("good.xa", xaFile(0))
	corrupt := write("corrupt.xa", xaFile(0x70))
	short := write("short.xa", xaFile(0)[:40])
	strict := write("strict.json", []byte(`{"Strict": "true"}`))
	badJSON := write("bad.json", []byte(`{"Strict": true}`))

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
		wantFile   string
	}{
		{name: "help", args: []string{"help"}, wantStdout: "Usage: bjxa"},
		{name: "no action", args: nil, wantCode: 1, wantStderr: "bjxa: missing an action"},
		{name: "unknown action", args: []string{"encode"}, wantCode: 1, wantStderr: "bjxa: unknown action"},
		{name: "too many arguments", args: []string{"decode", "a", "b", "c"}, wantCode: 1, wantStderr: "bjxa: too many arguments"},
		{name: "bad flag", args: []string{"-Loud", "help"}, wantCode: 1, wantStderr: "flag provided but not defined"},
		{
			name:     "decode",
			args:     []string{"decode", good, filepath.Join(dir, "good.wav")},
			wantFile: filepath.Join(dir, "good.wav"),
		},
		{
			name:     "decode corrupt leniently",
			args:     []string{"-LogLevel", "Error", "decode", corrupt, filepath.Join(dir, "lenient.wav")},
			wantFile: filepath.Join(dir, "lenient.wav"),
		},
		{
			name:       "decode corrupt strictly",
			args:       []string{"-Strict", "decode", corrupt, filepath.Join(dir, "strict.wav")},
			wantCode:   1,
			wantStderr: "bjxa: decode: ",
		},
		{
			name:       "strict from config",
			args:       []string{"-Config", strict, "decode", corrupt, filepath.Join(dir, "strict.wav")},
			wantCode:   1,
			wantStderr: "corrupt block",
		},
		{
			name:     "flag overrides config",
			args:     []string{"-Config", strict, "-Strict=false", "decode", corrupt, filepath.Join(dir, "override.wav")},
			wantFile: filepath.Join(dir, "override.wav"),
		},
		{
			name:       "bad config",
			args:       []string{"-Config", badJSON, "help"},
			wantCode:   1,
			wantStderr: "bjxa: could not parse config",
		},
		{
			name:       "truncated input",
			args:       []string{"decode", short, filepath.Join(dir, "short.wav")},
			wantCode:   1,
			wantStderr: "bjxa: decode: ",
		},
		{
			name:       "watch without directory",
			args:       []string{"watch"},
			wantCode:   1,
			wantStderr: "bjxa: watch: missing a directory to watch",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(test.args, &stdout, &stderr)
			if code != test.wantCode {
				t.Errorf("unexpected exit code, got: %d, want: %d\nstderr: %s", code, test.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), test.wantStdout) {
				t.Errorf("unexpected stdout, got: %q, want it to contain: %q", stdout.String(), test.wantStdout)
			}
			if !strings.Contains(stderr.String(), test.wantStderr) {
				t.Errorf("unexpected stderr, got: %q, want it to contain: %q", stderr.String(), test.wantStderr)
			}
			if test.wantFile == "" {
				return
			}
			info, err := os.Stat(test.wantFile)
			if err != nil {
				t.Fatalf("expected output file: %v", err)
			}
			if info.Size() != 44+64 {
				t.Errorf("unexpected output size, got: %d, want: %d", info.Size(), 44+64)
			}
		})
	}
}

// TestRunDiagnostics checks that by default a decode writes nothing to stderr
// on success and a single diagnostic line on failure.
func TestRunDiagnostics(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xa")
	short := filepath.Join(dir, "short.xa")
	for path, b := range map[string][]byte{good: xaFile(0), short: xaFile(0)[:40]} {
		err := os.WriteFile(path, b, 0o644)
		if err != nil {
			t.Fatalf("could not write %s: %v", path, err)
		}
	}

	tests := []struct {
		name      string
		args      []string
		wantCode  int
		wantLines []string // Prefixes of the stderr lines.
	}{
		{name: "success", args: []string{"decode", good, filepath.Join(dir, "good.wav")}},
		{name: "truncated", args: []string{"decode", short, filepath.Join(dir, "short.wav")}, wantCode: 1, wantLines: []string{"bjxa: decode: "}},
		{name: "missing input", args: []string{"decode", filepath.Join(dir, "none.xa")}, wantCode: 1, wantLines: []string{"bjxa: decode: "}},
		{name: "watch without directory", args: []string{"watch"}, wantCode: 1, wantLines: []string{"bjxa: watch: "}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(test.args, &stdout, &stderr)
			if code != test.wantCode {
				t.Errorf("unexpected exit code, got: %d, want: %d", code, test.wantCode)
			}

			var lines []string
			if s := strings.TrimSuffix(stderr.String(), "\n"); s != "" {
				lines = strings.Split(s, "\n")
			}
			if len(lines) != len(test.wantLines) {
				t.Fatalf("unexpected stderr line count, got: %d, want: %d\nstderr: %q", len(lines), len(test.wantLines), stderr.String())
			}
			for i, prefix := range test.wantLines {
				if !strings.HasPrefix(lines[i], prefix) {
					t.Errorf("unexpected stderr line, got: %q, want prefix: %q", lines[i], prefix)
				}
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var stderr bytes.Buffer
	_, closeLog := newLogger("", &stderr)
	if err := closeLog(); err != nil {
		t.Errorf("did not expect error closing stderr only logger: %v", err)
	}

	path := filepath.Join(t.TempDir(), "bjxa.log")
	l, closeLog := newLogger(path, &stderr)
	l.Warning("log file check")
	l.Info("below default level")
	if err := closeLog(); err != nil {
		t.Fatalf("did not expect error closing log file: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read log file: %v", err)
	}
	if !strings.Contains(string(b), "log file check") {
		t.Errorf("log file does not hold warning, got: %q", b)
	}
	if strings.Contains(string(b), "below default level") {
		t.Errorf("log file holds info message at default level, got: %q", b)
	}
	if !bytes.Equal(b, stderr.Bytes()) {
		t.Errorf("log file and stderr differ\nfile:   %q\nstderr: %q", b, stderr.Bytes())
	}
}

// TestRunLogPath checks that -LogPath logs reach the file.
func TestRunLogPath(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xa")
	err := os.WriteFile(in, xaFile(0), 0o644)
	if err != nil {
		t.Fatalf("could not write input: %v", err)
	}
	logPath := filepath.Join(dir, "bjxa.log")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-LogLevel", "Info", "-LogPath", logPath, "decode", in, filepath.Join(dir, "out.wav")}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("unexpected exit code, got: %d, want: 0\nstderr: %s", code, stderr.String())
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("could not read log file: %v", err)
	}
	if !strings.Contains(string(b), "decoded stream") {
		t.Errorf("log file does not hold decode log, got: %q", b)
	}
}
