/*
NAME
  watch.go

DESCRIPTION
  watch.go provides directory watching, converting XA files to WAV as they
  are written.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package converter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Extensions of watched and produced files.
const (
	xaExt  = ".xa"
	wavExt = ".wav"
	tmpExt = ".part"
)

// settled reports that path has not been written for a settle delay since
// its gen'th event.
type settled struct {
	path string
	gen  int
}

// Watch converts XA files created or written in dir to WAV files in outDir,
// until ctx is done or the watcher fails. A file is converted once it has
// gone SettleDelay without an event. Files already in dir are left alone.
// An empty outDir means dir.
//
// Conversions run one at a time on the calling goroutine. A failed
// conversion is logged and does not stop watching.
func (c *Converter) Watch(ctx context.Context, dir, outDir string) error {
	if outDir == "" {
		outDir = dir
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not create watcher")
	}
	defer w.Close()

	err = w.Add(dir)
	if err != nil {
		return errors.Wrapf(err, "could not watch %s", dir)
	}
	c.cfg.Logger.Info("watching for XA files", "dir", dir, "out", outDir)

	var (
		gens  = make(map[string]int)
		ready = make(chan settled)
		done  = make(chan struct{})
	)
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			c.cfg.Logger.Info("stopped watching", "dir", dir)
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !isXA(ev.Name) || !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) {
				continue
			}
			gens[ev.Name]++
			s := settled{path: ev.Name, gen: gens[ev.Name]}
			time.AfterFunc(c.cfg.SettleDelay, func() {
				select {
				case ready <- s:
				case <-done:
				}
			})

		case s := <-ready:
			if gens[s.path] != s.gen {
				continue
			}
			delete(gens, s.path)
			c.convert(s.path, outDir)

		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			c.cfg.Logger.Warning("watcher error", "error", err.Error())
		}
	}
}

// convert converts the XA file at path into outDir. The WAV file is written
// under a temporary name, renamed when complete and removed on failure.
func (c *Converter) convert(path, outDir string) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(outDir, base+wavExt)
	tmp := out + tmpExt

	c.cfg.Logger.Debug("converting file", "file", path)
	stats, err := c.DecodeFile(path, tmp)
	if err != nil {
		c.cfg.Logger.Error("could not convert file", "file", path, "error", err.Error())
		rerr := os.Remove(tmp)
		if rerr != nil && !os.IsNotExist(rerr) {
			c.cfg.Logger.Warning("could not remove partial output", "file", tmp, "error", rerr.Error())
		}
		return
	}
	err = os.Rename(tmp, out)
	if err != nil {
		c.cfg.Logger.Error("could not rename output", "file", tmp, "error", err.Error())
		return
	}
	c.cfg.Logger.Info("converted file", "file", path, "out", out, "duration", stats.Format.Duration().String())
}

func isXA(path string) bool {
	return strings.EqualFold(filepath.Ext(path), xaExt)
}
