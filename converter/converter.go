/*
NAME
  converter.go

DESCRIPTION
  converter.go provides the Converter, which turns XA streams and files into
  RIFF/WAVE audio.

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

// Package converter provides an API for converting XA ADPCM streams and files
// to WAV, either one at a time or by watching a directory.
package converter

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/xa/codec/xa"
	"github.com/ausocean/xa/converter/config"
)

// Stats describes a finished, or failed, conversion.
type Stats struct {
	Format  xa.Format // Format as declared by the XA header.
	Blocks  uint64    // XA blocks decoded and written.
	Bytes   uint64    // PCM bytes written, not counting the RIFF header.
	Corrupt int       // Channel blocks decoded without prediction.
}

// Converter converts XA audio to WAV using the settings in its Config.
// A Converter holds no per stream state and may be used for any number of
// conversions, but not concurrently from more than one goroutine.
type Converter struct {
	cfg config.Config
}

// New returns a new Converter with the given configuration. The config is
// validated, with bad or unset fields set to defaults.
func New(c config.Config) (*Converter, error) {
	if c.Logger == nil {
		return nil, errors.New("config has no logger")
	}
	c.Logger.Debug("validating config")
	err := c.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "config struct is bad")
	}
	c.Logger.SetLevel(c.LogLevel)
	return &Converter{cfg: c}, nil
}

// Config returns a copy of the converter's config.
func (c *Converter) Config() config.Config {
	return c.cfg
}

// Decode reads an XA stream from src and writes it to dst as a WAV file: a
// RIFF header followed by the decoded samples. The first error stops the
// conversion; the returned Stats then say how far it got.
func (c *Converter) Decode(dst io.Writer, src io.Reader) (Stats, error) {
	dec := xa.NewDecoder(xa.Strict(c.cfg.Strict))
	f, err := dec.ReadHeader(src)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Format: f}
	pf := f.PCMFormat()
	c.cfg.Logger.Debug("read XA header", "format", pf.SFormat.String(), "rate", pf.Rate, "channels", pf.Channels, "blocks", f.Blocks, "duration", f.Duration().String())

	err = dec.WriteRIFFHeader(dst)
	if err != nil {
		return stats, err
	}

	xaBuf := make([]byte, f.BlockSizeXA)
	pcmBuf := make([]int16, f.BlockSizePCM/2)
	for f.Blocks > 0 {
		_, err = io.ReadFull(src, xaBuf)
		switch {
		case err == io.EOF, err == io.ErrUnexpectedEOF:
			return stats, errors.Wrapf(xa.ErrTruncatedInput, "block %d of %d", stats.Blocks, stats.Format.Blocks)
		case err != nil:
			return stats, errors.Wrapf(err, "could not read block %d", stats.Blocks)
		}

		_, err = dec.Decode(pcmBuf, xaBuf)
		if err != nil {
			return stats, errors.Wrapf(err, "could not decode block %d", stats.Blocks)
		}
		stats.Corrupt = dec.Corrupt()

		n, err := f.WritePCM(dst, pcmBuf)
		if err != nil {
			return stats, err
		}
		stats.Blocks++
		stats.Bytes += uint64(n)
	}

	if f.DataLenPCM != 0 {
		return stats, errors.Errorf("pcm length mismatch: %d bytes not written", f.DataLenPCM)
	}
	if stats.Corrupt > 0 {
		c.cfg.Logger.Warning("decoded corrupt blocks without prediction", "count", stats.Corrupt)
	}
	c.cfg.Logger.Info("decoded stream", "blocks", stats.Blocks, "bytes", stats.Bytes)
	return stats, nil
}

// DecodeFile converts the XA file at in to a WAV file at out. An empty path
// or config.StdPath selects stdin for in and stdout for out. Files are
// closed on return, but a partly written output is left in place.
func (c *Converter) DecodeFile(in, out string) (Stats, error) {
	src, err := openInput(in)
	if err != nil {
		return Stats{}, err
	}
	defer src.Close()

	dst, err := createOutput(out)
	if err != nil {
		return Stats{}, err
	}

	w := bufio.NewWriter(dst)
	stats, err := c.Decode(w, bufio.NewReader(src))
	ferr := w.Flush()
	if err == nil && ferr != nil {
		err = errors.Wrap(ferr, "could not flush output")
	}
	cerr := dst.Close()
	if err == nil && cerr != nil {
		err = errors.Wrap(cerr, "could not close output")
	}
	return stats, err
}

func isStd(path string) bool { return path == "" || path == config.StdPath }

func openInput(path string) (io.ReadCloser, error) {
	if isStd(path) {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open input")
	}
	return f, nil
}

func createOutput(path string) (io.WriteCloser, error) {
	if isStd(path) {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not create output")
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
