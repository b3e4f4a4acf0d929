/*
NAME
  xa.go

DESCRIPTION
  xa.go contains the constants, errors and output format description shared
  by the XA decoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xa provides a decoder for headered XA ADPCM audio, producing 16-bit
// PCM suitable for a RIFF/WAVE container.
//
// An XA stream is a 32 byte header followed by fixed size blocks. Each block
// holds one sub-block per channel, and each sub-block decodes to 32 samples
// using a two tap predictor whose history carries over from block to block.
// Blocks must therefore be decoded in stream order by a single Decoder.
package xa

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/xa/codec/pcm"
	"github.com/ausocean/xa/codec/wav"
)

const (
	HeaderSize   = 32         // Size of an XA header in bytes.
	BlockSamples = 32         // Samples per channel decoded from one block.
	headerMagic  = 0x3144574b // "KWD1" read as a little endian uint32.
	sampleBits   = 16         // Output sample size in bits.
	byteDepth    = sampleBits / 8
	maxChannels  = 2
)

// Errors returned by the decoder. Errors are wrapped with context, so use
// errors.Is to test for them.
var (
	ErrTruncatedInput      = errors.New("truncated input")
	ErrBadMagic            = errors.New("bad XA magic")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrInconsistentHeader  = errors.New("inconsistent XA header")
	ErrCorruptBlock        = errors.New("corrupt block")
	ErrStreamExhausted     = errors.New("stream exhausted")
	ErrNoHeader            = errors.New("no XA header has been read")
	ErrShortBuffer         = errors.New("destination buffer too short")
)

// Format describes the PCM produced by a decoder. It is derived from a
// validated XA header.
//
// DataLenPCM and Blocks are countdowns: a conversion loop keeps its own copy
// of the Format and WritePCM decrements them as blocks are written out.
type Format struct {
	SampleRate uint16 // Samples per second per channel.
	Channels   uint8  // 1 for mono, 2 for stereo.
	SampleBits uint8  // Always 16.

	BlockSizeXA  uint32 // Bytes of XA consumed per decoded block.
	BlockSizePCM uint32 // Bytes of PCM produced per decoded block.

	DataLenPCM uint64 // PCM bytes remaining.
	Blocks     uint64 // Blocks remaining.
}

// Metadata returns the WAV metadata for audio in this format.
func (f Format) Metadata() wav.Metadata {
	return wav.Metadata{
		AudioFormat: wav.PCMFormat,
		Channels:    int(f.Channels),
		SampleRate:  int(f.SampleRate),
		BitDepth:    int(f.SampleBits),
	}
}

// PCMFormat returns the buffer format of the decoded samples.
func (f Format) PCMFormat() pcm.BufferFormat {
	return pcm.BufferFormat{
		SFormat:  pcm.S16_LE,
		Rate:     uint(f.SampleRate),
		Channels: uint(f.Channels),
	}
}

// Duration returns the play time of the PCM bytes remaining in f.
func (f Format) Duration() time.Duration {
	if f.SampleRate == 0 || f.Channels == 0 {
		return 0
	}
	frames := f.DataLenPCM / (uint64(f.Channels) * byteDepth)
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// WritePCM writes one decoded block of samples to w as S16_LE bytes. Only
// min(BlockSizePCM, DataLenPCM) bytes are written, so the final block is
// trimmed to the declared sample count. On success DataLenPCM and Blocks are
// decremented and the number of bytes written is returned.
func (f *Format) WritePCM(w io.Writer, samples []int16) (int, error) {
	if f.Blocks == 0 || f.DataLenPCM == 0 {
		return 0, errors.Wrap(ErrStreamExhausted, "no pcm left to write")
	}

	n := uint64(f.BlockSizePCM)
	if n > f.DataLenPCM {
		n = f.DataLenPCM
	}
	if uint64(len(samples))*byteDepth < n {
		return 0, errors.Wrapf(ErrShortBuffer, "have %d samples, need %d", len(samples), n/byteDepth)
	}

	err := pcm.WriteS16LE(w, samples, int(n))
	if err != nil {
		return 0, errors.Wrap(err, "could not write pcm")
	}
	f.DataLenPCM -= n
	f.Blocks--
	return int(n), nil
}
