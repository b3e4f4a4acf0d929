/*
NAME
  wav.go

DESCRIPTION
  wav.go contains functions for writing the RIFF/WAVE header of streamed
  PCM audio.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav provides functions for writing wav audio.
package wav

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

const (
	PCMFormat  = 1  // PCMFormat defines the value for pcm audio as defined by the wav std.
	HeaderSize = 44 // Size of the canonical RIFF/WAVE header in bytes.

	fmtChunkSize = 16 // Size of the fmt chunk body for PCM.
	riffOverhead = HeaderSize - 8
)

var (
	errInvalidFormat   = errors.New("invalid or no format defined")
	errInvalidRate     = errors.New("invalid or no sample rate defined")
	errInvalidChannels = errors.New("invalid or no number of channels defined")
	errInvalidBitDepth = errors.New("invalid or no bit depth defined")
	errDataTooLarge    = errors.New("audio data too large for RIFF")
)

// Metadata defines the format of the audio in a WAV file.
type Metadata struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
}

// validate checks that md can be described by a PCM fmt chunk.
func (md Metadata) validate() error {
	switch {
	case md.AudioFormat != PCMFormat:
		return errInvalidFormat
	case md.Channels <= 0 || md.Channels > math.MaxUint16:
		return errInvalidChannels
	case md.SampleRate <= 0 || int64(md.SampleRate) > math.MaxUint32:
		return errInvalidRate
	case md.BitDepth <= 0 || md.BitDepth%8 != 0 || md.BitDepth > math.MaxUint16:
		return errInvalidBitDepth
	}
	return nil
}

// Header returns the 44 byte header of a WAV file holding dataLen bytes of
// audio described by md. The audio itself is expected to follow the header.
func Header(md Metadata, dataLen uint64) ([]byte, error) {
	err := md.validate()
	if err != nil {
		return nil, err
	}
	if dataLen > math.MaxUint32-riffOverhead {
		return nil, errDataTooLarge
	}

	header := make([]byte, HeaderSize)

	// RIFF chunk.
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(riffOverhead+dataLen))
	copy(header[8:12], "WAVE")

	// fmt chunk.
	blockAlign := md.Channels * md.BitDepth / 8
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], PCMFormat)
	binary.LittleEndian.PutUint16(header[22:24], uint16(md.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(md.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(md.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(md.BitDepth))

	// Start of data chunk.
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	return header, nil
}

// WriteHeader writes the header for dataLen bytes of audio described by md
// to w. The caller then writes exactly dataLen bytes of audio.
func WriteHeader(w io.Writer, md Metadata, dataLen uint64) error {
	header, err := Header(md, dataLen)
	if err != nil {
		return err
	}
	_, err = w.Write(header)
	return err
}
