/*
NAME
  pcm.go

DESCRIPTION
  pcm.go contains functions for processing pcm.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcm provides functions for describing and serializing pcm audio.
package pcm

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// SampleFormat is the format that PCM samples can be in.
type SampleFormat int

// Sample formats that we use.
const (
	S16_LE SampleFormat = iota
)

// BufferFormat describes a buffer of PCM data.
type BufferFormat struct {
	SFormat  SampleFormat
	Rate     uint
	Channels uint
}

// Errors returned when serializing samples.
var (
	ErrEmpty     = errors.New("no pcm bytes requested")
	ErrOddLength = errors.New("pcm byte count is not a whole number of 16-bit samples")
)

// chunkSize is the number of bytes WriteS16LE hands to the writer at a time.
const chunkSize = 256

// String returns the string representation of a SampleFormat.
func (f SampleFormat) String() string {
	switch f {
	case S16_LE:
		return "S16_LE"
	default:
		return "Unknown"
	}
}

// checkLen checks that n is a positive, even number of bytes covered by src.
func checkLen(n int, src []int16) error {
	switch {
	case n <= 0:
		return ErrEmpty
	case n%2 != 0:
		return ErrOddLength
	case n > 2*len(src):
		return errors.Errorf("%d bytes requested from %d samples", n, len(src))
	}
	return nil
}

// PutS16LE writes the first len(dst)/2 samples of src into dst as little
// endian 16-bit samples. len(dst) must be positive and even.
func PutS16LE(dst []byte, src []int16) error {
	err := checkLen(len(dst), src)
	if err != nil {
		return err
	}
	for i := 0; i < len(dst); i += 2 {
		binary.LittleEndian.PutUint16(dst[i:], uint16(src[i/2]))
	}
	return nil
}

// WriteS16LE writes the first n bytes of src, serialized as little endian
// 16-bit samples, to w. n must be positive and even.
func WriteS16LE(w io.Writer, src []int16, n int) error {
	err := checkLen(n, src)
	if err != nil {
		return err
	}

	var buf [chunkSize]byte
	for n > 0 {
		l := n
		if l > chunkSize {
			l = chunkSize
		}
		err = PutS16LE(buf[:l], src)
		if err != nil {
			return err
		}
		_, err = w.Write(buf[:l])
		if err != nil {
			return err
		}
		src = src[l/2:]
		n -= l
	}
	return nil
}
