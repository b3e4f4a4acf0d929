/*
NAME
  header.go

DESCRIPTION
  header.go contains parsing and validation of the 32 byte XA header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xa

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// leReader reads little endian integers from the front of a byte slice.
// Callers check the length before reading.
type leReader struct {
	buf []byte
	off int
}

func (r *leReader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *leReader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *leReader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

// header holds the fields of an XA header as they appear in the stream.
//
//	offset size field
//	0      4    magic
//	4      4    compressed data length
//	8      4    samples per channel
//	12     2    sample rate
//	14     1    bits per sample (4, 6 or 8)
//	15     1    channels
//	16     4    loop point
//	20     8    left then right predictor history (prev0, prev1)
//	28     4    padding
type header struct {
	magic    uint32
	dataLen  uint32
	samples  uint32
	rate     uint16
	bits     uint8
	channels uint8
	loop     uint32
	history  [maxChannels]ChannelState
	pad      uint32
}

// parseHeader reads the header fields from the first HeaderSize bytes of b.
// Nothing beyond the length is checked.
func parseHeader(b []byte) (header, error) {
	if len(b) < HeaderSize {
		return header{}, errors.Wrapf(ErrTruncatedInput, "header needs %d bytes, got %d", HeaderSize, len(b))
	}

	r := leReader{buf: b[:HeaderSize]}
	var h header
	h.magic = r.u32()
	h.dataLen = r.u32()
	h.samples = r.u32()
	h.rate = r.u16()
	h.bits = r.u8()
	h.channels = r.u8()
	h.loop = r.u32()
	for i := range h.history {
		h.history[i].Prev[0] = int16(r.u16())
		h.history[i].Prev[1] = int16(r.u16())
	}
	h.pad = r.u32()

	if r.off != HeaderSize {
		panic(fmt.Sprintf("xa: read %d header bytes, want %d", r.off, HeaderSize))
	}
	return h, nil
}

// state is the decoding state described by a validated header.
type state struct {
	dataLen    uint32 // Bytes of compressed payload.
	samples    uint32 // Declared samples per channel.
	sampleRate uint16
	blockSize  uint32 // Bytes per channel per block.
	channels   uint32
	chans      [maxChannels]ChannelState
	variant    variant
	blocks     uint64 // Blocks left to decode.
}

func inconsistent(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInconsistentHeader, format, args...)
}

// newState validates h and returns the state it describes.
func newState(h header) (state, error) {
	if h.magic != headerMagic {
		return state{}, errors.Wrapf(ErrBadMagic, "got %#08x, want %#08x", h.magic, headerMagic)
	}

	v, ok := variantFor(h.bits)
	if !ok {
		return state{}, errors.Wrapf(ErrUnsupportedBitDepth, "%d bits per sample", h.bits)
	}

	switch {
	case h.dataLen == 0:
		return state{}, inconsistent("zero data length")
	case h.samples == 0:
		return state{}, inconsistent("zero sample count")
	case h.rate == 0:
		return state{}, inconsistent("zero sample rate")
	case h.channels != 1 && h.channels != 2:
		return state{}, inconsistent("%d channels", h.channels)
	}

	s := state{
		dataLen:    h.dataLen,
		samples:    h.samples,
		sampleRate: h.rate,
		blockSize:  v.blockSize(),
		channels:   uint32(h.channels),
		chans:      h.history,
		variant:    v,
	}

	// Every block carries one sub-block per channel, so a partial block for
	// any channel leaves the payload short.
	if s.dataLen%(s.blockSize*s.channels) != 0 {
		return state{}, inconsistent("data length %d is not a whole number of %d byte blocks", s.dataLen, s.blockSize*s.channels)
	}

	// The declared sample count must fall within the last block.
	maxSamples := BlockSamples * uint64(s.dataLen) / (uint64(s.blockSize) * uint64(s.channels))
	if uint64(s.samples) > maxSamples {
		return state{}, inconsistent("%d samples declared, payload holds at most %d", s.samples, maxSamples)
	}
	if maxSamples-uint64(s.samples) >= BlockSamples {
		return state{}, inconsistent("%d samples declared, payload holds %d", s.samples, maxSamples)
	}

	return s, nil
}

// format returns the output format of s with full countdowns.
func (s *state) format() Format {
	f := Format{
		SampleRate:   s.sampleRate,
		Channels:     uint8(s.channels),
		SampleBits:   sampleBits,
		BlockSizeXA:  s.blockSize * s.channels,
		BlockSizePCM: BlockSamples * s.channels * byteDepth,
		DataLenPCM:   uint64(s.samples) * uint64(s.channels) * byteDepth,
	}
	f.Blocks = uint64(s.dataLen / f.BlockSizeXA)
	if f.Blocks*uint64(f.BlockSizeXA) != uint64(s.dataLen) {
		panic(fmt.Sprintf("xa: %d blocks of %d bytes do not cover %d bytes", f.Blocks, f.BlockSizeXA, s.dataLen))
	}
	return f
}
