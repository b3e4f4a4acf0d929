/*
NAME
  helpers_test.go

DESCRIPTION
  helpers_test.go provides builders for synthetic XA headers and blocks used
  by the xa tests.

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
)

// testHeader holds the fields written by bytes.
type testHeader struct {
	magic    uint32
	dataLen  uint32
	samples  uint32
	rate     uint16
	bits     uint8
	channels uint8
	hist     [maxChannels][2]int16
}

// newTestHeader returns a valid header for blocks whole blocks holding
// samples samples per channel.
func newTestHeader(bits, channels uint8, blocks, samples uint32) testHeader {
	return testHeader{
		magic:    headerMagic,
		dataLen:  blocks * (uint32(bits)*4 + 1) * uint32(channels),
		samples:  samples,
		rate:     22050,
		bits:     bits,
		channels: channels,
	}
}

func (h testHeader) bytes() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:], h.magic)
	binary.LittleEndian.PutUint32(b[4:], h.dataLen)
	binary.LittleEndian.PutUint32(b[8:], h.samples)
	binary.LittleEndian.PutUint16(b[12:], h.rate)
	b[14] = h.bits
	b[15] = h.channels
	binary.LittleEndian.PutUint32(b[16:], 0xdeadbeef) // Loop point, ignored.
	for i, p := range h.hist {
		binary.LittleEndian.PutUint16(b[20+4*i:], uint16(p[0]))
		binary.LittleEndian.PutUint16(b[22+4*i:], uint16(p[1]))
	}
	binary.LittleEndian.PutUint32(b[28:], 0xffffffff) // Padding, ignored.
	return b
}

// packBlock returns a channel block of the given bit depth holding profile
// and the BlockSamples codes in codes. Each code uses its low bits bits.
func packBlock(bits uint8, profile byte, codes []uint8) []byte {
	if len(codes) != BlockSamples {
		panic(fmt.Sprintf("got %d codes, want %d", len(codes), BlockSamples))
	}
	b := []byte{profile}
	switch bits {
	case 4:
		for i := 0; i < len(codes); i += 2 {
			b = append(b, codes[i]<<4|codes[i+1]&0x0f)
		}
	case 6:
		for i := 0; i < len(codes); i += 4 {
			s := uint32(codes[i]&0x3f)<<18 | uint32(codes[i+1]&0x3f)<<12 |
				uint32(codes[i+2]&0x3f)<<6 | uint32(codes[i+3]&0x3f)
			b = append(b, byte(s>>16), byte(s>>8), byte(s))
		}
	case 8:
		b = append(b, codes...)
	default:
		panic(fmt.Sprintf("no packing for %d bits", bits))
	}
	return b
}

// fill returns BlockSamples copies of code.
func fill(code uint8) []uint8 {
	codes := make([]uint8, BlockSamples)
	for i := range codes {
		codes[i] = code
	}
	return codes
}

// repeat returns n copies of v.
func repeat(v int16, n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = v
	}
	return s
}
