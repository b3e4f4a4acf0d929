/*
NAME
  inflate.go

DESCRIPTION
  inflate.go contains the 4, 6 and 8-bit block unpacking and the two tap
  predictor used to reconstruct PCM from XA blocks.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xa

import (
	"fmt"
	"math"
)

// Predictor coefficient pairs in 1/256 units, selected by the high nibble
// of a block's profile byte.
var gainFactors = [...][2]int32{
	{0, 0},
	{240, 0},
	{460, -208},
	{392, -220},
	{488, -240},
}

// ChannelState is the predictor history of one channel: the two most
// recently reconstructed samples, newest first.
type ChannelState struct {
	Prev [2]int16
}

// variant is the block layout for a bit depth. Its value is the number of
// bits per sample code.
type variant uint8

const (
	variant4 variant = 4
	variant6 variant = 6
	variant8 variant = 8
)

func variantFor(bits uint8) (variant, bool) {
	switch v := variant(bits); v {
	case variant4, variant6, variant8:
		return v, true
	default:
		return 0, false
	}
}

// blockSize returns the bytes in one channel's block: a profile byte and
// BlockSamples codes of v bits.
func (v variant) blockSize() uint32 { return uint32(v)*4 + 1 }

// inflate unpacks the BlockSamples codes of the channel block src into
// dst[0], dst[stride], dst[2*stride] and so on, left aligned into 16 bits,
// and returns the block's profile byte. src must hold v.blockSize() bytes.
func (v variant) inflate(dst []int16, stride int, src []byte) byte {
	profile := src[0]
	src = src[1:v.blockSize()]

	var i int
	switch v {
	case variant4:
		// High nibble first.
		for _, b := range src {
			dst[i] = int16(uint16(b&0xf0) << 8)
			i += stride
			dst[i] = int16(uint16(b&0x0f) << 12)
			i += stride
		}
	case variant6:
		// Four codes per three bytes, most significant first.
		for ; len(src) >= 3; src = src[3:] {
			s := uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
			dst[i] = int16(uint16((s & 0x00fc0000) >> 8))
			i += stride
			dst[i] = int16(uint16((s & 0x0003f000) >> 2))
			i += stride
			dst[i] = int16(uint16((s & 0x00000fc0) << 4))
			i += stride
			dst[i] = int16(uint16((s & 0x0000003f) << 10))
			i += stride
		}
	case variant8:
		for _, b := range src {
			dst[i] = int16(uint16(b) << 8)
			i += stride
		}
	default:
		panic(fmt.Sprintf("xa: no inflater for %d bits", v))
	}
	return profile
}

// splitProfile returns the gain factor selector and range (right shift) of
// a profile byte.
func splitProfile(p byte) (factor, rng uint8) {
	return p >> 4, p & 0x0f
}

// predict reconstructs, in place, the BlockSamples codes at dst[0],
// dst[stride], ... using gain factor pair factor and range rng, and updates
// the history in c. factor must index gainFactors.
func (c *ChannelState) predict(dst []int16, stride int, factor, rng uint8) {
	k0, k1 := gainFactors[factor][0], gainFactors[factor][1]
	for i := 0; i < BlockSamples*stride; i += stride {
		ranged := int32(dst[i] >> rng)
		gain := int32(c.Prev[0])*k0 + int32(c.Prev[1])*k1
		s := clamp16(ranged + gain/256)
		dst[i] = s
		c.Prev[1] = c.Prev[0]
		c.Prev[0] = s
	}
}

// clamp16 caps v at max/min int16 instead of overflowing.
func clamp16(v int32) int16 {
	switch {
	case v < math.MinInt16:
		return math.MinInt16
	case v > math.MaxInt16:
		return math.MaxInt16
	default:
		return int16(v)
	}
}
