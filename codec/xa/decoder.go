/*
NAME
  decoder.go

DESCRIPTION
  decoder.go provides the XA Decoder, which reads headers and decodes XA
  blocks into 16-bit PCM samples.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xa

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/xa/codec/wav"
)

// Decoder decodes a single XA stream. A Decoder must not be used
// concurrently, and each stream needs its own Decoder since predictor
// history carries over from block to block.
type Decoder struct {
	st      state
	ready   bool // A header has been read.
	strict  bool
	corrupt int
}

// Option configures a Decoder.
type Option func(*Decoder)

// Strict controls handling of blocks with an out of range gain factor
// selector. A strict decoder fails with ErrCorruptBlock. Otherwise, the
// default, the block is decoded without prediction and counted (see
// Corrupt).
func Strict(strict bool) Option {
	return func(d *Decoder) { d.strict = strict }
}

// NewDecoder returns a new Decoder. ParseHeader or ReadHeader must be called
// before decoding.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ParseHeader parses and validates the XA header at the start of b and
// returns the format of the decoded audio. On failure the Decoder is left
// as it was.
func (d *Decoder) ParseHeader(b []byte) (Format, error) {
	h, err := parseHeader(b)
	if err != nil {
		return Format{}, err
	}
	st, err := newState(h)
	if err != nil {
		return Format{}, err
	}

	f := st.format()
	st.blocks = f.Blocks
	d.st = st
	d.ready = true
	d.corrupt = 0
	return f, nil
}

// ReadHeader reads exactly HeaderSize bytes from r and parses them as with
// ParseHeader.
func (d *Decoder) ReadHeader(r io.Reader) (Format, error) {
	var buf [HeaderSize]byte
	n, err := io.ReadFull(r, buf[:])
	switch {
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		return Format{}, errors.Wrapf(ErrTruncatedInput, "header needs %d bytes, got %d", HeaderSize, n)
	case err != nil:
		return Format{}, errors.Wrap(err, "could not read header")
	}
	return d.ParseHeader(buf[:])
}

// Format returns the format described by the last header read, with full
// countdowns.
func (d *Decoder) Format() (Format, error) {
	if !d.ready {
		return Format{}, ErrNoHeader
	}
	return d.st.format(), nil
}

// WriteRIFFHeader writes a canonical 44 byte RIFF/WAVE header for the
// decoded stream to w.
func (d *Decoder) WriteRIFFHeader(w io.Writer) error {
	f, err := d.Format()
	if err != nil {
		return err
	}
	err = wav.WriteHeader(w, f.Metadata(), f.DataLenPCM)
	if err != nil {
		return errors.Wrap(err, "could not write RIFF header")
	}
	return nil
}

// Remaining returns the number of blocks left to decode.
func (d *Decoder) Remaining() uint64 { return d.st.blocks }

// Corrupt returns the number of channel blocks decoded since the last header
// whose gain factor selector was out of range.
func (d *Decoder) Corrupt() int { return d.corrupt }

// Decode decodes whole XA blocks from src into dst and returns the number of
// blocks decoded. Each block consumes Format.BlockSizeXA bytes and produces
// BlockSamples samples per channel, interleaved for stereo. Decoding stops
// when either src or dst cannot hold another block, or when the blocks
// declared by the header run out.
//
// Blocks must be given in stream order; repeating or skipping blocks is not
// detected and produces wrong audio.
func (d *Decoder) Decode(dst []int16, src []byte) (int, error) {
	if !d.ready {
		return 0, ErrNoHeader
	}

	xaSize := int(d.st.blockSize * d.st.channels)
	pcmSize := BlockSamples * int(d.st.channels)
	switch {
	case d.st.blocks == 0:
		return 0, ErrStreamExhausted
	case len(src) < xaSize:
		return 0, errors.Wrapf(ErrTruncatedInput, "block needs %d bytes, got %d", xaSize, len(src))
	case len(dst) < pcmSize:
		return 0, errors.Wrapf(ErrShortBuffer, "block needs %d samples, got %d", pcmSize, len(dst))
	}

	var n int
	for d.st.blocks > 0 && len(src) >= xaSize && len(dst) >= pcmSize {
		err := d.decodeBlock(dst[:pcmSize], src[:xaSize])
		if err != nil {
			return n, errors.Wrapf(err, "block %d", n)
		}
		d.st.blocks--
		src = src[xaSize:]
		dst = dst[pcmSize:]
		n++
	}
	return n, nil
}

// decodeBlock decodes one XA block holding a sub-block per channel, left
// first. Channel state is only updated once all profiles have been checked.
func (d *Decoder) decodeBlock(dst []int16, src []byte) error {
	var (
		ch      = int(d.st.channels)
		bs      = int(d.st.blockSize)
		factors [maxChannels]uint8
		ranges  [maxChannels]uint8
	)

	for c := 0; c < ch; c++ {
		p := d.st.variant.inflate(dst[c:], ch, src[c*bs:(c+1)*bs])
		factors[c], ranges[c] = splitProfile(p)
	}

	for c := 0; c < ch; c++ {
		if int(factors[c]) < len(gainFactors) {
			continue
		}
		if d.strict {
			return errors.Wrapf(ErrCorruptBlock, "channel %d: gain factor %d out of range", c, factors[c])
		}
		d.corrupt++
		factors[c] = 0
	}

	for c := 0; c < ch; c++ {
		d.st.chans[c].predict(dst[c:], ch, factors[c], ranges[c])
	}
	return nil
}
