// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "io"

// widthMin is the range-normalization threshold; width never stays
// below it after Normalize, except while flushing.
const widthMin = 1 << 24

// rangeEncoder implements the LZMA arithmetic coder. low can overflow a
// uint32 by carrying into the cached byte, hence the uint64 storage.
type rangeEncoder struct {
	bw       io.ByteWriter
	low      uint64
	cacheLen int
	width    uint32
	cache    byte
}

// init (re)initializes the range encoder to encode into bw.
func (e *rangeEncoder) init(bw io.ByteWriter) {
	*e = rangeEncoder{
		bw:       bw,
		width:    1<<32 - 1,
		cacheLen: 1,
	}
}

// EncodeBit arithmetic-codes one bit under probability p, then updates
// p the way spec.md §4.1/§4.2 requires: the branch taken narrows width
// to the sub-interval for the coded symbol and adapts p towards it.
func (e *rangeEncoder) EncodeBit(b uint32, p *prob) error {
	bound := p.bound(e.width)
	if b&1 == 0 {
		e.width = bound
		p.inc()
	} else {
		e.low += uint64(bound)
		e.width -= bound
		p.dec()
	}
	return e.normalize()
}

// DirectEncodeBit encodes one equiprobable bit (the high bits of a
// direct-coded distance, spec.md §4.1).
func (e *rangeEncoder) DirectEncodeBit(b uint32) error {
	e.width >>= 1
	e.low += uint64(e.width) & (0 - (uint64(b) & 1))
	return e.normalize()
}

// normalize renormalizes width, shifting out a byte through shiftLow
// whenever width has dropped below widthMin.
func (e *rangeEncoder) normalize() error {
	if e.width >= widthMin {
		return nil
	}
	e.width <<= 8
	return e.shiftLow()
}

// Close flushes the remaining state of the range coder by shifting low
// out completely, five bytes being sufficient to drain the cache.
func (e *rangeEncoder) Close() error {
	for i := 0; i < 5; i++ {
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

// shiftLow implements the deferred-carry scheme of spec.md §4.1: a
// byte is only safe to emit once we know whether a pending carry from
// a higher byte will still arrive.
func (e *rangeEncoder) shiftLow() error {
	if uint32(e.low) < 0xff000000 || (e.low>>32) != 0 {
		tmp := e.cache
		for {
			if err := e.bw.WriteByte(tmp + byte(e.low>>32)); err != nil {
				return err
			}
			tmp = 0xff
			e.cacheLen--
			if e.cacheLen <= 0 {
				break
			}
		}
		e.cache = byte(uint32(e.low) >> 24)
	}
	e.cacheLen++
	e.low = uint64(uint32(e.low) << 8)
	return nil
}

// rangeDecoder is the decoding counterpart, used only by the
// verification Decoder (SPEC_FULL.md §4), never by the encoder.
type rangeDecoder struct {
	br    io.ByteReader
	width uint32
	code  uint32
}

// init initializes the decoder, consuming the leading zero byte and the
// four code bytes that seed d.code.
func (d *rangeDecoder) init(br io.ByteReader) error {
	*d = rangeDecoder{br: br, width: 1<<32 - 1}
	b, err := d.br.ReadByte()
	if err != nil {
		return err
	}
	if b != 0 {
		return newError("first byte of LZMA stream not zero")
	}
	for i := 0; i < 4; i++ {
		if err = d.updateCode(); err != nil {
			return err
		}
	}
	return nil
}

func (d *rangeDecoder) updateCode() error {
	b, err := d.br.ReadByte()
	if err != nil {
		return err
	}
	d.code = d.code<<8 | uint32(b)
	return nil
}

func (d *rangeDecoder) normalize() error {
	if d.width >= widthMin {
		return nil
	}
	d.width <<= 8
	return d.updateCode()
}

// decodeBit decodes and returns a single bit, updating p identically to
// EncodeBit.
func (d *rangeDecoder) decodeBit(p *prob) (b uint32, err error) {
	bound := p.bound(d.width)
	if d.code < bound {
		d.width = bound
		p.inc()
		b = 0
	} else {
		d.code -= bound
		d.width -= bound
		p.dec()
		b = 1
	}
	return b, d.normalize()
}

// directDecodeBit decodes one equiprobable bit.
func (d *rangeDecoder) directDecodeBit() (b uint32, err error) {
	d.width >>= 1
	d.code -= d.width
	t := 0 - (d.code >> 31)
	d.code += d.width & t
	b = (t + 1) & 1
	return b, d.normalize()
}
