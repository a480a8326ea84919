// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// minLC, maxLC, minLP, maxLP bound the literal context/position bit
// parameters (spec.md §6.1).
const (
	minLC = 0
	maxLC = 8
	minLP = 0
	maxLP = 4
)

// literalCodec encodes a byte using the context of the previous byte
// and, in "matched" mode (state >= 7), the byte at the last match
// distance (spec.md §4.6). It keeps 0x300 probabilities per literal
// state cluster.
type literalCodec struct {
	probs []prob
}

func (c *literalCodec) init(lc, lp int) {
	switch {
	case !(minLC <= lc && lc <= maxLC):
		panic("lzmacore: lc out of range")
	case !(minLP <= lp && lp <= maxLP):
		panic("lzmacore: lp out of range")
	}
	c.probs = make([]prob, 0x300<<uint(lc+lp))
	for i := range c.probs {
		c.probs[i] = probInit
	}
}

// Encode codes byte s. state < 7 means the previous token was a
// literal (plain mode); state >= 7 means a match or rep preceded it
// (matched mode), and match gives the byte found at the current rep0
// distance.
func (c *literalCodec) Encode(e *rangeEncoder, s byte, state uint32, match byte, litState uint32) error {
	k := litState * 0x300
	probs := c.probs[k : k+0x300]
	symbol := uint32(1)
	r := uint32(s)
	if state >= 7 {
		m := uint32(match)
		for {
			matchBit := (m >> 7) & 1
			m <<= 1
			bit := (r >> 7) & 1
			r <<= 1
			i := ((1 + matchBit) << 8) | symbol
			if err := e.EncodeBit(bit, &probs[i]); err != nil {
				return err
			}
			symbol = (symbol << 1) | bit
			if matchBit != bit || symbol >= 0x100 {
				break
			}
		}
	}
	for symbol < 0x100 {
		bit := (r >> 7) & 1
		r <<= 1
		if err := e.EncodeBit(bit, &probs[symbol]); err != nil {
			return err
		}
		symbol = (symbol << 1) | bit
	}
	return nil
}

// Decode is the Encode counterpart, used only by the verification
// Decoder.
func (c *literalCodec) Decode(d *rangeDecoder, state uint32, match byte, litState uint32) (s byte, err error) {
	k := litState * 0x300
	probs := c.probs[k : k+0x300]
	symbol := uint32(1)
	if state >= 7 {
		m := uint32(match)
		for {
			matchBit := (m >> 7) & 1
			m <<= 1
			i := ((1 + matchBit) << 8) | symbol
			bit, err := d.decodeBit(&probs[i])
			if err != nil {
				return 0, err
			}
			symbol = (symbol << 1) | bit
			if matchBit != bit || symbol >= 0x100 {
				break
			}
		}
	}
	for symbol < 0x100 {
		bit, err := d.decodeBit(&probs[symbol])
		if err != nil {
			return 0, err
		}
		symbol = (symbol << 1) | bit
	}
	return byte(symbol - 0x100), nil
}
