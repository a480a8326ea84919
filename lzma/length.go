// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// minMatchLen and maxMatchLen bound the lengths the core can encode.
// maxMatchLen is minMatchLen + 8 + 8 + 256 - 1, the sum of the three
// length sub-ranges (spec.md §3.1).
const (
	minMatchLen = 2
	maxMatchLen = minMatchLen + 8 + 8 + 256 - 1
)

// maxPosBits is the maximum number of position-context bits (pb), used
// to size the per-pos-state low/mid coder arrays.
const maxPosBits = 4

// lengthCodec encodes a match length as one of three sub-ranges,
// exactly as spec.md §4.4 specifies.
type lengthCodec struct {
	choice [2]prob
	low    [1 << maxPosBits]treeCodec
	mid    [1 << maxPosBits]treeCodec
	high   treeCodec
}

func (lc *lengthCodec) init() {
	for i := range lc.choice {
		lc.choice[i] = probInit
	}
	for i := range lc.low {
		lc.low[i] = makeTreeCodec(3)
	}
	for i := range lc.mid {
		lc.mid[i] = makeTreeCodec(3)
	}
	lc.high = makeTreeCodec(8)
}

// Encode codes the length offset l = L - minMatchLen.
func (lc *lengthCodec) Encode(e *rangeEncoder, l uint32, posState uint32) (err error) {
	if l > maxMatchLen-minMatchLen {
		return newError("length offset out of range")
	}
	if l < 8 {
		if err = e.EncodeBit(0, &lc.choice[0]); err != nil {
			return err
		}
		return lc.low[posState].Encode(e, l)
	}
	if err = e.EncodeBit(1, &lc.choice[0]); err != nil {
		return err
	}
	if l < 16 {
		if err = e.EncodeBit(0, &lc.choice[1]); err != nil {
			return err
		}
		return lc.mid[posState].Encode(e, l-8)
	}
	if err = e.EncodeBit(1, &lc.choice[1]); err != nil {
		return err
	}
	return lc.high.Encode(e, l-16)
}

// Decode is the Encode counterpart, used only by the verification
// Decoder.
func (lc *lengthCodec) Decode(d *rangeDecoder, posState uint32) (l uint32, err error) {
	b, err := d.decodeBit(&lc.choice[0])
	if err != nil {
		return 0, err
	}
	if b == 0 {
		return lc.low[posState].Decode(d)
	}
	b, err = d.decodeBit(&lc.choice[1])
	if err != nil {
		return 0, err
	}
	if b == 0 {
		l, err = lc.mid[posState].Decode(d)
		return l + 8, err
	}
	l, err = lc.high.Decode(d)
	return l + 16, err
}
