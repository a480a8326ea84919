// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// probTree stores the probabilities of a balanced binary tree used to
// code a fixed-width symbol one bit at a time. The root lives at index
// 1; index 0 is unused so that child(m) = 2m, 2m+1 holds without a
// special case at the root.
type probTree struct {
	probs []prob
	bits  byte
}

// makeProbTree allocates a probTree for a symbol of the given bit
// width, all probabilities initialized to probInit.
func makeProbTree(bits int) probTree {
	if !(1 <= bits && bits <= 32) {
		panic("lzmacore: tree bits outside of range [1,32]")
	}
	t := probTree{
		bits:  byte(bits),
		probs: make([]prob, 1<<uint(bits)),
	}
	for i := range t.probs {
		t.probs[i] = probInit
	}
	return t
}

// treeCodec codes a fixed-width symbol bit by bit, most-significant
// bit first.
type treeCodec struct {
	probTree
}

func makeTreeCodec(bits int) treeCodec {
	return treeCodec{makeProbTree(bits)}
}

// Encode descends the tree from the root, coding the symbol's bits from
// the top down.
func (tc *treeCodec) Encode(e *rangeEncoder, v uint32) error {
	m := uint32(1)
	for i := int(tc.bits) - 1; i >= 0; i-- {
		b := (v >> uint(i)) & 1
		if err := e.EncodeBit(b, &tc.probs[m]); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

// Decode is the Encode counterpart, used only by the verification
// Decoder.
func (tc *treeCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	m := uint32(1)
	for j := 0; j < int(tc.bits); j++ {
		b, err := d.decodeBit(&tc.probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | b
	}
	return m - (1 << uint(tc.bits)), nil
}

// treeReverseCodec is a bit-tree codec that draws bits from the symbol
// least-significant bit first, used for distance alignment and
// position-model bits (spec.md §4.3).
type treeReverseCodec struct {
	probTree
}

func makeTreeReverseCodec(bits int) treeReverseCodec {
	return treeReverseCodec{makeProbTree(bits)}
}

func (tc *treeReverseCodec) Encode(e *rangeEncoder, v uint32) error {
	m := uint32(1)
	for i := uint(0); i < uint(tc.bits); i++ {
		b := (v >> i) & 1
		if err := e.EncodeBit(b, &tc.probs[m]); err != nil {
			return err
		}
		m = (m << 1) | b
	}
	return nil
}

func (tc *treeReverseCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	m := uint32(1)
	for j := uint(0); j < uint(tc.bits); j++ {
		b, err := d.decodeBit(&tc.probs[m])
		if err != nil {
			return 0, err
		}
		m = (m << 1) | b
		v |= b << j
	}
	return v, nil
}

// directCodec codes a fixed number of equiprobable bits, most
// significant bit first (used for the high bits of large distances).
type directCodec byte

func (dc directCodec) Encode(e *rangeEncoder, v uint32) error {
	for i := int(dc) - 1; i >= 0; i-- {
		if err := e.DirectEncodeBit(v >> uint(i)); err != nil {
			return err
		}
	}
	return nil
}

func (dc directCodec) Decode(d *rangeDecoder) (v uint32, err error) {
	for i := int(dc) - 1; i >= 0; i-- {
		x, err := d.directDecodeBit()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | x
	}
	return v, nil
}
