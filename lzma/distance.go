// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "math/bits"

// Constants governing the distance codec (spec.md §3.1).
const (
	lenStates      = 4
	startDistModel = 4
	endDistModel   = 14
	distSlotBits   = 6
	alignBits      = 4
)

// eosDist is the sentinel distance that marks end of stream (spec.md
// §3.1, EOS_MAGIC_DIST).
const eosDist = 1<<32 - 1

// distCodec encodes a match distance as a 6-bit slot plus, depending on
// the slot, either a position-model bit-tree, or direct bits followed
// by an alignment bit-tree (spec.md §4.5).
type distCodec struct {
	slotCoder  [lenStates]treeCodec
	posCoder   [endDistModel - startDistModel]treeReverseCodec
	alignCoder treeReverseCodec
}

func (dc *distCodec) init() {
	for i := range dc.slotCoder {
		dc.slotCoder[i] = makeTreeCodec(distSlotBits)
	}
	for i := range dc.posCoder {
		slot := startDistModel + i
		footerBits := (slot >> 1) - 1
		dc.posCoder[i] = makeTreeReverseCodec(footerBits)
	}
	dc.alignCoder = makeTreeReverseCodec(alignBits)
}

// lenState clamps a length offset into the four length-state buckets
// the distance slot coder is conditioned on.
func lenState(l uint32) uint32 {
	if l >= lenStates {
		return lenStates - 1
	}
	return l
}

// distSlot returns the 6-bit logarithmic bucket for dist, per spec.md
// §4.5: dist itself below startDistModel, otherwise
// 2*floor(log2 dist) + the bit below the top bit.
func distSlot(dist uint32) uint32 {
	if dist < startDistModel {
		return dist
	}
	n := uint32(31 - bits.LeadingZeros32(dist))
	return (n << 1) + ((dist >> (n - 1)) & 1)
}

// Encode codes dist (the actual distance minus 1, per spec.md's "dist"
// parameter convention carried over from the teacher) conditioned on
// the length offset l.
func (dc *distCodec) Encode(e *rangeEncoder, dist uint32, l uint32) error {
	slot := distSlot(dist)
	if err := dc.slotCoder[lenState(l)].Encode(e, slot); err != nil {
		return err
	}
	if slot < startDistModel {
		return nil
	}
	footerBits := (slot >> 1) - 1
	base := (2 | (slot & 1)) << footerBits
	reduced := dist - base
	if slot < endDistModel {
		tc := &dc.posCoder[slot-startDistModel]
		return tc.Encode(e, reduced)
	}
	dcDirect := directCodec(footerBits - alignBits)
	if err := dcDirect.Encode(e, reduced>>alignBits); err != nil {
		return err
	}
	return dc.alignCoder.Encode(e, reduced)
}

// Decode is the Encode counterpart, used only by the verification
// Decoder.
func (dc *distCodec) Decode(d *rangeDecoder, l uint32) (dist uint32, err error) {
	slot, err := dc.slotCoder[lenState(l)].Decode(d)
	if err != nil {
		return 0, err
	}
	if slot < startDistModel {
		return slot, nil
	}
	footerBits := (slot >> 1) - 1
	dist = (2 | (slot & 1)) << footerBits
	if slot < endDistModel {
		tc := &dc.posCoder[slot-startDistModel]
		u, err := tc.Decode(d)
		if err != nil {
			return 0, err
		}
		return dist + u, nil
	}
	dcDirect := directCodec(footerBits - alignBits)
	u, err := dcDirect.Decode(d)
	if err != nil {
		return 0, err
	}
	dist += u << alignBits
	u, err = dc.alignCoder.Decode(d)
	if err != nil {
		return 0, err
	}
	return dist + u, nil
}
