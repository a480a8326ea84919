// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"bytes"
	"math/rand"
	"testing"
)

// randomDist generates a distance (the classic zero-based, "real
// distance minus one" value every codec in this package expects) that
// exercises every branch of distSlot: below startDistModel, within the
// position-model range, and in the direct-bits range.
func randomDist(i int) uint32 {
	switch {
	case i < startDistModel:
		return uint32(i)
	case i <= 40:
		slot := uint32(i)
		bits := (slot >> 1) - 1
		base := (2 | (slot & 1)) << bits
		return base | (rand.Uint32() & (1<<bits - 1))
	default:
		return rand.Uint32()
	}
}

func TestDistCodecRoundTrip(t *testing.T) {
	const count = 500
	rand.Seed(1)
	dists := make([]uint32, count)
	lens := make([]uint32, count)
	for i := range dists {
		dists[i] = randomDist(i)
		lens[i] = uint32(rand.Intn(maxMatchLen - minMatchLen))
	}

	var buf bytes.Buffer
	var e rangeEncoder
	e.init(&buf)
	dc := new(distCodec)
	dc.init()
	for i := range dists {
		if err := dc.Encode(&e, dists[i], lens[i]); err != nil {
			t.Fatalf("#%d Encode: %s", i, err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}

	var d rangeDecoder
	if err := d.init(&buf); err != nil {
		t.Fatalf("init: %s", err)
	}
	dd := new(distCodec)
	dd.init()
	for i := range dists {
		got, err := dd.Decode(&d, lens[i])
		if err != nil {
			t.Fatalf("#%d Decode: %s", i, err)
		}
		if got != dists[i] {
			t.Fatalf("#%d Decode: got %#x, want %#x", i, got, dists[i])
		}
	}
}

func TestDistSlotBelowStartModel(t *testing.T) {
	for dist := uint32(0); dist < startDistModel; dist++ {
		if got := distSlot(dist); got != dist {
			t.Errorf("distSlot(%d) = %d, want %d", dist, got, dist)
		}
	}
}
