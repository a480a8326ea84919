// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	tests := []Header{
		{Properties: Properties{LC: 3, LP: 0, PB: 2}, DictCap: 1 << 15, UncompressedSize: -1, HasSize: false},
		{Properties: Properties{LC: 3, LP: 0, PB: 2}, DictCap: 1 << 20, UncompressedSize: -1, HasSize: true},
		{Properties: Properties{LC: 0, LP: 4, PB: 4}, DictCap: 1 << 12, UncompressedSize: 12345, HasSize: true},
	}
	for i, h := range tests {
		var buf bytes.Buffer
		if err := WriteHeader(&buf, h); err != nil {
			t.Fatalf("#%d WriteHeader: %s", i, err)
		}
		got, err := ReadHeader(&buf, h.HasSize)
		if err != nil {
			t.Fatalf("#%d ReadHeader: %s", i, err)
		}
		if got != h {
			t.Fatalf("#%d ReadHeader: got %+v, want %+v", i, got, h)
		}
	}
}

// TestGoldenEmptyStream checks spec.md §8.7 scenario 1: an empty input
// at level 1, end_marker=true, header_has_size=false starts with the
// fixed 5-byte header. The bytes of the EOS token after it are not
// compared.
func TestGoldenEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:      1,
		Properties: Properties{LC: 3, LP: 0, PB: 2},
		DictCap:    1 << 15,
		EndMarker:  true,
	}
	enc, err := NewEncoder(&buf, cfg, 0)
	if err != nil {
		t.Fatalf("NewEncoder: %s", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}

	got := buf.Bytes()
	// 0x5D is the property byte for (lc=3,lp=0,pb=2); the remaining four
	// bytes are 1<<15 little-endian, confirmed against WriteHeader's own
	// putUint32LE rather than hand-guessed.
	wantHeader := []byte{0x5D, 0x00, 0x80, 0x00, 0x00}
	if len(got) < len(wantHeader) || !bytes.Equal(got[:len(wantHeader)], wantHeader) {
		t.Fatalf("header = % x, want % x", got[:minInt(len(got), len(wantHeader))], wantHeader)
	}

	var wantBuf bytes.Buffer
	if err := WriteHeader(&wantBuf, Header{
		Properties:       cfg.Properties,
		DictCap:          cfg.DictCap,
		UncompressedSize: -1,
		HasSize:          false,
	}); err != nil {
		t.Fatalf("WriteHeader (cross-check): %s", err)
	}
	if !bytes.Equal(wantBuf.Bytes(), wantHeader) {
		t.Fatalf("WriteHeader cross-check = % x, want % x", wantBuf.Bytes(), wantHeader)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestClampDictCap(t *testing.T) {
	if got := clampDictCap(1<<10, 1); got != MinDictCap {
		t.Errorf("clampDictCap(small) = %d, want %d", got, MinDictCap)
	}
	if got := clampDictCap(1<<30, 1); got != MaxDictCap {
		t.Errorf("clampDictCap(huge) = %d, want %d", got, MaxDictCap)
	}
	if got := clampDictCap(1<<20+1, 3); got != 1<<21 {
		t.Errorf("clampDictCap(level 3 rounding) = %d, want %d", got, 1<<21)
	}
	if got := clampDictCap(1<<20+1, 2); got != 1<<20+1 {
		t.Errorf("clampDictCap(level 2, no rounding) = %d, want %d", got, 1<<20+1)
	}
}
