// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"bytes"
	"testing"
)

func TestLiteralCodecPlainRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	var e rangeEncoder
	e.init(&buf)
	lit := new(literalCodec)
	lit.init(3, 0)
	for b := 0; b < 256; b++ {
		if err := lit.Encode(&e, byte(b), 0, 0, 0); err != nil {
			t.Fatalf("Encode(%d): %s", b, err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}

	var d rangeDecoder
	if err := d.init(&buf); err != nil {
		t.Fatalf("init: %s", err)
	}
	litD := new(literalCodec)
	litD.init(3, 0)
	for b := 0; b < 256; b++ {
		got, err := litD.Decode(&d, 0, 0, 0)
		if err != nil {
			t.Fatalf("Decode: %s", err)
		}
		if got != byte(b) {
			t.Fatalf("Decode: got %d, want %d", got, b)
		}
	}
}

func TestLiteralCodecMatchedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	var e rangeEncoder
	e.init(&buf)
	lit := new(literalCodec)
	lit.init(3, 0)
	matches := []byte{0x00, 0x7f, 0x80, 0xff}
	for b := 0; b < 256; b++ {
		m := matches[b%len(matches)]
		if err := lit.Encode(&e, byte(b), 7, m, 0); err != nil {
			t.Fatalf("Encode(%d): %s", b, err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}

	var d rangeDecoder
	if err := d.init(&buf); err != nil {
		t.Fatalf("init: %s", err)
	}
	litD := new(literalCodec)
	litD.init(3, 0)
	for b := 0; b < 256; b++ {
		m := matches[b%len(matches)]
		got, err := litD.Decode(&d, 7, m, 0)
		if err != nil {
			t.Fatalf("Decode: %s", err)
		}
		if got != byte(b) {
			t.Fatalf("Decode: got %d, want %d", got, b)
		}
	}
}
