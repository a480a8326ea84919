// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"io"
)

// MinDictCap and MaxDictCap bound the dictionary capacity accepted by
// the header (spec.md §6.1: clamped to [2^12, 2^25]).
const (
	MinDictCap = 1 << 12
	MaxDictCap = 1 << 25
)

// noHeaderLen marks an unknown uncompressed size in the 8-byte size
// field (spec.md §4.10: "otherwise all 0xFF").
const noHeaderLen uint64 = 1<<64 - 1

func putUint32LE(b []byte, x uint32) {
	b[0] = byte(x)
	b[1] = byte(x >> 8)
	b[2] = byte(x >> 16)
	b[3] = byte(x >> 24)
}

func getUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putUint64LE(b []byte, x uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(x >> uint(8*i))
	}
}

func getUint64LE(b []byte) uint64 {
	var x uint64
	for i := 0; i < 8; i++ {
		x |= uint64(b[i]) << uint(8*i)
	}
	return x
}

// Header holds the fields of the classic 5/13-byte LZMA header (spec.md
// §4.10).
type Header struct {
	Properties       Properties
	DictCap          uint32
	UncompressedSize int64 // -1 when unknown
	HasSize          bool
}

// WriteHeader writes the property byte, the four little-endian
// dictionary-size bytes, and -- if h.HasSize -- the eight-byte
// uncompressed size field (spec.md §4.10).
func WriteHeader(w io.Writer, h Header) error {
	if err := h.Properties.verify(); err != nil {
		return err
	}
	buf := make([]byte, 5)
	buf[0] = h.Properties.Byte()
	putUint32LE(buf[1:5], h.DictCap)
	if _, err := w.Write(buf); err != nil {
		return err
	}
	if !h.HasSize {
		return nil
	}
	buf = make([]byte, 8)
	if h.UncompressedSize < 0 {
		putUint64LE(buf, noHeaderLen)
	} else {
		putUint64LE(buf, uint64(h.UncompressedSize))
	}
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads back what WriteHeader wrote. hasSize says whether
// the eight-byte size field follows the first five bytes; it is not
// inferred from the stream.
func ReadHeader(r io.Reader, hasSize bool) (Header, error) {
	buf := make([]byte, 5)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, err
	}
	props, err := PropertiesFromByte(buf[0])
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Properties:       props,
		DictCap:          getUint32LE(buf[1:5]),
		UncompressedSize: -1,
		HasSize:          hasSize,
	}
	if !hasSize {
		return h, nil
	}
	buf = make([]byte, 8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, err
	}
	u := getUint64LE(buf)
	if u != noHeaderLen {
		h.UncompressedSize = int64(u)
	}
	return h, nil
}

// clampDictCap applies spec.md §6.1's dictionary-size rule: clamp into
// [MinDictCap, MaxDictCap], then -- for level 3 only -- round up to the
// next power of two.
func clampDictCap(n uint32, level int) uint32 {
	if n < MinDictCap {
		n = MinDictCap
	}
	if n > MaxDictCap {
		n = MaxDictCap
	}
	if level == 3 {
		n = nextPow2(n)
	}
	return n
}

// nextPow2 rounds n up to the next power of two (n itself if already
// one).
func nextPow2(n uint32) uint32 {
	if n&(n-1) == 0 {
		return n
	}
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}
