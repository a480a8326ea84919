// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// textBuffer is the circular history buffer described in spec.md §3.6
// as Text_Buf: a power-of-two-sized byte ring the encoder writes every
// committed byte into, and which both the literal coder's "matched
// byte" lookup and the Variant Optimizer's simulation probes read from
// at an offset behind the current cursor R.
//
// It plays the role the teacher's buffer/encoderDict pair plays for
// lz.Window, but is sized to a power of two so that distance-modulo
// arithmetic is a plain mask, matching spec.md's "N = dictionary size
// (power of two)" invariant.
type textBuffer struct {
	data   []byte
	mask   uint32
	r      uint32 // cursor; true index into data is r & mask
	filled uint32 // number of valid bytes, saturates at len(data)
}

// newTextBuffer allocates a textBuffer of capacity n, which must be a
// power of two.
func newTextBuffer(n uint32) *textBuffer {
	if n == 0 || n&(n-1) != 0 {
		panic("lzmacore: history buffer capacity must be a power of two")
	}
	return &textBuffer{data: make([]byte, n), mask: n - 1}
}

// Cap returns the dictionary size N.
func (b *textBuffer) Cap() uint32 { return uint32(len(b.data)) }

// Len returns the number of valid bytes currently held, at most Cap().
func (b *textBuffer) Len() uint32 { return b.filled }

// WriteByte commits a single byte at the cursor and advances it,
// implementing the R := R+1 mod N advance of spec.md §4.7.
func (b *textBuffer) WriteByte(c byte) {
	b.data[b.r&b.mask] = c
	b.r++
	if b.filled < uint32(len(b.data)) {
		b.filled++
	}
}

// Write commits a run of bytes, used when the core copies match source
// bytes into history before invoking the Variant Optimizer (spec.md
// §6.3).
func (b *textBuffer) Write(p []byte) {
	for _, c := range p {
		b.WriteByte(c)
	}
}

// ByteAt returns Text_Buf[(R - distance) mod N] for distance in
// [1, Len()]. Used for the literal coder's "matched byte" and every
// simulation probe in §4.8/§4.9.
func (b *textBuffer) ByteAt(distance uint32) byte {
	return b.data[(b.r-distance)&b.mask]
}

// ByteAtPos returns Text_Buf[pos mod N] for an absolute position,
// rather than one expressed as a distance behind the cursor. The
// Variant Optimizer needs this form: while it works through a DL
// code's sub-decisions, the write cursor r has already been advanced
// past the whole match by CopyMatch, so distance-behind-r no longer
// names the position the optimizer is reasoning about.
func (b *textBuffer) ByteAtPos(pos uint32) byte {
	return b.data[pos&b.mask]
}

// CopyMatch reproduces the source-copy semantics of an LZ77 (dist,
// len) token: it appends length bytes to history, each equal to the
// byte `dist` positions behind the write cursor at the time of that
// byte's own write (so overlapping copies, dist < length, replicate
// correctly).
func (b *textBuffer) CopyMatch(dist, length uint32) {
	for i := uint32(0); i < length; i++ {
		b.WriteByte(b.ByteAt(dist))
	}
}
