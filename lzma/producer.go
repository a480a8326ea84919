// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"bytes"
	"io"

	"github.com/ulikunitz/lz"
)

// Producer adapts an external LZ77 match finder -- a github.com/
// ulikunitz/lz Sequencer -- to the core's two-event contract of
// spec.md §6.3, EmitLiteral and EmitDLCode. This is the "pluggable
// LZ77 front end" the core is explicitly designed not to own (spec.md
// §1, Non-goal: "No LZ77 match finding"), grounded on the teacher's
// chunkWriter (chunk_writer.go), stripped of the xz container's chunk
// framing since this module emits one flat LZMA stream.
type Producer struct {
	enc *Encoder
	win *lz.Window
	seq lz.Sequencer
	blk lz.Block
	buf bytes.Buffer
	err error
}

// NewProducer returns a Producer that feeds data written to it through
// seq's match finder and into enc.
func NewProducer(enc *Encoder, seq lz.Sequencer) *Producer {
	return &Producer{enc: enc, win: seq.WindowPtr(), seq: seq}
}

// Write buffers data in the sequencer's window, draining completed
// sequences into the encoder whenever the window fills.
func (p *Producer) Write(data []byte) (n int, err error) {
	if p.err != nil {
		return 0, p.err
	}
	for {
		var k int
		k, err = p.win.Write(data[n:])
		n += k
		if err == nil {
			return n, nil
		}
		if err != lz.ErrFullBuffer {
			p.err = err
			return n, err
		}
		if err = p.drain(); err != nil {
			p.err = err
			return n, err
		}
	}
}

// drain repeatedly asks the sequencer for the next block of literals
// and sequences and feeds them to the encoder until the sequencer
// reports its window is empty.
func (p *Producer) drain() error {
	for {
		if err := p.emitBlock(); err != nil {
			return err
		}
		_, err := p.seq.Sequence(&p.blk, 0)
		if err != nil {
			if err == lz.ErrEmptyBuffer {
				return nil
			}
			return err
		}
		if len(p.blk.Sequences) == 0 && len(p.blk.Literals) == 0 {
			return nil
		}
	}
}

// emitBlock walks one lz.Block's sequences, feeding each sequence's
// leading literal run through EmitLiteral and its match through
// EmitDLCode (split across several calls if it exceeds MAX_MATCH_LEN),
// then feeds the block's trailing literal run.
func (p *Producer) emitBlock() error {
	litIndex := 0
	for _, s := range p.blk.Sequences {
		i := litIndex
		litIndex += int(s.LitLen)
		for _, c := range p.blk.Literals[i:litIndex] {
			if err := p.enc.EmitLiteral(c); err != nil {
				return err
			}
		}
		if s.MatchLen < minMatchLen {
			return newError("sequencer produced a match below MIN_MATCH_LEN")
		}
		// Split a match longer than MAX_MATCH_LEN into several DL
		// codes, holding back MIN_MATCH_LEN bytes from the
		// second-to-last chunk when the remainder would otherwise
		// fall short of it (mirrors the teacher's writeChunk split).
		m := s.MatchLen
		for {
			var u uint32
			switch {
			case m <= maxMatchLen:
				u = m
			case m >= maxMatchLen+minMatchLen:
				u = maxMatchLen
			default:
				u = m - minMatchLen
			}
			if err := p.enc.EmitDLCode(s.Offset, u); err != nil {
				return err
			}
			m -= u
			if m == 0 {
				break
			}
		}
	}
	for _, c := range p.blk.Literals[litIndex:] {
		if err := p.enc.EmitLiteral(c); err != nil {
			return err
		}
	}
	p.blk.Literals = p.blk.Literals[:0]
	p.blk.Sequences = p.blk.Sequences[:0]
	return nil
}

// Flush drains any data still buffered in the sequencer's window.
func (p *Producer) Flush() error {
	if p.err != nil {
		return p.err
	}
	for {
		if len(p.blk.Sequences) == 0 && len(p.blk.Literals) == 0 &&
			p.win.Buffered() == 0 {
			return nil
		}
		if err := p.drain(); err != nil {
			p.err = err
			return err
		}
	}
}

var _ io.Writer = (*Producer)(nil)
