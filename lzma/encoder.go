// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"io"

	"github.com/ulikunitz/lzmacore/internal/xlog"
)

// Encoder is the LZMA encoder core of spec.md §2: it owns the range
// coder, the probability/FSM state machine and the history buffer, and
// exposes the two-event producer contract of §6.3, EmitLiteral and
// EmitDLCode, that an LZ77 match finder drives.
type Encoder struct {
	cfg  Config
	re   rangeEncoder
	st   machineState
	hist *textBuffer
	sim  sim

	started bool
	closed  bool
}

// NewEncoder creates an Encoder writing a compressed stream to w under
// cfg. If cfg.HeaderHasSize, size gives the uncompressed length to
// record in the header; size is ignored otherwise.
func NewEncoder(w io.Writer, cfg Config, size int64) (*Encoder, error) {
	cfg = fillConfig(cfg)
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	bw, ok := w.(io.ByteWriter)
	if !ok {
		bw = &byteWriterAdapter{w: w}
	}
	h := Header{
		Properties:       cfg.Properties,
		DictCap:          cfg.DictCap,
		UncompressedSize: -1,
		HasSize:          cfg.HeaderHasSize,
	}
	if cfg.HeaderHasSize {
		h.UncompressedSize = size
	}
	if err := WriteHeader(w, h); err != nil {
		return nil, err
	}
	e := &Encoder{cfg: cfg, hist: newTextBuffer(cfg.DictCap)}
	e.st.init(cfg.Properties.LC, cfg.Properties.LP, cfg.Properties.PB)
	e.re.init(bw)
	e.sim = sim{probs: &e.st, hist: e.hist}
	return e, nil
}

// byteWriterAdapter makes any io.Writer satisfy io.ByteWriter, the way
// the teacher's bufio-backed writers always already do; used only when
// a caller hands NewEncoder a writer that doesn't implement it itself.
type byteWriterAdapter struct {
	w   io.Writer
	buf [1]byte
}

func (a *byteWriterAdapter) WriteByte(c byte) error {
	a.buf[0] = c
	_, err := a.w.Write(a.buf[:])
	return err
}

// EmitLiteral is the producer event of spec.md §6.3 for a literal byte.
// At level 0-1 it always commits b as a plain literal; at level 2-3 the
// Variant Optimizer (spec.md §4.9) may instead substitute a short rep0
// match when b equals the byte rep_dist[0] would reproduce.
func (e *Encoder) EmitLiteral(b byte) error {
	if e.closed {
		return ErrClosed
	}
	if !e.cfg.variantsEnabled() {
		if err := e.commitLiteral(b); err != nil {
			return err
		}
		e.hist.WriteByte(b)
		return nil
	}
	if err := e.emitLiteralOptimized(b); err != nil {
		return err
	}
	e.hist.WriteByte(b)
	return nil
}

// EmitDLCode is the producer event of spec.md §6.3 for a (distance,
// length) match. The LZ77 producer guarantees history already holds at
// least length valid bytes at the given distance; the core mirrors
// those bytes into its own history buffer before deciding how to code
// them, so Text_Buf is always current for every probe the Variant
// Optimizer makes (spec.md §9).
//
// d=0, a length outside [minMatchLen, maxMatchLen], or any DL code at
// all before the history buffer holds a single byte (the MRU stack's
// rep_dist entries are still just their zero-initialized placeholders,
// not a real distance, so nothing is valid to copy from or repeat) are
// all ProducerProtocol violations (spec.md §7): bugs in the caller
// driving the core, not recoverable runtime conditions, so they panic
// rather than returning an error.
func (e *Encoder) EmitDLCode(dist, length uint32) error {
	if e.closed {
		return ErrClosed
	}
	if dist == 0 {
		protocolViolation("emit_dl_code: distance must be nonzero")
	}
	if length < minMatchLen || length > maxMatchLen {
		protocolViolation("emit_dl_code: length out of range")
	}
	if e.st.totalPos == 0 {
		protocolViolation("emit_dl_code: rep match requested with an empty MRU")
	}
	// The producer contract and the history buffer both speak in real,
	// one-based distances (d=1 means the immediately preceding byte).
	// The distance coder and the MRU stack, like the teacher's, use the
	// classic LZMA convention of distance-minus-one internally; convert
	// once here rather than scattering the -1 through every codec.
	d0 := dist - 1
	e.hist.CopyMatch(dist, length)
	if !e.cfg.variantsEnabled() {
		return e.commitPlainDL(d0, length)
	}
	return e.runOptimizer(d0, length)
}

// Close flushes the range coder and, if cfg.EndMarker is set, first
// emits the end-of-stream DL code (distance EOS_MAGIC_DIST, length
// MIN_MATCH_LEN) that spec.md §4.10 and §6.3 describe.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.cfg.EndMarker {
		if err := e.commitPlainDL(eosDist, minMatchLen); err != nil {
			return err
		}
	}
	return e.re.Close()
}

// commitLiteral range-codes b as a plain literal at the encoder's real,
// committed position, then advances the FSM state. It never touches
// the history buffer: the caller is responsible for that, since the
// buffer write happens before or after the decision depending on
// whether the byte arrived via EmitLiteral or as part of a DL code's
// expansion (spec.md §9's asymmetry between the two events).
func (e *Encoder) commitLiteral(b byte) error {
	state2 := e.st.state2()
	if err := e.re.EncodeBit(0, &e.st.sw.match[state2]); err != nil {
		return err
	}
	prevByte := e.prevByte()
	litState := e.st.litState(prevByte)
	var match byte
	if e.st.state >= 7 {
		match = e.hist.ByteAtPos(e.pos() - e.st.rep[0] - 1)
	}
	if err := e.st.litCodec.Encode(&e.re, b, e.st.state, match, litState); err != nil {
		return err
	}
	e.st.updateStateLiteral()
	e.st.totalPos++
	return nil
}

// commitShortRep range-codes a length-1 rep0 match.
func (e *Encoder) commitShortRep() error {
	state2 := e.st.state2()
	if err := e.re.EncodeBit(1, &e.st.sw.match[state2]); err != nil {
		return err
	}
	if err := e.re.EncodeBit(1, &e.st.sw.rep[e.st.state]); err != nil {
		return err
	}
	if err := e.re.EncodeBit(0, &e.st.sw.repG0[e.st.state]); err != nil {
		return err
	}
	if err := e.re.EncodeBit(0, &e.st.sw.rep0Long[state2]); err != nil {
		return err
	}
	e.st.updateStateShortRep()
	e.st.totalPos++
	return nil
}

// commitSimpleMatch range-codes (dist, length) as a brand-new
// distance, pushing it onto the MRU stack.
func (e *Encoder) commitSimpleMatch(dist, length uint32) error {
	state2 := e.st.state2()
	if err := e.re.EncodeBit(1, &e.st.sw.match[state2]); err != nil {
		return err
	}
	if err := e.re.EncodeBit(0, &e.st.sw.rep[e.st.state]); err != nil {
		return err
	}
	n := length - minMatchLen
	if err := e.st.lenCodec.Encode(&e.re, n, e.st.posState()); err != nil {
		return err
	}
	if err := e.st.distCodec.Encode(&e.re, dist, n); err != nil {
		return err
	}
	e.st.pushRep(dist)
	e.st.updateStateMatch()
	e.st.totalPos += int64(length)
	return nil
}

// commitRepMatch range-codes length via rep index g (0..3), rotating g
// to the front of the MRU stack.
func (e *Encoder) commitRepMatch(g int, length uint32) error {
	state2 := e.st.state2()
	if err := e.re.EncodeBit(1, &e.st.sw.match[state2]); err != nil {
		return err
	}
	if err := e.re.EncodeBit(1, &e.st.sw.rep[e.st.state]); err != nil {
		return err
	}
	switch g {
	case 0:
		if err := e.re.EncodeBit(0, &e.st.sw.repG0[e.st.state]); err != nil {
			return err
		}
		if err := e.re.EncodeBit(1, &e.st.sw.rep0Long[state2]); err != nil {
			return err
		}
	case 1:
		if err := e.re.EncodeBit(1, &e.st.sw.repG0[e.st.state]); err != nil {
			return err
		}
		if err := e.re.EncodeBit(0, &e.st.sw.repG1[e.st.state]); err != nil {
			return err
		}
	case 2:
		if err := e.re.EncodeBit(1, &e.st.sw.repG0[e.st.state]); err != nil {
			return err
		}
		if err := e.re.EncodeBit(1, &e.st.sw.repG1[e.st.state]); err != nil {
			return err
		}
		if err := e.re.EncodeBit(0, &e.st.sw.repG2[e.st.state]); err != nil {
			return err
		}
	case 3:
		if err := e.re.EncodeBit(1, &e.st.sw.repG0[e.st.state]); err != nil {
			return err
		}
		if err := e.re.EncodeBit(1, &e.st.sw.repG1[e.st.state]); err != nil {
			return err
		}
		if err := e.re.EncodeBit(1, &e.st.sw.repG2[e.st.state]); err != nil {
			return err
		}
	}
	n := length - minMatchLen
	if err := e.st.repLenCodec.Encode(&e.re, n, e.st.posState()); err != nil {
		return err
	}
	e.st.rotateRep(g)
	e.st.updateStateRep()
	e.st.totalPos += int64(length)
	return nil
}

// commitPlainDL is the plain §4.7 decision: rep match if dist is one of
// the four MRU distances, a brand-new simple match otherwise. No
// scoring; used at level 0-1 and for the end-of-stream marker. The
// Variant Optimizer does not call it: its own fallback scores rep
// against simple through strictDL.
func (e *Encoder) commitPlainDL(dist, length uint32) error {
	if g := e.st.repIndex(dist); g < 4 {
		return e.commitRepMatch(g, length)
	}
	return e.commitSimpleMatch(dist, length)
}

// pos returns the encoder's current absolute position, coinciding with
// the history buffer's write cursor at every call to EmitLiteral or
// EmitDLCode, even though the two can diverge transiently while the
// Variant Optimizer is working through a single DL code's
// sub-decisions (spec.md §9).
func (e *Encoder) pos() uint32 { return uint32(e.st.totalPos) }

// prevByte returns the byte immediately before the current position,
// or 0 before any byte has been committed.
func (e *Encoder) prevByte() byte {
	if e.st.totalPos == 0 {
		return 0
	}
	return e.hist.ByteAtPos(e.pos() - 1)
}

// debugf logs a Variant Optimizer decision to cfg.Debug, if set. The
// nil check happens on the concrete *log.Logger before it is handed to
// xlog as an interface value, since a typed nil interface would no
// longer compare equal to nil inside xlog.Print.
func (e *Encoder) debugf(format string, args ...interface{}) {
	if e.cfg.Debug != nil {
		xlog.Printf(e.cfg.Debug, format, args...)
	}
}
