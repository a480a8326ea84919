// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "io"

// Decoder is a verification decoder: a full, non-optimizing LZMA
// reader used by this module's round-trip tests to check that the
// Encoder's output decodes back to the original input regardless of
// which Variant Optimizer path produced it. It is not meant for
// general-purpose decompression and does not attempt to be as fast as
// a production decoder would be.
type Decoder struct {
	rd   rangeDecoder
	st   machineState
	hist *textBuffer
	size int64 // -1 if unknown
	n    int64
}

// NewDecoder creates a Decoder reading from r, which must start with
// the five/thirteen byte header WriteHeader writes. dictCap overrides
// the header's recorded dictionary capacity when non-zero, letting
// callers decode streams whose header capacity they trust less than
// their own chosen buffer size; pass 0 to use the header's value.
func NewDecoder(r io.Reader, hasSize bool, dictCap uint32) (*Decoder, error) {
	h, err := ReadHeader(r, hasSize)
	if err != nil {
		return nil, err
	}
	if dictCap == 0 {
		dictCap = h.DictCap
	}
	dictCap = clampDictCap(nextPow2(dictCap), 3)
	br, ok := r.(io.ByteReader)
	if !ok {
		br = &byteReaderAdapter{r: r}
	}
	d := &Decoder{hist: newTextBuffer(dictCap), size: h.UncompressedSize}
	d.st.init(h.Properties.LC, h.Properties.LP, h.Properties.PB)
	if err := d.rd.init(br); err != nil {
		return nil, err
	}
	return d, nil
}

type byteReaderAdapter struct {
	r   io.Reader
	buf [1]byte
}

func (a *byteReaderAdapter) ReadByte() (byte, error) {
	if _, err := io.ReadFull(a.r, a.buf[:]); err != nil {
		return 0, err
	}
	return a.buf[0], nil
}

// DecodeAll decodes the entire stream and returns the reconstructed
// bytes, stopping at the EOS marker or, lacking one, at the recorded
// uncompressed size.
func (d *Decoder) DecodeAll() ([]byte, error) {
	var out []byte
	for {
		if d.size >= 0 && int64(len(out)) >= d.size {
			return out, nil
		}
		b, eos, err := d.decodeToken()
		if err != nil {
			return out, err
		}
		if eos {
			return out, nil
		}
		out = append(out, b...)
	}
}

// decodeToken decodes a single literal, short rep, rep match, or
// simple match token, returning the bytes it produced, or eos=true if
// the token was the end-of-stream marker.
func (d *Decoder) decodeToken() (b []byte, eos bool, err error) {
	state2 := d.st.state2()
	isMatch, err := d.rd.decodeBit(&d.st.sw.match[state2])
	if err != nil {
		return nil, false, err
	}
	if isMatch == 0 {
		prevByte := d.prevByte()
		litState := d.st.litState(prevByte)
		var match byte
		if d.st.state >= 7 {
			match = d.hist.ByteAtPos(d.pos() - d.st.rep[0] - 1)
		}
		c, err := d.st.litCodec.Decode(&d.rd, d.st.state, match, litState)
		if err != nil {
			return nil, false, err
		}
		d.commitByte(c)
		d.st.updateStateLiteral()
		d.st.totalPos++
		return []byte{c}, false, nil
	}

	isRep, err := d.rd.decodeBit(&d.st.sw.rep[d.st.state])
	if err != nil {
		return nil, false, err
	}
	if isRep == 0 {
		n, err := d.st.lenCodec.Decode(&d.rd, d.st.posState())
		if err != nil {
			return nil, false, err
		}
		dist, err := d.st.distCodec.Decode(&d.rd, n)
		if err != nil {
			return nil, false, err
		}
		length := n + minMatchLen
		if dist == eosDist {
			return nil, true, nil
		}
		out := d.copyMatch(dist, length)
		d.st.pushRep(dist)
		d.st.updateStateMatch()
		d.st.totalPos += int64(length)
		return out, false, nil
	}

	isRepG0, err := d.rd.decodeBit(&d.st.sw.repG0[d.st.state])
	if err != nil {
		return nil, false, err
	}
	g := 0
	if isRepG0 == 0 {
		isRep0Long, err := d.rd.decodeBit(&d.st.sw.rep0Long[state2])
		if err != nil {
			return nil, false, err
		}
		if isRep0Long == 0 {
			c := d.hist.ByteAtPos(d.pos() - d.st.rep[0] - 1)
			d.commitByte(c)
			d.st.updateStateShortRep()
			d.st.totalPos++
			return []byte{c}, false, nil
		}
	} else {
		isRepG1, err := d.rd.decodeBit(&d.st.sw.repG1[d.st.state])
		if err != nil {
			return nil, false, err
		}
		if isRepG1 == 0 {
			g = 1
		} else {
			isRepG2, err := d.rd.decodeBit(&d.st.sw.repG2[d.st.state])
			if err != nil {
				return nil, false, err
			}
			if isRepG2 == 0 {
				g = 2
			} else {
				g = 3
			}
		}
	}
	n, err := d.st.repLenCodec.Decode(&d.rd, d.st.posState())
	if err != nil {
		return nil, false, err
	}
	length := n + minMatchLen
	dist := d.st.rep[g]
	out := d.copyMatch(dist, length)
	d.st.rotateRep(g)
	d.st.updateStateRep()
	d.st.totalPos += int64(length)
	return out, false, nil
}

// copyMatch appends length bytes copied from distance dist (the
// classic LZMA zero-based convention) to history, returning the bytes
// produced.
func (d *Decoder) copyMatch(dist, length uint32) []byte {
	out := make([]byte, length)
	for i := uint32(0); i < length; i++ {
		c := d.hist.ByteAt(dist + 1)
		d.hist.WriteByte(c)
		out[i] = c
	}
	return out
}

func (d *Decoder) commitByte(c byte) { d.hist.WriteByte(c) }

func (d *Decoder) pos() uint32 { return uint32(d.st.totalPos) }

func (d *Decoder) prevByte() byte {
	if d.st.totalPos == 0 {
		return 0
	}
	return d.hist.ByteAtPos(d.pos() - 1)
}
