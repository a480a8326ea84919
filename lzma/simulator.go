// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// esSnapshot is the value-typed shadow of the parts of machineState
// that change from token to token: the FSM state, the MRU distance
// stack and the position cursor. It is cheap to copy, which is the
// point -- the Variant Optimizer explores several candidate futures by
// copying esSnapshot values, never the probability tables themselves
// (spec.md §9: "a private floating-point accumulator... no shared
// mutable state crosses the boundary").
type esSnapshot struct {
	state    uint32
	rep      [4]uint32
	totalPos int64
}

// snapshot captures the mutable part of s.
func (s *machineState) snapshot() esSnapshot {
	return esSnapshot{state: s.state, rep: s.rep, totalPos: s.totalPos}
}

// posState and litState let the simulator compute posState/litState
// against a snapshot's totalPos without needing a *machineState
// receiver (the probability tables are borrowed separately).
func (sn esSnapshot) posState(posMask uint32) uint32 {
	return uint32(sn.totalPos) & posMask
}

func (sn esSnapshot) litState(lc, lp int, prevByte byte) uint32 {
	return ((uint32(sn.totalPos) & (1<<uint(lp) - 1)) << uint(lc)) |
		(uint32(prevByte) >> uint(8-lc))
}

// advanceLiteral returns the snapshot obtained after committing a
// literal, mirroring machineState.updateStateLiteral plus the total_pos
// advance of spec.md §4.7.
func (sn esSnapshot) advanceLiteral() esSnapshot {
	sn.state = updateLiteral[sn.state]
	sn.totalPos++
	return sn
}

// advanceShortRep mirrors updateStateShortRep.
func (sn esSnapshot) advanceShortRep() esSnapshot {
	sn.state = updateShortRep[sn.state]
	sn.totalPos++
	return sn
}

// advanceSimpleMatch mirrors Encoder.commitSimpleMatch:
// push dist onto the MRU stack, transition state, advance totalPos by
// length.
func (sn esSnapshot) advanceSimpleMatch(dist, length uint32) esSnapshot {
	sn.rep[3], sn.rep[2], sn.rep[1], sn.rep[0] = sn.rep[2], sn.rep[1], sn.rep[0], dist
	sn.state = updateMatch[sn.state]
	sn.totalPos += int64(length)
	return sn
}

// advanceRepMatch mirrors the rep-match branch: rotate index g to the
// front of the MRU stack, transition state, advance totalPos.
func (sn esSnapshot) advanceRepMatch(g int, length uint32) esSnapshot {
	dist := sn.rep[g]
	for ; g > 0; g-- {
		sn.rep[g] = sn.rep[g-1]
	}
	sn.rep[0] = dist
	sn.state = updateRep[sn.state]
	sn.totalPos += int64(length)
	return sn
}

// sim is the Probability Simulator of spec.md §4.8: a pure function
// mirror of the committed encoder that reads probabilities from a
// borrowed, never-mutated *machineState and walks its own esSnapshot
// copy of the position/state/rep-stack triple.
type sim struct {
	probs *machineState // borrowed, read-only
	hist  *textBuffer    // borrowed, read-only
}

// simBit returns the probability sim_bit(p, b) of spec.md §4.8: p/scale
// for b=0, the complement for b=1. It never touches p.
func simBit(p prob, b uint32) float64 {
	if b&1 == 0 {
		return p.float64()
	}
	return 1 - p.float64()
}

// simTree returns the probability of coding v through a forward bit
// tree, without updating any probability.
func simTree(probs []prob, bits int, v uint32) float64 {
	m := uint32(1)
	p := 1.0
	for i := bits - 1; i >= 0; i-- {
		b := (v >> uint(i)) & 1
		p *= simBit(probs[m], b)
		m = (m << 1) | b
	}
	return p
}

// simTreeReverse is simTree's least-significant-bit-first counterpart.
func simTreeReverse(probs []prob, bits int, v uint32) float64 {
	m := uint32(1)
	p := 1.0
	for i := uint(0); i < uint(bits); i++ {
		b := (v >> i) & 1
		p *= simBit(probs[m], b)
		m = (m << 1) | b
	}
	return p
}

// simLiteral mirrors literalCodec.Encode, returning the probability of
// coding byte s given the FSM state, matched byte and literal cluster.
func simLiteral(lit *literalCodec, s byte, state uint32, match byte, litState uint32) float64 {
	k := litState * 0x300
	probs := lit.probs[k : k+0x300]
	symbol := uint32(1)
	r := uint32(s)
	p := 1.0
	if state >= 7 {
		m := uint32(match)
		for {
			matchBit := (m >> 7) & 1
			m <<= 1
			bit := (r >> 7) & 1
			r <<= 1
			i := ((1 + matchBit) << 8) | symbol
			p *= simBit(probs[i], bit)
			symbol = (symbol << 1) | bit
			if matchBit != bit || symbol >= 0x100 {
				break
			}
		}
	}
	for symbol < 0x100 {
		bit := (r >> 7) & 1
		r <<= 1
		p *= simBit(probs[symbol], bit)
		symbol = (symbol << 1) | bit
	}
	return p
}

// simLength mirrors lengthCodec.Encode.
func simLength(lc *lengthCodec, l, posState uint32) float64 {
	if l < 8 {
		return simBit(lc.choice[0], 0) * simTree(lc.low[posState].probs, 3, l)
	}
	if l < 16 {
		return simBit(lc.choice[0], 1) * simBit(lc.choice[1], 0) *
			simTree(lc.mid[posState].probs, 3, l-8)
	}
	return simBit(lc.choice[0], 1) * simBit(lc.choice[1], 1) *
		simTree(lc.high.probs, 8, l-16)
}

// simDistance mirrors distCodec.Encode, including the 0.5^nbits factor
// for the equiprobable direct bits of the high-distance phase (spec.md
// §4.8: "the 0.5^(footer_bits - ALIGN_BITS) factor").
func simDistance(dc *distCodec, dist, l uint32) float64 {
	slot := distSlot(dist)
	p := simTree(dc.slotCoder[lenState(l)].probs, distSlotBits, slot)
	if slot < startDistModel {
		return p
	}
	footerBits := (slot >> 1) - 1
	base := (2 | (slot & 1)) << footerBits
	reduced := dist - base
	if slot < endDistModel {
		tc := &dc.posCoder[slot-startDistModel]
		return p * simTreeReverse(tc.probs, int(footerBits), reduced)
	}
	directBits := footerBits - alignBits
	p *= pow2(-float64(directBits))
	return p * simTreeReverse(dc.alignCoder.probs, alignBits, reduced)
}

// pow2 returns 2^x without importing math for a single call site.
func pow2(x float64) float64 {
	r := 1.0
	if x >= 0 {
		for i := 0.0; i < x; i++ {
			r *= 2
		}
		return r
	}
	for i := 0.0; i < -x; i++ {
		r /= 2
	}
	return r
}

// StrictLiteral returns the probability the committed encoder would
// assign to coding byte b as a plain literal at snapshot sn, whose
// position is pos. pos is taken explicitly rather than read off the
// history buffer's own write cursor, because the Variant Optimizer
// calls this while working through a DL code's sub-decisions, after
// the whole match has already been mirrored into history ahead of the
// cursor the formulas in spec.md §4.9 actually mean (spec.md §9).
func (m *sim) StrictLiteral(sn esSnapshot, pos uint32, prevByte, b byte) float64 {
	state2 := (sn.state << maxPosBits) | sn.posState(m.probs.posMask)
	pIsMatch := simBit(m.probs.sw.match[state2], 0)
	litState := sn.litState(m.probs.lc, m.probs.lp, prevByte)
	var matchByte byte
	if sn.state >= 7 {
		matchByte = m.hist.ByteAtPos(pos - sn.rep[0] - 1)
	}
	return pIsMatch * simLiteral(&m.probs.litCodec, b, sn.state, matchByte, litState)
}

// ShortRepMatch returns the probability of coding a length-1 rep0
// match at snapshot sn.
func (m *sim) ShortRepMatch(sn esSnapshot) float64 {
	state2 := (sn.state << maxPosBits) | sn.posState(m.probs.posMask)
	p := simBit(m.probs.sw.match[state2], 1)
	p *= simBit(m.probs.sw.rep[sn.state], 1)
	p *= simBit(m.probs.sw.repG0[sn.state], 0)
	p *= simBit(m.probs.sw.rep0Long[state2], 0)
	return p
}

// SimpleMatch returns the probability of coding (dist, length) as a
// brand-new, non-rep distance.
func (m *sim) SimpleMatch(sn esSnapshot, dist, length uint32) float64 {
	state2 := (sn.state << maxPosBits) | sn.posState(m.probs.posMask)
	p := simBit(m.probs.sw.match[state2], 1)
	p *= simBit(m.probs.sw.rep[sn.state], 0)
	n := length - minMatchLen
	p *= simLength(&m.probs.lenCodec, n, sn.posState(m.probs.posMask))
	p *= simDistance(&m.probs.distCodec, dist, n)
	return p
}

// RepMatch returns the probability of coding length via rep index g
// (0..3), per the per-index selection bits of spec.md §4.7.
func (m *sim) RepMatch(sn esSnapshot, g int, length uint32) float64 {
	state2 := (sn.state << maxPosBits) | sn.posState(m.probs.posMask)
	p := simBit(m.probs.sw.match[state2], 1)
	p *= simBit(m.probs.sw.rep[sn.state], 1)
	switch g {
	case 0:
		p *= simBit(m.probs.sw.repG0[sn.state], 0)
		p *= simBit(m.probs.sw.rep0Long[state2], 1)
	case 1:
		p *= simBit(m.probs.sw.repG0[sn.state], 1)
		p *= simBit(m.probs.sw.repG1[sn.state], 0)
	case 2:
		p *= simBit(m.probs.sw.repG0[sn.state], 1)
		p *= simBit(m.probs.sw.repG1[sn.state], 1)
		p *= simBit(m.probs.sw.repG2[sn.state], 0)
	case 3:
		p *= simBit(m.probs.sw.repG0[sn.state], 1)
		p *= simBit(m.probs.sw.repG1[sn.state], 1)
		p *= simBit(m.probs.sw.repG2[sn.state], 1)
	}
	n := length - minMatchLen
	p *= simLength(&m.probs.repLenCodec, n, sn.posState(m.probs.posMask))
	return p
}
