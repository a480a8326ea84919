// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "math"

// repIndex is esSnapshot's counterpart to machineState.repIndex, used
// by the Variant Optimizer while it reasons about a hypothetical
// future state rather than the committed one.
func (sn esSnapshot) repIndex(dist uint32) int {
	for g := 0; g < 4; g++ {
		if sn.rep[g] == dist {
			return g
		}
	}
	return 4
}

// anyLiteralProb scores committing the byte at absolute position pos
// either as a plain literal or, when it would decode to the same
// value, as a short rep0 match, and returns whichever the simulator
// favors. This is spec.md §4.9's Any_literal, shared by emit_literal's
// own top-level decision and by the Variant Optimizer's internal
// literal-expansion simulation.
func (e *Encoder) anyLiteralProb(sn esSnapshot, pos uint32) (p float64, useShortRep bool, b byte) {
	b = e.hist.ByteAtPos(pos)
	prevByte := e.hist.ByteAtPos(pos - 1)
	pLit := e.sim.StrictLiteral(sn, pos, prevByte, b)
	if pos > sn.rep[0]+1 {
		bMatch := e.hist.ByteAtPos(pos - sn.rep[0] - 1)
		if b == bMatch {
			pSRM := e.sim.ShortRepMatch(sn)
			if pSRM > pLit {
				return pSRM, true, b
			}
		}
	}
	return pLit, false, b
}

// strictDL scores (dist, length) as the best of a brand-new simple
// match and, when dist is one of the four MRU distances, a rep match,
// applying the malusSimpleVsRep bias of spec.md §4.9/§9 that prefers a
// rep match unless the simple match is clearly better (rep codes are
// shorter, so ties and near-ties should favor rep).
func (e *Encoder) strictDL(sn esSnapshot, dist, length uint32) (p float64, useRep bool, g int) {
	pSimple := e.sim.SimpleMatch(sn, dist, length)
	if idx := sn.repIndex(dist); idx < 4 {
		pRep := e.sim.RepMatch(sn, idx, length)
		if pRep >= pSimple*e.malusSimpleVsRep() {
			return pRep, true, idx
		}
	}
	return pSimple, false, -1
}

// expandedDL scores fully expanding a length-byte match at dist into
// individual literal/short-rep tokens starting at absolute position
// pos, short-circuiting as soon as the running product drops below
// giveUp so a hopeless expansion never costs more than a few
// multiplications (spec.md §4.9, §9's stack-depth note).
func (e *Encoder) expandedDL(sn esSnapshot, pos, length uint32, giveUp float64) float64 {
	prod := 1.0
	cur := sn
	for i := uint32(0); i < length; i++ {
		p, short, _ := e.anyLiteralProb(cur, pos+i)
		prod *= p
		if prod < giveUp {
			return prod
		}
		if short {
			cur = cur.advanceShortRep()
		} else {
			cur = cur.advanceLiteral()
		}
	}
	return prod
}

func (e *Encoder) shortLenThreshold() uint32 {
	return uint32(e.cfg.ShortLenThreshold)
}

func (e *Encoder) litThenDLFastThreshold() float64 {
	return e.cfg.LitThenDLFastThreshold
}

func (e *Encoder) malusSimpleVsRep() float64 {
	return e.cfg.MalusSimpleVsRep
}

// malusLD and malusDL are the Variant Optimizer's two bias formulas
// (spec.md §4.9, §9), both of the shape max(0, Base - dist*DistCoeff -
// length*LenCoeff) with coefficients read from Config so callers can
// retune them without editing source, per SPEC_FULL.md §2.3.
func (e *Encoder) malusLD(dist, length float64) float64 {
	c := e.cfg
	return math.Max(0, c.MalusLDBase-dist*c.MalusLDDistCoeff-length*c.MalusLDLenCoeff)
}

func (e *Encoder) malusDL(dist, length float64) float64 {
	c := e.cfg
	return math.Max(0, c.MalusDLBase-dist*c.MalusDLDistCoeff-length*c.MalusDLLenCoeff)
}

// emitLiteralOptimized is emit_literal's own Variant Optimizer decision
// (spec.md §4.9, first bullet): substitute a short rep0 match for the
// literal whenever doing so both reproduces the same byte and scores
// higher.
func (e *Encoder) emitLiteralOptimized(b byte) error {
	sn := e.st.snapshot()
	pos := e.pos()
	if pos > sn.rep[0]+1 {
		bMatch := e.hist.ByteAtPos(pos - sn.rep[0] - 1)
		if b == bMatch {
			prevByte := e.prevByte()
			pLit := e.sim.StrictLiteral(sn, pos, prevByte, b)
			pSRM := e.sim.ShortRepMatch(sn)
			if pSRM > pLit {
				e.debugf("variant: literal byte %#02x recoded as short rep0", b)
				return e.commitShortRep()
			}
		}
	}
	return e.commitLiteral(b)
}

// runOptimizer implements the Variant Optimizer's DL-code decision
// tree (spec.md §4.9). It peels at most one literal at a time off the
// head of the match, iteratively rather than recursively so the depth
// of the search never exceeds SHORT_LEN_THRESHOLD (spec.md §9): each
// iteration either commits one literal and loops on a one-shorter
// match, or commits the final tokens that consume the whole remainder
// (one match, a shorter match plus a tail literal, or one literal or
// short rep per byte for the full expansion) and returns.
func (e *Encoder) runOptimizer(dist, length uint32) error {
	for {
		if !(length > minMatchLen && length <= e.shortLenThreshold()) {
			break
		}
		sn := e.st.snapshot()
		pos := e.pos()

		pHead, headShort, head := e.anyLiteralProb(sn, pos)

		// Step 1: the head byte is cheap enough as a literal on its
		// own merits that comparing alternatives isn't worth it.
		if pHead >= e.litThenDLFastThreshold() {
			e.debugf("variant: fast literal head, p=%.4f dist=%d length=%d", pHead, dist, length)
			if err := e.commitOne(headShort, head); err != nil {
				return err
			}
			length--
			continue
		}

		pStrict, useRep, g := e.strictDL(sn, dist, length)
		pExpand := e.expandedDL(sn, pos, length, pStrict)
		pDLBest := pStrict
		if pExpand > pDLBest {
			pDLBest = pExpand
		}

		// Step 2: literal-then-shorter-DL, scored against malus_LD.
		snAfterHead := sn.advanceLiteral()
		if headShort {
			snAfterHead = sn.advanceShortRep()
		}
		pAfter, _, _ := e.strictDL(snAfterHead, dist, length-1)
		distF, lenF := float64(dist), float64(length)
		malusLD := e.malusLD(distF, lenF)
		if pHead*pAfter*malusLD > pDLBest {
			e.debugf("variant: literal-then-DL beats DL, dist=%d length=%d", dist, length)
			if err := e.commitOne(headShort, head); err != nil {
				return err
			}
			length--
			continue
		}

		// Step 3: shorter-DL-then-literal, scored against malus_DL.
		tailPos := pos + length - 1
		tail := e.hist.ByteAtPos(tailPos)
		pStrictShort, useRepShort, gShort := e.strictDL(sn, dist, length-1)
		var postSnap esSnapshot
		if useRepShort {
			postSnap = sn.advanceRepMatch(gShort, length-1)
		} else {
			postSnap = sn.advanceSimpleMatch(dist, length-1)
		}
		tailPrev := e.hist.ByteAtPos(tailPos - 1)
		pTailLit := e.sim.StrictLiteral(postSnap, tailPos, tailPrev, tail)
		malusDL := e.malusDL(distF, lenF)
		pDLThenLit := 0.995 * pStrictShort * pTailLit * malusDL
		if pDLThenLit > pDLBest {
			e.debugf("variant: shorter-DL-then-literal beats DL, dist=%d length=%d", dist, length)
			if useRepShort {
				if err := e.commitRepMatch(gShort, length-1); err != nil {
					return err
				}
			} else if err := e.commitSimpleMatch(dist, length-1); err != nil {
				return err
			}
			return e.commitLiteral(tail)
		}

		// Step 4: full expansion into literals/short-reps.
		if pExpand > pStrict {
			e.debugf("variant: full expansion beats strict DL, dist=%d length=%d", dist, length)
			for i := uint32(0); i < length; i++ {
				realSn := e.st.snapshot()
				_, short, b := e.anyLiteralProb(realSn, pos+i)
				if err := e.commitOne(short, b); err != nil {
					return err
				}
			}
			return nil
		}

		// Step 5: commit the match as a single token.
		if useRep {
			return e.commitRepMatch(g, length)
		}
		return e.commitSimpleMatch(dist, length)
	}

	sn := e.st.snapshot()
	_, useRep, g := e.strictDL(sn, dist, length)
	if useRep {
		return e.commitRepMatch(g, length)
	}
	return e.commitSimpleMatch(dist, length)
}

// commitOne commits a single byte as either a short rep0 match or a
// plain literal, per a prior anyLiteralProb decision.
func (e *Encoder) commitOne(short bool, b byte) error {
	if short {
		return e.commitShortRep()
	}
	return e.commitLiteral(b)
}
