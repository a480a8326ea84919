// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// states is the number of FSM states (spec.md §3.1).
const states = 12

// The four FSM transition tables from spec.md §3.5. A state < 7 means
// the last committed token was a literal; state >= 7 means it was a
// match or rep, which switches the literal coder into matched mode.
var (
	updateLiteral  = [states]uint32{0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 4, 5}
	updateMatch    = [states]uint32{7, 7, 7, 7, 7, 7, 7, 10, 10, 10, 10, 10}
	updateRep      = [states]uint32{8, 8, 8, 8, 8, 8, 8, 11, 11, 11, 11, 11}
	updateShortRep = [states]uint32{9, 9, 9, 9, 9, 9, 9, 11, 11, 11, 11, 11}
)

// switchProbs owns the probabilities that choose between literal and
// match, and among the various match/rep forms (spec.md §3.2).
type switchProbs struct {
	match    [states << maxPosBits]prob
	rep      [states]prob
	repG0    [states]prob
	repG1    [states]prob
	repG2    [states]prob
	rep0Long [states << maxPosBits]prob
}

func (sw *switchProbs) init() {
	for i := range sw.match {
		sw.match[i] = probInit
	}
	for i := range sw.rep {
		sw.rep[i] = probInit
		sw.repG0[i] = probInit
		sw.repG1[i] = probInit
		sw.repG2[i] = probInit
	}
	for i := range sw.rep0Long {
		sw.rep0Long[i] = probInit
	}
}

// machineState is the committed encoder's state: the FSM state, the
// position cursor, the MRU distance stack, and the probability tables
// every codec reads and updates (spec.md §3.2, §3.3).
type machineState struct {
	sw          switchProbs
	litCodec    literalCodec
	lenCodec    lengthCodec
	repLenCodec lengthCodec
	distCodec   distCodec

	lc, lp, pb int
	posMask    uint32

	state    uint32
	rep      [4]uint32
	totalPos int64
}

// init resets the machine state for a fresh encode with the given
// literal-context, literal-position and position-state bit widths.
func (s *machineState) init(lc, lp, pb int) {
	*s = machineState{lc: lc, lp: lp, pb: pb, posMask: uint32(1<<pb - 1)}
	s.sw.init()
	s.litCodec.init(lc, lp)
	s.lenCodec.init()
	s.repLenCodec.init()
	s.distCodec.init()
}

// deepCopy makes s an independent copy of src, including the
// dynamically sized literal probability slice, so that writes to the
// tables of one never reach the other. The Probability Simulator does
// not use it: it reads the live tables through a borrowed pointer and
// copies only an esSnapshot.
func (s *machineState) deepCopy(src *machineState) {
	if s == src {
		return
	}
	*s = *src
	s.litCodec.probs = make([]prob, len(src.litCodec.probs))
	copy(s.litCodec.probs, src.litCodec.probs)
}

// posState computes total_pos & ((1<<pb)-1), the secondary context
// used by many of the probability tables (spec.md §3.3 "Glossary:
// Position state").
func (s *machineState) posState() uint32 {
	return uint32(s.totalPos) & s.posMask
}

// state2 packs the FSM state and posState into the combined index used
// by the isMatch/isRepG0Long tables.
func (s *machineState) state2() uint32 {
	return (s.state << maxPosBits) | s.posState()
}

// litState computes the literal probability cluster index from the
// previous byte and the current position (spec.md §4.6).
func (s *machineState) litState(prevByte byte) uint32 {
	return ((uint32(s.totalPos) & (1<<uint(s.lp) - 1)) << uint(s.lc)) |
		(uint32(prevByte) >> uint(8-s.lc))
}

// updateStateLiteral, updateStateMatch, updateStateRep and
// updateStateShortRep advance the FSM state per spec.md §3.5/§4.7.
func (s *machineState) updateStateLiteral()  { s.state = updateLiteral[s.state] }
func (s *machineState) updateStateMatch()    { s.state = updateMatch[s.state] }
func (s *machineState) updateStateRep()      { s.state = updateRep[s.state] }
func (s *machineState) updateStateShortRep() { s.state = updateShortRep[s.state] }

// repIndex returns the index in rep at which dist is found, or 4 if
// dist is not one of the four recent distances (spec.md §4.7).
func (s *machineState) repIndex(dist uint32) int {
	for g := 0; g < 4; g++ {
		if s.rep[g] == dist {
			return g
		}
	}
	return 4
}

// pushRep installs dist as rep[0] for a simple (non-rep) match,
// shifting the older three distances down the MRU stack (spec.md
// §4.7).
func (s *machineState) pushRep(dist uint32) {
	s.rep[3], s.rep[2], s.rep[1], s.rep[0] = s.rep[2], s.rep[1], s.rep[0], dist
}

// rotateRep moves rep[g] to rep[0], rotating the intervening entries
// down by one slot (spec.md §4.7's "rotate rep_dist[0..i] one slot
// right").
func (s *machineState) rotateRep(g int) {
	dist := s.rep[g]
	for ; g > 0; g-- {
		s.rep[g] = s.rep[g-1]
	}
	s.rep[0] = dist
}
