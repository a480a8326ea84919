// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "log"

// defaultShortLenThreshold is the length cutoff below which the Variant
// Optimizer considers expanding a DL code into literals (spec.md §4.9,
// §9: "79, empirically tuned from 18"). Exposed on Config as a
// tunable, but the default must stay 79 for bit-reproducible output,
// per the open question in spec.md §9.
const defaultShortLenThreshold = 79

// The empirical constants of the Variant Optimizer (spec.md §4.9, §9).
// Like defaultShortLenThreshold, spec.md flags these as open questions callers
// may tune but must not casually "improve": they are part of the
// observable output.
const (
	defaultLitThenDLFastThreshold = 0.875
	defaultMalusSimpleVsRep       = 0.55
	defaultMalusLDBase            = 0.064
	defaultMalusLDDistCoeff       = 1e-9
	defaultMalusLDLenCoeff        = 3e-5
	defaultMalusDLBase            = 0.135
	defaultMalusDLDistCoeff       = 1e-8
	defaultMalusDLLenCoeff        = 1e-4
)

// Config holds every parameter of the Encoder entry point (spec.md
// §6.1), plus the Variant Optimizer's tunables. Zero-valued fields
// select defaults, which NewEncoder fills in (fillConfig) before it
// calls Verify; Verify on a Config whose defaults are still zero
// reports an error. A zero Properties selects lc=3, lp=0, pb=2.
type Config struct {
	// Level selects the default dictionary size and whether the
	// Variant Optimizer runs (level >= 2).
	Level int

	Properties Properties

	// DictCap is the dictionary capacity in bytes before the §6.1
	// clamp-and-round is applied. Zero selects a level-based default.
	DictCap uint32

	EndMarker     bool
	HeaderHasSize bool

	// ShortLenThreshold overrides the Variant Optimizer's expansion
	// cutoff; zero selects the spec default of 79.
	ShortLenThreshold int

	// LitThenDLFastThreshold overrides the probability above which the
	// Variant Optimizer takes a head literal without comparing
	// alternatives; zero selects the spec default of 0.875.
	LitThenDLFastThreshold float64

	// MalusSimpleVsRep overrides the bias applied to a brand-new simple
	// match's score before comparing it against a rep match at the same
	// (dist, length); zero selects the spec default of 0.55.
	MalusSimpleVsRep float64

	// MalusLDBase, MalusLDDistCoeff and MalusLDLenCoeff override the
	// literal-then-DL malus formula, max(0, Base - dist*DistCoeff -
	// length*LenCoeff). All zero selects the spec defaults of 0.064,
	// 1e-9 and 3e-5.
	MalusLDBase      float64
	MalusLDDistCoeff float64
	MalusLDLenCoeff  float64

	// MalusDLBase, MalusDLDistCoeff and MalusDLLenCoeff override the
	// shorter-DL-then-literal malus formula, in the same shape as the
	// MalusLD fields above. All zero selects the spec defaults of
	// 0.135, 1e-8 and 1e-4.
	MalusDLBase      float64
	MalusDLDistCoeff float64
	MalusDLLenCoeff  float64

	// Debug receives variant-optimizer decisions when non-nil.
	Debug *log.Logger
}

// levelDictCap gives the default dictionary capacity for a level,
// mirroring the scale of the teacher's presets.go but over this
// module's four core levels instead of nine.
var levelDictCap = [4]uint32{
	0: 1 << 16,
	1: 1 << 20,
	2: 1 << 22,
	3: 1 << 24,
}

// fillConfig fills zero-valued fields of cfg with level-appropriate
// defaults, the way the teacher's fillWriterParams does for
// WriterParams.
func fillConfig(cfg Config) Config {
	if cfg.Properties == (Properties{}) {
		cfg.Properties = Properties{LC: 3, LP: 0, PB: 2}
	}
	if cfg.DictCap == 0 {
		l := cfg.Level
		if l < 0 || l > 3 {
			l = 1
		}
		cfg.DictCap = levelDictCap[l]
	}
	cfg.DictCap = clampDictCap(cfg.DictCap, cfg.Level)
	if cfg.ShortLenThreshold == 0 {
		cfg.ShortLenThreshold = defaultShortLenThreshold
	}
	if cfg.LitThenDLFastThreshold == 0 {
		cfg.LitThenDLFastThreshold = defaultLitThenDLFastThreshold
	}
	if cfg.MalusSimpleVsRep == 0 {
		cfg.MalusSimpleVsRep = defaultMalusSimpleVsRep
	}
	if cfg.MalusLDBase == 0 {
		cfg.MalusLDBase = defaultMalusLDBase
	}
	if cfg.MalusLDDistCoeff == 0 {
		cfg.MalusLDDistCoeff = defaultMalusLDDistCoeff
	}
	if cfg.MalusLDLenCoeff == 0 {
		cfg.MalusLDLenCoeff = defaultMalusLDLenCoeff
	}
	if cfg.MalusDLBase == 0 {
		cfg.MalusDLBase = defaultMalusDLBase
	}
	if cfg.MalusDLDistCoeff == 0 {
		cfg.MalusDLDistCoeff = defaultMalusDLDistCoeff
	}
	if cfg.MalusDLLenCoeff == 0 {
		cfg.MalusDLLenCoeff = defaultMalusDLLenCoeff
	}
	return cfg
}

// Verify checks cfg for validity, the way the teacher's
// WriterParams.Verify does.
func (cfg Config) Verify() error {
	if err := cfg.Properties.verify(); err != nil {
		return err
	}
	if !(0 <= cfg.Level && cfg.Level <= 3) {
		return newError("level out of range [0,3]")
	}
	if !(MinDictCap <= cfg.DictCap && cfg.DictCap <= MaxDictCap) {
		return newError("dictionary capacity out of range")
	}
	if cfg.ShortLenThreshold < minMatchLen {
		return newError("short length threshold too small")
	}
	if !(0 < cfg.LitThenDLFastThreshold && cfg.LitThenDLFastThreshold <= 1) {
		return newError("lit-then-DL fast threshold out of range (0,1]")
	}
	if cfg.MalusSimpleVsRep <= 0 {
		return newError("malus simple-vs-rep must be positive")
	}
	return nil
}

// variantsEnabled reports whether the Variant Optimizer should be
// active, per spec.md §4.9: "Active only when level >= 2".
func (cfg Config) variantsEnabled() bool {
	return cfg.Level >= 2
}
