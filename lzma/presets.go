// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "github.com/ulikunitz/lz"

// Preset returns the Config and a matching github.com/ulikunitz/lz
// sequencer configuration for one of the four core levels (spec.md
// §6.1), the way the teacher's Preset(n) returns a WriterConfig
// pairing Properties with an lz parser config. Every level uses an
// lz.DHSConfig and the same Properties; levels differ in window size
// (smallest at level 0, largest at level 3), and levels 2 and 3 run
// the Variant Optimizer (spec.md §4.9) in the same way.
func Preset(level int) (Config, lz.SeqConfig) {
	level = clampLevel(level)
	cfg := Config{
		Level:      level,
		Properties: Properties{LC: 3, LP: 0, PB: 2},
		DictCap:    levelDictCap[level],
	}
	seqCfg := &lz.DHSConfig{WindowSize: int(cfg.DictCap)}
	seqCfg.SetDefaults()
	return cfg, seqCfg
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > 3 {
		return 3
	}
	return level
}
