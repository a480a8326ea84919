// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"bytes"
	"strings"
	"testing"
)

// encodeNaive drives enc through data using a small greedy LZ77 finder
// keyed by a last-occurrence hash of each 3-byte prefix: good enough to
// exercise literals, simple matches and rep matches without depending
// on the github.com/ulikunitz/lz sequencer, whose exact chunking
// behavior these package-internal tests should not need to assume, and
// without the O(n*window) cost of a brute-force scan.
func encodeNaive(enc *Encoder, data []byte) error {
	const minFindLen = 3
	last := make(map[uint32]int)
	hash3 := func(b []byte) uint32 {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	}
	pos := 0
	for pos < len(data) {
		bestLen, bestDist := 0, 0
		windowStart := pos - int(enc.hist.Cap())
		if pos+minFindLen <= len(data) {
			h := hash3(data[pos : pos+minFindLen])
			if cand, ok := last[h]; ok && cand >= windowStart {
				l := 0
				for pos+l < len(data) && data[cand+l] == data[pos+l] && l < maxMatchLen {
					l++
				}
				if l >= minFindLen {
					bestLen, bestDist = l, pos-cand
				}
			}
			last[h] = pos
		}
		if bestLen >= minFindLen {
			remaining := uint32(bestLen)
			for {
				var u uint32
				switch {
				case remaining <= maxMatchLen:
					u = remaining
				case remaining >= maxMatchLen+minMatchLen:
					u = maxMatchLen
				default:
					u = remaining - minMatchLen
				}
				if err := enc.EmitDLCode(uint32(bestDist), u); err != nil {
					return err
				}
				remaining -= u
				if remaining == 0 {
					break
				}
			}
			pos += bestLen
			continue
		}
		if err := enc.EmitLiteral(data[pos]); err != nil {
			return err
		}
		pos++
	}
	return nil
}

func roundTrip(t *testing.T, data []byte, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, cfg, int64(len(data)))
	if err != nil {
		t.Fatalf("NewEncoder: %s", err)
	}
	if err := encodeNaive(enc, data); err != nil {
		t.Fatalf("encodeNaive: %s", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}

	dec, err := NewDecoder(&buf, cfg.HeaderHasSize, 0)
	if err != nil {
		t.Fatalf("NewDecoder: %s", err)
	}
	got, err := dec.DecodeAll()
	if err != nil {
		t.Fatalf("DecodeAll: %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: len(got)=%d len(want)=%d", len(got), len(data))
	}
	return buf.Bytes()
}

func baseConfig(level int, endMarker bool) Config {
	return Config{
		Level:      level,
		Properties: Properties{LC: 3, LP: 0, PB: 2},
		DictCap:    1 << 16,
		EndMarker:  endMarker,
	}
}

// TestRoundTripSizesAndClasses covers spec.md §8.1: a grid of sizes and
// byte-content classes, across both the plain (level 1) and optimized
// (level 3) commit paths.
func TestRoundTripSizesAndClasses(t *testing.T) {
	sizes := []int{0, 1, 15, 16, 17, 4096, 65537}
	classes := map[string]func(n int) []byte{
		"zeros": func(n int) []byte { return make([]byte, n) },
		"ff": func(n int) []byte {
			b := make([]byte, n)
			for i := range b {
				b[i] = 0xff
			}
			return b
		},
		"random": func(n int) []byte {
			b := make([]byte, n)
			x := uint32(12345)
			for i := range b {
				x ^= x << 13
				x ^= x >> 17
				x ^= x << 5
				b[i] = byte(x)
			}
			return b
		},
		"text": func(n int) []byte {
			s := strings.Repeat("the quick brown fox jumps over the lazy dog. ", n/45+1)
			return []byte(s[:n])
		},
		"pattern17": func(n int) []byte {
			pat := []byte("0123456789abcdef-")
			b := make([]byte, n)
			for i := range b {
				b[i] = pat[i%len(pat)]
			}
			return b
		},
	}
	for _, level := range []int{1, 3} {
		for name, gen := range classes {
			for _, size := range sizes {
				data := gen(size)
				t.Run(name, func(t *testing.T) {
					roundTrip(t, data, baseConfig(level, true))
				})
			}
		}
	}
}

// TestRoundTripDeterminism covers spec.md §8.2: two independent encodes
// of the same input under identical config produce byte-identical
// output.
func TestRoundTripDeterminism(t *testing.T) {
	data := []byte(strings.Repeat("abcabcabcabc", 200))
	cfg := baseConfig(3, true)

	encodeOnce := func() []byte {
		var buf bytes.Buffer
		enc, err := NewEncoder(&buf, cfg, int64(len(data)))
		if err != nil {
			t.Fatalf("NewEncoder: %s", err)
		}
		if err := encodeNaive(enc, data); err != nil {
			t.Fatalf("encodeNaive: %s", err)
		}
		if err := enc.Close(); err != nil {
			t.Fatalf("Close: %s", err)
		}
		return buf.Bytes()
	}

	a := encodeOnce()
	b := encodeOnce()
	if !bytes.Equal(a, b) {
		t.Fatalf("two encodes of the same input diverged: len(a)=%d len(b)=%d", len(a), len(b))
	}
}

// TestRepMatchMRUCorrectness covers spec.md §8.5: encoding a rep match
// at index i must decode back to the i-th entry of the pre-token MRU
// stack. Constructing three matches at three distinct distances forces
// rep[0..2] apart, and a fourth match reusing the oldest of the three
// (now sitting at rep index 2) must still round-trip.
func TestRepMatchMRUCorrectness(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig(1, true)
	enc, err := NewEncoder(&buf, cfg, 0)
	if err != nil {
		t.Fatalf("NewEncoder: %s", err)
	}

	// copySim mirrors textBuffer.CopyMatch's overlap-aware semantics
	// (real, one-based distance) against a plain slice, so the expected
	// output can be derived from the exact token sequence below instead
	// of hand-transcribed.
	copySim := func(want []byte, dist, length int) []byte {
		for i := 0; i < length; i++ {
			want = append(want, want[len(want)-dist])
		}
		return want
	}

	want := []byte("pqrstuv")
	for _, b := range want {
		if err := enc.EmitLiteral(b); err != nil {
			t.Fatalf("EmitLiteral: %s", err)
		}
	}
	if err := enc.EmitDLCode(7, 3); err != nil { // rep = [6,0,0,0] (zero-based)
		t.Fatalf("EmitDLCode dist 7: %s", err)
	}
	want = copySim(want, 7, 3)
	if err := enc.EmitDLCode(4, 3); err != nil { // rep = [3,6,0,0]
		t.Fatalf("EmitDLCode dist 4: %s", err)
	}
	want = copySim(want, 4, 3)
	if err := enc.EmitDLCode(2, 2); err != nil { // rep = [1,3,6,0]
		t.Fatalf("EmitDLCode dist 2: %s", err)
	}
	want = copySim(want, 2, 2)
	if got := enc.st.repIndex(7 - 1); got != 2 {
		t.Fatalf("repIndex(6) = %d, want 2 (distance 7 sitting at rep[2])", got)
	}
	if err := enc.EmitDLCode(7, 3); err != nil { // reuse rep[2]
		t.Fatalf("EmitDLCode rep[2]: %s", err)
	}
	want = copySim(want, 7, 3)
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}

	dec, err := NewDecoder(&buf, false, cfg.DictCap)
	if err != nil {
		t.Fatalf("NewDecoder: %s", err)
	}
	got, err := dec.DecodeAll()
	if err != nil {
		t.Fatalf("DecodeAll: %s", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("MRU round trip: got %q, want %q", got, want)
	}
}

// TestEOSIdempotence covers spec.md §8.6: an encoder with EndMarker set
// appends exactly one EOS token, and the decoder stops there even if
// the underlying reader has trailing padding after it.
func TestEOSIdempotence(t *testing.T) {
	data := []byte("hello world, hello world, hello world")
	var buf bytes.Buffer
	cfg := baseConfig(2, true)
	enc, err := NewEncoder(&buf, cfg, int64(len(data)))
	if err != nil {
		t.Fatalf("NewEncoder: %s", err)
	}
	if err := encodeNaive(enc, data); err != nil {
		t.Fatalf("encodeNaive: %s", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
	buf.Write([]byte{0xde, 0xad, 0xbe, 0xef})

	dec, err := NewDecoder(&buf, false, cfg.DictCap)
	if err != nil {
		t.Fatalf("NewDecoder: %s", err)
	}
	got, err := dec.DecodeAll()
	if err != nil {
		t.Fatalf("DecodeAll: %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

// TestGoldenRepetitiveDataIsSmall covers spec.md §8.7 scenario 2: a
// large run of a single repeated byte compresses to a small fraction of
// its input size.
func TestGoldenRepetitiveDataIsSmall(t *testing.T) {
	data := make([]byte, 1<<20)
	out := roundTrip(t, data, baseConfig(3, true))
	if len(out) >= 1024 {
		t.Errorf("1 MiB of zeros compressed to %d bytes, want < 1024", len(out))
	}
}

// TestGoldenIncompressibleOverhead covers spec.md §8.7 scenario 3:
// high-entropy input expands by at most a small constant overhead.
func TestGoldenIncompressibleOverhead(t *testing.T) {
	data := make([]byte, 65536)
	x := uint32(99991)
	for i := range data {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		data[i] = byte(x)
	}
	out := roundTrip(t, data, baseConfig(1, true))
	if over := len(out) - len(data); over > 256 {
		t.Errorf("overhead = %d bytes, want <= 256", over)
	}
}

// TestGoldenRepPatternUsesRepMatches covers spec.md §8.7 scenario 4: a
// short repeating pattern should be coded mostly as rep matches once
// the Variant Optimizer is active.
func TestGoldenRepPatternUsesRepMatches(t *testing.T) {
	data := []byte(strings.Repeat("abc", 4096/3))
	var buf bytes.Buffer
	cfg := baseConfig(3, true)
	enc, err := NewEncoder(&buf, cfg, int64(len(data)))
	if err != nil {
		t.Fatalf("NewEncoder: %s", err)
	}

	var repTokens, totalTokens int
	pos := 0
	for pos < len(data) {
		bestLen, bestDist := 0, 0
		start := pos - int(enc.hist.Cap())
		if start < 0 {
			start = 0
		}
		for cand := start; cand < pos; cand++ {
			l := 0
			for pos+l < len(data) && data[cand+l] == data[pos+l] && l < maxMatchLen {
				l++
			}
			// >= keeps the nearest of equally long candidates, so a
			// repeating pattern reuses one distance.
			if l >= 3 && l >= bestLen {
				bestLen, bestDist = l, pos-cand
			}
		}
		totalTokens++
		if bestLen >= 3 {
			if enc.st.repIndex(uint32(bestDist-1)) < 4 {
				repTokens++
			}
			if err := enc.EmitDLCode(uint32(bestDist), uint32(bestLen)); err != nil {
				t.Fatalf("EmitDLCode: %s", err)
			}
			pos += bestLen
			continue
		}
		if err := enc.EmitLiteral(data[pos]); err != nil {
			t.Fatalf("EmitLiteral: %s", err)
		}
		pos++
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}

	dec, err := NewDecoder(&buf, false, cfg.DictCap)
	if err != nil {
		t.Fatalf("NewDecoder: %s", err)
	}
	got, err := dec.DecodeAll()
	if err != nil {
		t.Fatalf("DecodeAll: %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch")
	}
	if totalTokens > 0 && float64(repTokens)/float64(totalTokens) <= 0.5 {
		t.Errorf("rep token fraction = %d/%d, want > half", repTokens, totalTokens)
	}
}

// TestGoldenCompressedPayloadRoundTrips covers spec.md §8.7 scenario 5:
// feeding already-compressed (high-entropy) data back through the
// encoder still round-trips, with bounded overhead.
func TestGoldenCompressedPayloadRoundTrips(t *testing.T) {
	inner := []byte(strings.Repeat("payload-for-recompression-test ", 64))
	var innerBuf bytes.Buffer
	innerEnc, err := NewEncoder(&innerBuf, baseConfig(3, true), int64(len(inner)))
	if err != nil {
		t.Fatalf("NewEncoder (inner): %s", err)
	}
	if err := encodeNaive(innerEnc, inner); err != nil {
		t.Fatalf("encodeNaive (inner): %s", err)
	}
	if err := innerEnc.Close(); err != nil {
		t.Fatalf("Close (inner): %s", err)
	}

	data := innerBuf.Bytes()
	out := roundTrip(t, data, baseConfig(1, true))
	if over := len(out) - len(data); over > len(data)/128+64 {
		t.Errorf("overhead = %d bytes, want <= %d", over, len(data)/128+64)
	}
}

// TestGoldenPropertySweep covers spec.md §8.7 scenario 6: every
// (lc,lp,pb) combination round-trips a short text. The all-zero
// Properties value selects the default lc=3, lp=0, pb=2 (fillConfig).
func TestGoldenPropertySweep(t *testing.T) {
	data := []byte("hello world\n")
	for lc := MinLC; lc <= MaxLC; lc++ {
		for lp := MinLP; lp <= MaxLP; lp++ {
			for pb := MinPB; pb <= MaxPB; pb++ {
				cfg := Config{
					Level:      1,
					Properties: Properties{LC: lc, LP: lp, PB: pb},
					DictCap:    1 << 16,
					EndMarker:  true,
				}
				if err := fillConfig(cfg).Verify(); err != nil {
					continue
				}
				roundTrip(t, data, cfg)
			}
		}
	}
}
