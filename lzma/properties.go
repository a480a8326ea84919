// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

// MinLC, MaxLC, MinLP, MaxLP, MinPB, MaxPB bound the Properties fields
// (spec.md §6.1). The core does not enforce lc+lp<=4 -- that
// constraint binds callers who need strict reference-decoder
// compatibility, not this package.
const (
	MinLC = 0
	MaxLC = 8
	MinLP = 0
	MaxLP = 4
	MinPB = 0
	MaxPB = 4
)

// MaxProperties is the largest value the single encoded properties
// byte can hold: lc + 9*lp + 45*pb at the maximum of each field.
const MaxProperties = MaxLC + 9*MaxLP + 45*MaxPB

// Properties are the three LZMA literal/position parameters that
// select which probability contexts the codecs use.
type Properties struct {
	LC int
	LP int
	PB int
}

// Byte encodes the properties into the single header byte of spec.md
// §4.10: lc + 9*lp + 45*pb.
func (p Properties) Byte() byte {
	return byte(p.LC + 9*p.LP + 45*p.PB)
}

// PropertiesFromByte decodes the header byte written by Byte.
func PropertiesFromByte(b byte) (Properties, error) {
	if int(b) > MaxProperties {
		return Properties{}, newError("invalid properties byte")
	}
	x := int(b)
	lc := x % 9
	x /= 9
	lp := x % 5
	pb := x / 5
	if pb > MaxPB {
		return Properties{}, newError("pb out of range")
	}
	return Properties{LC: lc, LP: lp, PB: pb}, nil
}

// verify checks that every field of p is within its documented range.
func (p Properties) verify() error {
	switch {
	case !(MinLC <= p.LC && p.LC <= MaxLC):
		return newError("lc out of range")
	case !(MinLP <= p.LP && p.LP <= MaxLP):
		return newError("lp out of range")
	case !(MinPB <= p.PB && p.PB <= MaxPB):
		return newError("pb out of range")
	}
	return nil
}
