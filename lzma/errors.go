// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "errors"

// Error marks an internal lzmacore error.
type Error struct {
	Msg string
}

// Error returns the error message with the "lzmacore: " prefix.
func (e Error) Error() string {
	return "lzmacore: " + e.Msg
}

// newError creates a new lzmacore error with the given message.
func newError(msg string) error {
	return Error{msg}
}

// ErrClosed is returned by Encoder methods called after Close.
var ErrClosed = errors.New("lzmacore: encoder already closed")

// ErrNoSpace indicates that the history buffer has no room left for the
// requested write.
var ErrNoSpace = errors.New("lzmacore: insufficient space in history buffer")

// ErrEmptyBuffer reports that no further sequences can be produced
// from an empty window. Producer does not return it: it ends a drain
// when the sequencer reports lz.ErrEmptyBuffer.
var ErrEmptyBuffer = errors.New("lzmacore: producer buffer is empty")

// protocolViolation panics with an lzmacore-prefixed message, for the
// ProducerProtocol class of error (d=0, length out of range, or a rep
// match requested against an empty MRU): a contract violation by the
// caller driving EmitLiteral/EmitDLCode, not a recoverable condition.
func protocolViolation(msg string) {
	panic("lzmacore: protocol violation: " + msg)
}
