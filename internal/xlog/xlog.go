// Copyright 2015 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xlog provides a Logger interface and supporting functions so
// that debug output from the encoder can be enabled or disabled without
// the caller having to special-case a nil *log.Logger everywhere.
package xlog

import "fmt"

// Logger is satisfied by *log.Logger. Functions in this package no-op
// when called with a nil Logger.
type Logger interface {
	Output(calldepth int, s string) error
}

// Print outputs the arguments using the logger. If l is nil nothing
// happens.
func Print(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprint(v...))
	}
}

// Printf prints the arguments using the format string. If l is nil
// nothing happens.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Println prints the arguments followed by a newline. If l is nil
// nothing happens.
func Println(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintln(v...))
	}
}
