// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"fmt"
	"io"
	"os"
)

// LogLevel controls the frequency and type of logger output.
type LogLevel int

const (
	// LogNoop emits nothing.
	LogNoop LogLevel = iota
	// LogLast prints a single line at termination.
	LogLast
	// LogIteration prints one line per outer iteration (μ, dimacsError, primal and dual objectives).
	LogIteration
	// LogVerbose also dumps the iterate every outer iteration.
	LogVerbose
)

// Logger handles textual diagnostic output for the driver. Msg and Out must
// be safe for the caller's use (the driver never writes concurrently).
type Logger struct {
	Level LogLevel
	Msg   io.Writer
	Out   io.Writer
}

func defaultLogger(l *Logger) *Logger {
	if l == nil {
		l = &Logger{Level: LogNoop}
	}
	if l.Msg == nil {
		l.Msg = os.Stdout
	}
	if l.Out == nil {
		l.Out = os.Stdout
	}
	return l
}

func (l *Logger) enable(level LogLevel) bool {
	return l != nil && l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}
