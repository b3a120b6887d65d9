// Package gblog is the ambient logging interface of the core, used by the
// motherboard and the bus. It mirrors the small Infof/Errorf/Debugf surface the teacher's
// own logging package exposes, rather than reaching for a structured-logging
// library: nothing in the example pack pulls in a third-party logger, so
// this is the idiomatic shape for this corpus.
package gblog

import (
	"fmt"
	"io"
	"os"
)

// Logger is the minimal leveled-logging surface every component depends on.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	With(component string) Logger
}

type logger struct {
	out       io.Writer
	component string
}

// New returns a Logger that writes to w, prefixing each line with its level
// and the component name set via With.
func New(w io.Writer) Logger {
	return &logger{out: w}
}

// Stderr returns a Logger writing to os.Stderr.
func Stderr() Logger {
	return New(os.Stderr)
}

func (l *logger) With(component string) Logger {
	return &logger{out: l.out, component: component}
}

func (l *logger) prefix(level string) string {
	if l.component == "" {
		return "[" + level + "]\t"
	}
	return "[" + level + "]\t" + l.component + ": "
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(l.out, l.prefix("INFO")+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.out, l.prefix("ERROR")+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	fmt.Fprintf(l.out, l.prefix("DEBUG")+format+"\n", args...)
}

// nullLogger discards everything, for tests and library callers who don't
// want the core writing to their stderr.
type nullLogger struct{}

// Null returns a Logger that discards all output.
func Null() Logger { return nullLogger{} }

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}
func (nullLogger) With(string) Logger            { return nullLogger{} }
