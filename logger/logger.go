// Package logger provides the trace sink the codec reports through.
package logger

import "log"

// Logger is the minimal logging surface the codec depends on. Intermediate
// state (frequency tables, code map entries) goes to Debugf.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

type stdLogger struct {
	verbose bool
}

// New returns a Logger backed by the standard library log package. Debugf
// output is suppressed unless verbose is set.
func New(verbose bool) Logger { return &stdLogger{verbose: verbose} }

func (l *stdLogger) Debugf(format string, v ...any) {
	if l.verbose {
		log.Printf("[DEBUG] "+format, v...)
	}
}
func (l *stdLogger) Infof(format string, v ...any)  { log.Printf("[INFO] "+format, v...) }
func (l *stdLogger) Errorf(format string, v ...any) { log.Printf("[ERROR] "+format, v...) }

type nop struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }

func (nop) Debugf(string, ...any) {}
func (nop) Infof(string, ...any)  {}
func (nop) Errorf(string, ...any) {}
