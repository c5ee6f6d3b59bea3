// Package logger wraps the standard logger with levels and a debug switch.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

var (
	mu     sync.Mutex
	debug  bool
	silent bool
)

// Setup sets the output and whether debug lines are written.
func Setup(w io.Writer, withDebug bool) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
	debug = withDebug
}

// SetSilent drops everything below errors.
func SetSilent(v bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = v
}

func write(level, format string, v ...interface{}) {
	std.Output(3, level+" "+fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	write("ERROR", format, v...)
}

func Warnf(format string, v ...interface{}) {
	mu.Lock()
	quiet := silent
	mu.Unlock()
	if !quiet {
		write("WARN", format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	mu.Lock()
	quiet := silent
	mu.Unlock()
	if !quiet {
		write("INFO", format, v...)
	}
}

func Debugf(format string, v ...interface{}) {
	mu.Lock()
	on := debug && !silent
	mu.Unlock()
	if on {
		write("DEBUG", format, v...)
	}
}
