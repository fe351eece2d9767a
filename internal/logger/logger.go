// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package logger implements the simulator's per-subsystem log registry:
// one backend, one named Logger per subsystem, writing to stdout and a
// rotating log file through github.com/jrick/logrotate/rotator.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jrick/logrotate/rotator"
)

// Level gates which calls actually reach the backend writer.
type Level int

// Log levels, most to least verbose.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelCritical:
		return "CRT"
	default:
		return "OFF"
	}
}

// Subsystem tags, one per simulator component plus the driver.
const (
	SubsystemScheduler = "SCHD"
	SubsystemBlockTree = "BTRE"
	SubsystemPeer      = "PEER"
	SubsystemLink      = "LINK"
	SubsystemTopology  = "NETB"
	SubsystemDriver    = "DRVR"
)

var allSubsystems = []string{
	SubsystemScheduler,
	SubsystemBlockTree,
	SubsystemPeer,
	SubsystemLink,
	SubsystemTopology,
	SubsystemDriver,
}

// logWriter fans out to stdout and the rotator: a dual-writer io.Writer so
// console output survives even before (or without) file logging being
// configured.
type logWriter struct {
	mu  sync.Mutex
	rot *rotator.Rotator
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	os.Stdout.Write(p)
	if w.rot != nil {
		w.rot.Write(p)
	}
	return len(p), nil
}

var backend = &logWriter{}

var (
	mu     sync.Mutex
	levels = map[string]Level{}
)

func init() {
	for _, s := range allSubsystems {
		levels[s] = LevelInfo
	}
}

// InitLogRotator points the backend at logFile, rotating once it grows past
// maxRollBytes, keeping maxRolls prior files.
func InitLogRotator(logFile string, maxRollBytes int64, maxRolls int) error {
	r, err := rotator.New(logFile, maxRollBytes, false, maxRolls)
	if err != nil {
		return err
	}
	backend.mu.Lock()
	backend.rot = r
	backend.mu.Unlock()
	return nil
}

// SetLevel sets the minimum level logged for subsystem.
func SetLevel(subsystem string, level Level) {
	mu.Lock()
	defer mu.Unlock()
	levels[subsystem] = level
}

// SetLevelAll sets the minimum level logged for every subsystem.
func SetLevelAll(level Level) {
	mu.Lock()
	defer mu.Unlock()
	for s := range levels {
		levels[s] = level
	}
}

func levelFor(subsystem string) Level {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := levels[subsystem]; ok {
		return l
	}
	return LevelInfo
}

// Logger is a per-subsystem logging handle.
type Logger struct {
	tag string
	out io.Writer
}

// Get returns the Logger for the given subsystem tag.
func Get(subsystem string) *Logger {
	return &Logger{tag: subsystem, out: backend}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < levelFor(l.tag) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s [%s] %s\n", level, l.tag, msg)
}

// Tracef logs at LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) { l.log(LevelTrace, format, args...) }

// Debugf logs at LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }

// Infof logs at LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) { l.log(LevelInfo, format, args...) }

// Warnf logs at LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(LevelWarn, format, args...) }

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args...) }

// Criticalf logs at LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.log(LevelCritical, format, args...)
}
