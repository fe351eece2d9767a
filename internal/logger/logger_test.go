package logger

import (
	"strings"
	"testing"
)

func TestLevelStringer(t *testing.T) {
	tests := []struct {
		in   Level
		want string
	}{
		{LevelTrace, "TRC"},
		{LevelDebug, "DBG"},
		{LevelInfo, "INF"},
		{LevelWarn, "WRN"},
		{LevelError, "ERR"},
		{LevelCritical, "CRT"},
		{LevelOff, "OFF"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestGetReturnsTaggedLogger(t *testing.T) {
	l := Get(SubsystemPeer)
	if l.tag != SubsystemPeer {
		t.Errorf("Get(%s).tag = %s, want %s", SubsystemPeer, l.tag, SubsystemPeer)
	}
}

type captureWriter struct {
	lines []string
}

func (w *captureWriter) Write(p []byte) (int, error) {
	w.lines = append(w.lines, string(p))
	return len(p), nil
}

func TestLogGatesOnLevel(t *testing.T) {
	w := &captureWriter{}
	l := &Logger{tag: "TEST", out: w}
	SetLevel("TEST", LevelWarn)
	defer SetLevel("TEST", LevelInfo)

	l.Debugf("should be suppressed")
	if len(w.lines) != 0 {
		t.Fatalf("Debugf below the configured level wrote %d lines, want 0", len(w.lines))
	}

	l.Warnf("should appear: %d", 7)
	if len(w.lines) != 1 {
		t.Fatalf("Warnf at the configured level wrote %d lines, want 1", len(w.lines))
	}
	if !strings.Contains(w.lines[0], "should appear: 7") {
		t.Errorf("logged line = %q, want it to contain the formatted message", w.lines[0])
	}
	if !strings.Contains(w.lines[0], "WRN") || !strings.Contains(w.lines[0], "TEST") {
		t.Errorf("logged line = %q, want level and subsystem tag present", w.lines[0])
	}
}
