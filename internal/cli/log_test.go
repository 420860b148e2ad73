package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("fetched") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("fetched") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("fetched") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("item not found", "no", 42) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Warn("item not found", "no", 42)
	if out := buf.String(); !strings.Contains(out, "no=42") {
		t.Errorf("output %q missing key/value", out)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Fetched 24 numbers")

	out := buf.String()
	if !strings.Contains(out, "Fetched 24 numbers (") {
		t.Errorf("progress output %q missing message and duration", out)
	}
}
