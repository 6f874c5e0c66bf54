package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("loaded tables") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("skipped row", "line", 7) }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("skipped row", "line", 7) }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("loaded tables") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestProgressDoneReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("server ready", "addr", ":8080")

	out := buf.String()
	for _, want := range []string{"server ready", "addr=:8080", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
