// SPDX-License-Identifier: MIT
package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"Error", LevelError, true},
		{"fatal", LevelFatal, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = %v, %v; expected %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	prev := GetLevel()
	defer SetLevel(prev)

	SetLevel(LevelWarn)
	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Error("shown", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below level were written:\n%s", out)
	}
	if !strings.Contains(out, "[WARN]  shown 3") || !strings.Contains(out, "[ERROR] shown4") {
		t.Errorf("expected warn and error lines, got:\n%s", out)
	}
}
