package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warning", WARN},
		{"Warn", WARN},
		{"error", ERROR},
		{"FATAL", FATAL},
		{"", INFO},
		{"verbose", INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, WARN)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("Expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] ") || !strings.Contains(out, "warn 3") {
		t.Errorf("Expected warn line, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] ") || !strings.Contains(out, "error 4") {
		t.Errorf("Expected error line, got %q", out)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, ERROR)
	l.Infof("hidden")
	l.SetLevel(DEBUG)
	l.Debugf("visible")

	if l.GetLevel() != DEBUG {
		t.Errorf("Expected level DEBUG, got %s", l.GetLevel())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("Expected info message to be filtered before SetLevel")
	}
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Expected debug message after SetLevel")
	}
}

func TestGlobalFunctions_NoInstance(t *testing.T) {
	// must not panic before Init
	Debugf("x")
	Infof("x")
	Warnf("x")
	Errorf("x")
	if GetLevel() != INFO && instance == nil {
		t.Errorf("Expected default level INFO without instance")
	}
}
