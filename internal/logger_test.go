package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)

	SetLogLevel(LogLevelDebug)
	if logLevel != LogLevelDebug {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetLogLevel(LogLevelError)
	if logLevel != LogLevelError {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelError", logLevel)
	}
}

func TestSetVerbose(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)

	SetVerbose(true)
	if logLevel != LogLevelDebug {
		t.Errorf("SetVerbose(true) logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetVerbose(false)
	if logLevel != LogLevelInfo {
		t.Errorf("SetVerbose(false) logLevel = %v, want LogLevelInfo", logLevel)
	}
}

func TestLogOutputRespectsLevel(t *testing.T) {
	originalLevel := logLevel
	originalOutput := logOutput
	defer func() {
		SetLogOutput(originalOutput)
		SetLogLevel(originalLevel)
	}()

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(LogLevelWarn)

	LogDebug("hidden debug %d", 1)
	LogInfo("hidden info")
	LogWarn("visible warning %s", "here")
	LogError("visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn should be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "visible warning here") {
		t.Errorf("warning missing from output:\n%s", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("error level marker missing from output:\n%s", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"error":   LogLevelError,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"info":    LogLevelInfo,
		"debug":   LogLevelDebug,
		"bogus":   LogLevelInfo,
		"":        LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogLevels(t *testing.T) {
	if LogLevelError >= LogLevelWarn {
		t.Error("LogLevelError should be less than LogLevelWarn")
	}
	if LogLevelWarn >= LogLevelInfo {
		t.Error("LogLevelWarn should be less than LogLevelInfo")
	}
	if LogLevelInfo >= LogLevelDebug {
		t.Error("LogLevelInfo should be less than LogLevelDebug")
	}
}
