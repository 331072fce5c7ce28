package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		minLevel Level
		logAt    Level
		want     bool
	}{
		{name: "info at info threshold", minLevel: LevelInfo, logAt: LevelInfo, want: true},
		{name: "debug below info threshold", minLevel: LevelInfo, logAt: LevelDebug, want: false},
		{name: "error always passes", minLevel: LevelInfo, logAt: LevelError, want: true},
		{name: "debug at debug threshold", minLevel: LevelDebug, logAt: LevelDebug, want: true},
		{name: "warn below error threshold", minLevel: LevelError, logAt: LevelWarn, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.minLevel, &buf)
			l.log(tt.logAt, "message", nil, nil)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Errorf("logged = %v, expected %v", logged, tt.want)
			}
		})
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("add: 2024-03-15T19:00:00 (TV)レギュラー放送", Fields{"calendar": "schedule"})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("level = %q", entry.Level)
	}
	if !strings.HasPrefix(entry.Message, "add: ") {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Timestamp == "" {
		t.Error("timestamp should be set")
	}
	if entry.Fields["calendar"] != "schedule" {
		t.Errorf("fields = %v", entry.Fields)
	}
}

func TestLoggerError(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("scrape failed", nil, errors.New("boom"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Error != "boom" {
		t.Errorf("error = %q", entry.Error)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
