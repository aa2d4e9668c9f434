package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"off", zerolog.Disabled, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Config{Level: "warn", Output: &buf, NoColor: true})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info().Msg("hidden")
	gate := Component(logger, "gate")
	gate.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=gate") {
		t.Errorf("missing warn line or component field: %q", out)
	}
	if !strings.Contains(out, "pid=") {
		t.Errorf("missing pid field: %q", out)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "canvaskeys.log")
	logger, closer, err := New(Config{Level: "debug", File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug().Str("keys", "Control+c").Msg("shortcut fired")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "shortcut fired") {
		t.Errorf("log file = %q", data)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "verbose"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
