package logger

import (
	"bytes"
	"os"
	"testing"
)

func reset() {
	SetLevel(LevelInfo)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if buf.String() != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")
	Section("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelWarn)

	Info("skipped")
	Warn("corpus %s skipped", "gardening")
	Error("failed")

	want := "[WARN] corpus gardening skipped\n[ERROR] failed\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Baseline")

	if buf.String() != "\n=== Baseline ===\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "": LevelInfo, "INFO": LevelInfo, "warning": LevelWarn, "error": LevelError}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
