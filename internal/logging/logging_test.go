package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("output missing messages: %q", out)
	}
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelDebug)
	root.SetOutput(&buf)

	root.Named("backdrop").Named("engine").Info("tick %d", 7)
	if !strings.Contains(buf.String(), "[INFO] backdrop.engine: tick 7") {
		t.Errorf("output = %q", buf.String())
	}

	// Level changes on the root apply to children.
	buf.Reset()
	child := root.Named("ui")
	root.SetLevel(LevelError)
	child.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("child ignored parent level: %q", buf.String())
	}
	if child.Enabled(LevelInfo) || !child.Enabled(LevelError) {
		t.Error("Enabled does not follow the shared level")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.Enabled(LevelError) {
		t.Error("Discard logger should not be enabled at any level")
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.log")
	l, err := NewFile(LevelInfo, path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	l.Named("main").Info("started")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	l.Info("after close")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "main: started") || strings.Contains(string(data), "after close") {
		t.Errorf("log file = %q", data)
	}

	if _, err := NewFile(LevelInfo, filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("NewFile in missing dir should fail")
	}
}
