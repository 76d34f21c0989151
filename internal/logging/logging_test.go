package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetup_File(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "uncss.log")
	logger, closer, err := Setup(Options{File: path, Debug: true})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Debug("reduction request", "bytes", 42)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "reduction request") || !strings.Contains(string(data), "bytes=42") {
		t.Errorf("unexpected log contents: %q", data)
	}
	if log.Default() != logger {
		t.Error("expected logger to be installed as default")
	}
}

func TestSetup_DiscardFiltersDebug(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	logger, closer, err := Setup(Options{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closer.Close()
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
}

func TestSetup_Console(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Console: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closer.Close()

	logger.Debug("hidden")
	logger.Warn("endpoint slow", "elapsed", "2s")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "endpoint slow") || !strings.Contains(out, "uncss") {
		t.Errorf("unexpected console output: %q", out)
	}
}
