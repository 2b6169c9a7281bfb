package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", Logger.GetLevel())
	}

	Info("Test info message")
	if _, err := os.Stat(filepath.Join(logDir, "datebook.log")); err != nil {
		t.Errorf("log file not written: %v", err)
	}
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
}

func TestUseWriter(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, log.WarnLevel)

	Info("hidden")
	Warn("shown", "event", "Dentist")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "Dentist") {
		t.Errorf("output = %q", out)
	}
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, log.DebugLevel)

	var l CronLogger
	l.Info("tick", "entry", 1)
	l.Error(errors.New("boom"), "job failed")

	out := buf.String()
	if !strings.Contains(out, "tick") || !strings.Contains(out, "boom") {
		t.Errorf("output = %q", out)
	}
}

func TestLoggingWithoutInit(t *testing.T) {
	Logger = nil
	Debug("no-op")
	Info("no-op")
	Warn("no-op")
	Error("no-op")
}
