package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func initFile(t *testing.T, level string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facepaint.log")
	err := Init(Options{
		Level: level,
		File:  FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = Init(Options{}) })
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(content)
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := initFile(t, tt.level)

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			content := readLog(t, path)
			for _, exp := range tt.expected {
				if !strings.Contains(content, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(content, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNamed(t *testing.T) {
	path := initFile(t, "info")

	Named("texsync").Info("upload batch")

	content := readLog(t, path)
	if !strings.Contains(content, "texsync") {
		t.Errorf("named logger output missing component name: %q", content)
	}
}

func TestParseLevelUnknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Init(Options{Level: "verbose"}); err == nil {
		t.Error("Init should reject unknown level")
	}
}

func TestInitWithoutOutputs(t *testing.T) {
	if err := Init(Options{Level: "debug"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	// Must not panic with no cores.
	Info("discarded")
	Sync()
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/facepaint.log")

	if cfg.Path != "/tmp/facepaint.log" {
		t.Errorf("expected path /tmp/facepaint.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 || !cfg.Compress {
		t.Errorf("unexpected rotation defaults: %+v", cfg)
	}
}
