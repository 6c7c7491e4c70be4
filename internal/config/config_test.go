package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Canvas.FaceSize != 256 {
		t.Errorf("expected face size 256, got %d", cfg.Canvas.FaceSize)
	}
	if cfg.Canvas.StrokeColor != "black" || cfg.Canvas.StrokeWidth != 5 {
		t.Errorf("expected black/5 stroke, got %s/%g", cfg.Canvas.StrokeColor, cfg.Canvas.StrokeWidth)
	}
	if len(cfg.Canvas.Palette) != 8 {
		t.Errorf("expected 8 palette colours, got %d", len(cfg.Canvas.Palette))
	}
	if cfg.Cube.Position != [3]float32{0, 0, -5} {
		t.Errorf("unexpected default position %v", cfg.Cube.Position)
	}
	if cfg.Cube.Rotation != [3]float32{30, 45, 0} {
		t.Errorf("unexpected default rotation %v", cfg.Cube.Rotation)
	}
	if cfg.Cube.ZoomMin != -7 || cfg.Cube.ZoomMax != -2 {
		t.Errorf("unexpected zoom limits %g..%g", cfg.Cube.ZoomMin, cfg.Cube.ZoomMax)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "facepaint.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

canvas:
  face_size: 512
  stroke_color: "#ff0000"
  palette: ["#000000", "#ffffff"]

cube:
  position: [0.5, -0.5, -4]
  zoom_min: -9

lighting:
  ambient: [0.2, 0.2, 0.2]

logging:
  level: "debug"
  log_file: "facepaint.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 || !cfg.Window.Fullscreen {
		t.Errorf("window not loaded: %+v", cfg.Window)
	}
	if cfg.Canvas.FaceSize != 512 {
		t.Errorf("expected face size 512, got %d", cfg.Canvas.FaceSize)
	}
	if cfg.Canvas.StrokeColor != "#ff0000" {
		t.Errorf("expected stroke colour #ff0000, got %s", cfg.Canvas.StrokeColor)
	}
	if len(cfg.Canvas.Palette) != 2 {
		t.Errorf("expected palette replaced with 2 entries, got %d", len(cfg.Canvas.Palette))
	}
	if cfg.Cube.Position != [3]float32{0.5, -0.5, -4} {
		t.Errorf("unexpected position %v", cfg.Cube.Position)
	}
	if cfg.Cube.ZoomMin != -9 || cfg.Cube.ZoomMax != -2 {
		t.Errorf("expected zoom -9..-2 (max kept from defaults), got %g..%g", cfg.Cube.ZoomMin, cfg.Cube.ZoomMax)
	}
	if cfg.Lighting.Ambient != [3]float32{0.2, 0.2, 0.2} {
		t.Errorf("unexpected ambient %v", cfg.Lighting.Ambient)
	}
	if cfg.Canvas.StrokeWidth != 5 {
		t.Errorf("unset stroke width should keep default, got %g", cfg.Canvas.StrokeWidth)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "facepaint.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero face size", func(c *Config) { c.Canvas.FaceSize = 0 }},
		{"huge face size", func(c *Config) { c.Canvas.FaceSize = 10000 }},
		{"inverted zoom", func(c *Config) { c.Cube.ZoomMin, c.Cube.ZoomMax = -2, -7 }},
		{"zero pan limit", func(c *Config) { c.Cube.PanLimit = 0 }},
		{"near beyond far", func(c *Config) { c.Cube.Near = 200 }},
		{"stroke too wide", func(c *Config) { c.Canvas.StrokeWidth = 150 }},
		{"panel wider than window", func(c *Config) { c.Window.PanelWidth = 2000 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "facepaint.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find facepaint.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name: "size flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
				*flagFaceSize = 128
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
				if cfg.Canvas.FaceSize != 128 {
					t.Errorf("expected face size 128, got %d", cfg.Canvas.FaceSize)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
				*flagFaceSize = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "facepaint.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "facepaint.yaml")
	if err := os.WriteFile(configPath, []byte("canvas:\n  face_size: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject a negative face size")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Canvas.FaceSize = 300
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Canvas.FaceSize != 300 {
		t.Errorf("expected face size 300 after reload, got %d", loaded.Canvas.FaceSize)
	}
}
