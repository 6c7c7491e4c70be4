// Package config handles facepaint configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all application settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Canvas   CanvasConfig   `yaml:"canvas"`
	Cube     CubeConfig     `yaml:"cube"`
	Lighting LightingConfig `yaml:"lighting"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	PanelWidth int    `yaml:"panel_width"` // Width of the face panel on the left
}

// CanvasConfig holds face surface and brush settings.
type CanvasConfig struct {
	FaceSize    int      `yaml:"face_size"`
	Background  string   `yaml:"background"`
	StrokeColor string   `yaml:"stroke_color"`
	StrokeWidth float64  `yaml:"stroke_width"`
	Palette     []string `yaml:"palette"` // Bound to keys 1-8
}

// CubeConfig holds the view and interaction settings of the 3D cube.
type CubeConfig struct {
	Position    [3]float32 `yaml:"position"`
	Rotation    [3]float32 `yaml:"rotation"` // Degrees
	FOV         float32    `yaml:"fov"`      // Degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	ClearColor  [3]float32 `yaml:"clear_color"`
	RotateSpeed float32    `yaml:"rotate_speed"` // Radians per pixel
	PanSpeed    float32    `yaml:"pan_speed"`    // Units per pixel
	ZoomStep    float32    `yaml:"zoom_step"`    // Units per wheel notch
	PanLimit    float32    `yaml:"pan_limit"`
	ZoomMin     float32    `yaml:"zoom_min"`
	ZoomMax     float32    `yaml:"zoom_max"`
}

// LightingConfig holds the fixed directional light.
type LightingConfig struct {
	Ambient   [3]float32 `yaml:"ambient"`
	Color     [3]float32 `yaml:"color"`
	Direction [3]float32 `yaml:"direction"`
}

// ExportConfig holds texture export and snapshot settings.
type ExportConfig struct {
	OnStartup   bool   `yaml:"on_startup"`
	SnapshotDir string `yaml:"snapshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "facepaint",
			Width:      1280,
			Height:     720,
			VSync:      true,
			PanelWidth: 420,
		},
		Canvas: CanvasConfig{
			FaceSize:    256,
			Background:  "white",
			StrokeColor: "black",
			StrokeWidth: 5,
			Palette: []string{
				"black", "#e53935", "#fb8c00", "#fdd835",
				"#43a047", "#1e88e5", "#8e24aa", "white",
			},
		},
		Cube: CubeConfig{
			Position:    [3]float32{0, 0, -5},
			Rotation:    [3]float32{30, 45, 0},
			FOV:         45,
			Near:        0.1,
			Far:         100,
			ClearColor:  [3]float32{0.11, 0.125, 0.27},
			RotateSpeed: 0.01,
			PanSpeed:    0.01,
			ZoomStep:    0.12,
			PanLimit:    2,
			ZoomMin:     -7,
			ZoomMax:     -2,
		},
		Lighting: LightingConfig{
			Ambient:   [3]float32{0.3, 0.3, 0.3},
			Color:     [3]float32{1, 1, 1},
			Direction: [3]float32{0.85, 0.8, 0.75},
		},
		Export: ExportConfig{
			OnStartup:   true,
			SnapshotDir: "snapshots",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.PanelWidth < 0 || c.Window.PanelWidth >= c.Window.Width {
		errs = append(errs, fmt.Errorf("panel width %d must be within window width %d", c.Window.PanelWidth, c.Window.Width))
	}
	if c.Canvas.FaceSize <= 0 || c.Canvas.FaceSize > 4096 {
		errs = append(errs, fmt.Errorf("face size %d out of range (1-4096)", c.Canvas.FaceSize))
	}
	if c.Canvas.StrokeWidth < 1 || c.Canvas.StrokeWidth > 100 {
		errs = append(errs, fmt.Errorf("stroke width %g out of range (1-100)", c.Canvas.StrokeWidth))
	}
	if c.Cube.ZoomMin >= c.Cube.ZoomMax {
		errs = append(errs, fmt.Errorf("zoom limits inverted: min %g >= max %g", c.Cube.ZoomMin, c.Cube.ZoomMax))
	}
	if c.Cube.PanLimit <= 0 {
		errs = append(errs, fmt.Errorf("pan limit %g must be positive", c.Cube.PanLimit))
	}
	if c.Cube.Near <= 0 || c.Cube.Near >= c.Cube.Far {
		errs = append(errs, fmt.Errorf("clip planes invalid: near %g, far %g", c.Cube.Near, c.Cube.Far))
	}
	if c.Cube.FOV <= 0 || c.Cube.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %g out of range (0-180)", c.Cube.FOV))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
