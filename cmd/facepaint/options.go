package main

import (
	"fmt"
	gomath "math"

	"github.com/gogpu/gg"

	"github.com/Faultbox/facepaint/internal/app"
	"github.com/Faultbox/facepaint/internal/config"
	"github.com/Faultbox/facepaint/internal/engine/texture"
	"github.com/Faultbox/facepaint/internal/face"
	"github.com/Faultbox/facepaint/internal/logger"
	"github.com/Faultbox/facepaint/internal/transform"
)

// Uploaded images larger than this many face sizes are scaled down on decode.
const uploadScale = 4

func radians(deg float32) float32 {
	return float32(float64(deg) * gomath.Pi / 180)
}

// appOptions converts the file configuration into App options.
func appOptions(cfg *config.Config) (app.Options, error) {
	bg, err := face.ParseColor(cfg.Canvas.Background)
	if err != nil {
		return app.Options{}, fmt.Errorf("canvas.background: %w", err)
	}
	stroke, err := face.ParseColor(cfg.Canvas.StrokeColor)
	if err != nil {
		return app.Options{}, fmt.Errorf("canvas.stroke_color: %w", err)
	}

	palette := make([]gg.RGBA, 0, len(cfg.Canvas.Palette))
	for i, s := range cfg.Canvas.Palette {
		c, err := face.ParseColor(s)
		if err != nil {
			return app.Options{}, fmt.Errorf("canvas.palette[%d]: %w", i, err)
		}
		palette = append(palette, c)
	}

	c := cfg.Cube
	xs := transform.Settings{
		Position: c.Position,
		Rotation: [3]float32{
			radians(c.Rotation[0]),
			radians(c.Rotation[1]),
			radians(c.Rotation[2]),
		},
		RotateSpeed: c.RotateSpeed,
		PanSpeed:    c.PanSpeed,
		ZoomStep:    c.ZoomStep,
		FOV:         radians(c.FOV),
		Near:        c.Near,
		Far:         c.Far,
		Limits: transform.Limits{
			Pitch:   gomath.Pi / 2,
			Pan:     c.PanLimit,
			ZoomMin: c.ZoomMin,
			ZoomMax: c.ZoomMax,
		},
	}

	return app.Options{
		Board: face.Options{
			Size:       cfg.Canvas.FaceSize,
			Background: bg,
			Style:      face.Style{Color: stroke, Width: cfg.Canvas.StrokeWidth},
		},
		Transform:       xs,
		Palette:         palette,
		ExportOnStartup: cfg.Export.OnStartup,
		Decoder:         texture.DecoderOptions{MaxSize: cfg.Canvas.FaceSize * uploadScale},
	}, nil
}

// loggerOptions converts the logging section into logger options.
func loggerOptions(cfg *config.Config) logger.Options {
	opts := logger.Options{Level: cfg.Logging.Level, Console: true}
	if cfg.Logging.LogFile != "" {
		fc := logger.DefaultFileConfig(cfg.Logging.LogFile)
		if cfg.Logging.MaxSizeMB > 0 {
			fc.MaxSizeMB = cfg.Logging.MaxSizeMB
		}
		if cfg.Logging.MaxBackups > 0 {
			fc.MaxBackups = cfg.Logging.MaxBackups
		}
		if cfg.Logging.MaxAgeDays > 0 {
			fc.MaxAgeDays = cfg.Logging.MaxAgeDays
		}
		opts.File = fc
	}
	return opts
}
