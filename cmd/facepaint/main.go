// Package main is the facepaint desktop client: six paintable faces on the
// left, the textured cube they wrap on the right.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/app"
	"github.com/Faultbox/facepaint/internal/config"
	"github.com/Faultbox/facepaint/internal/engine/cube"
	"github.com/Faultbox/facepaint/internal/engine/debug"
	"github.com/Faultbox/facepaint/internal/engine/input"
	"github.com/Faultbox/facepaint/internal/engine/lighting"
	"github.com/Faultbox/facepaint/internal/engine/renderer"
	"github.com/Faultbox/facepaint/internal/engine/ui2d"
	"github.com/Faultbox/facepaint/internal/engine/window"
	"github.com/Faultbox/facepaint/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(loggerOptions(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== facepaint ===")

	if err := run(cfg); err != nil {
		logger.Error("facepaint failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("facepaint closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	opts, err := appOptions(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Close()

	dw, dh := win.DrawableSize()
	rnd, err := renderer.New(dw, dh, logger.Named("renderer"))
	if err != nil {
		return err
	}

	light := lighting.New(cfg.Lighting.Ambient, cfg.Lighting.Color, cfg.Lighting.Direction)
	scene, err := cube.New(cube.Options{Light: light, ClearColor: cfg.Cube.ClearColor}, logger.Named("cube"))
	if err != nil {
		return fmt.Errorf("create cube renderer: %w", err)
	}
	defer scene.Close()

	ww, wh := win.GetSize()
	panel, err := ui2d.NewPanel(ww, wh, cfg.Window.PanelWidth, opts.Palette)
	if err != nil {
		return fmt.Errorf("create face panel: %w", err)
	}
	defer panel.Close()

	a := app.New(opts, scene, logger.Named("app"))
	defer a.Close()

	h := &host{
		cfg:      cfg,
		app:      a,
		win:      win,
		rnd:      rnd,
		panel:    panel,
		in:       input.New(),
		snaps:    debug.NewSnapshotWriter(cfg.Export.SnapshotDir, logger.Named("snapshot")),
		opened:   make(chan openResult, 1),
		faceSize: cfg.Canvas.FaceSize,
		log:      logger.Named("host"),
	}
	return h.loop()
}

// loop is the single-threaded frame loop: input, state, cube, panel, swap.
func (h *host) loop() error {
	start := time.Now()
	lastTitle := start
	h.running = true

	h.log.Info("entering main loop")
	for h.running {
		if h.in.Update() {
			h.running = false
		}
		for _, ev := range h.in.Events() {
			h.handle(ev)
		}
		h.pollDialog()

		dw, dh := h.win.DrawableSize()
		h.rnd.Resize(dw, dh)
		h.rnd.Begin(h.cfg.Cube.ClearColor)

		vp := h.panel.Layout().Viewport(h.win.Scale(), dh)
		stats, err := h.app.Frame(time.Since(start), vp)
		if err != nil {
			return fmt.Errorf("frame: %w", err)
		}
		if stats.Uploaded > 0 {
			h.log.Debug("cube textures refreshed", zap.Int("slots", stats.Uploaded))
		}

		if h.screenshot {
			h.screenshot = false
			h.saveScreenshot(vp)
		}

		h.rnd.End()
		h.panel.Draw(h.app.Board())
		h.win.SwapBuffers()

		if now := time.Now(); now.Sub(lastTitle) >= time.Second {
			lastTitle = now
			h.win.SetTitle(fmt.Sprintf("%s - %.0f fps", h.cfg.Window.Title, stats.FPS))
		}
	}
	return nil
}
