// Package game implements the viewer loop and state management.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/splinetrack/internal/config"
	"github.com/Faultbox/splinetrack/internal/engine/audio"
	"github.com/Faultbox/splinetrack/internal/engine/camera"
	"github.com/Faultbox/splinetrack/internal/engine/debug"
	"github.com/Faultbox/splinetrack/internal/engine/gpu"
	"github.com/Faultbox/splinetrack/internal/engine/input"
	"github.com/Faultbox/splinetrack/internal/engine/lighting"
	"github.com/Faultbox/splinetrack/internal/engine/renderer"
	"github.com/Faultbox/splinetrack/internal/engine/texture"
	"github.com/Faultbox/splinetrack/internal/engine/window"
	"github.com/Faultbox/splinetrack/internal/game/states"
	"github.com/Faultbox/splinetrack/internal/logger"
	"github.com/Faultbox/splinetrack/pkg/track"
)

// Game is the viewer instance.
type Game struct {
	config     *config.Config
	running    bool
	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	states     *states.Manager
	texture    *texture.Texture
	audio      *audio.Manager
	screenshot *debug.ScreenshotCapture
	log        *zap.Logger
}

// New opens the window and prepares the drive state for a built track.
func New(cfg *config.Config, b *track.Builder) (*Game, error) {
	g := &Game{
		config:     cfg,
		log:        logger.Named("game"),
		screenshot: debug.NewScreenshotCapture("screenshots", "track"),
	}
	g.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Window first: it creates the GL context the renderer needs.
	var err error
	g.window, err = window.New(window.Config{
		Title:       "Spline Track",
		Width:       cfg.Graphics.Width,
		Height:      cfg.Graphics.Height,
		Fullscreen:  cfg.Graphics.Fullscreen,
		VSync:       cfg.Graphics.VSync,
		Multisample: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := g.window.Size()
	g.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		Sun:    lighting.Sun{Azimuth: cfg.Graphics.SunAzimuth, Elevation: cfg.Graphics.SunElevation},
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if cfg.Track.Texture != "" {
		g.texture, err = texture.Load(cfg.Track.Texture)
		if err != nil {
			// Flat colour still shows the track.
			g.log.Warn("track texture not loaded", zap.String("path", cfg.Track.Texture), zap.Error(err))
		} else {
			g.log.Info("track texture loaded",
				zap.String("path", cfg.Track.Texture),
				zap.Int("width", g.texture.Width),
				zap.Int("height", g.texture.Height),
			)
		}
	}

	if cfg.Audio.Enabled {
		g.initAudio()
	}

	drive := states.NewDriveState(driveConfig(cfg, g.texture), b, gpu.NewGLDevice(), g.renderer, g.window.Aspect())
	if g.audio != nil {
		drive.OnLap(func(lap int) {
			if err := g.audio.PlayLap(lap); err != nil {
				g.log.Debug("lap cue failed", zap.Error(err))
			}
		})
	}

	g.input = input.New()
	g.states = states.NewManager()
	g.states.Change(drive)

	g.log.Info("viewer initialized successfully")
	return g, nil
}

// initAudio opens the speaker for lap chimes. The viewer runs silent when
// no audio device is available.
func (g *Game) initAudio() {
	m := audio.New()
	if err := m.Init(); err != nil {
		g.log.Warn("audio disabled", zap.Error(err))
		return
	}
	m.SetMasterVolume(float64(g.config.Audio.MasterVolume))
	m.SetChimeVolume(float64(g.config.Audio.ChimeVolume))
	if path := g.config.Audio.LapSound; path != "" {
		if err := m.LoadLapSound(path); err != nil {
			g.log.Warn("lap sound not loaded, using chime", zap.Error(err))
		} else {
			g.log.Info("lap sound loaded", zap.String("path", path))
		}
	}
	g.audio = m
}

// driveConfig maps viewer settings onto the drive state.
func driveConfig(cfg *config.Config, tex *texture.Texture) states.DriveConfig {
	dc := states.DefaultDriveConfig()
	dc.Speed = cfg.Track.Speed
	dc.ShowFrames = cfg.Graphics.ShowFrames
	dc.ShowBounds = cfg.Graphics.ShowBounds
	dc.Wireframe = cfg.Graphics.Wireframe
	dc.Follow = cfg.Camera.Mode == config.CameraFollow
	dc.Projection = camera.Projection{FOV: cfg.Camera.FOV, Near: cfg.Camera.Near, Far: cfg.Camera.Far}
	dc.OrbitDistance = cfg.Camera.OrbitDistance
	dc.FollowHeight = cfg.Camera.FollowHeight
	dc.Lookahead = cfg.Camera.Lookahead
	dc.Texture = tex
	return dc
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting main loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		if err := g.handleEvents(); err != nil {
			return fmt.Errorf("input error: %w", err)
		}

		// 2. Update state
		if err := g.states.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		g.renderer.Begin()
		if err := g.states.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 4. Present
		g.window.SwapBuffers()
		if budget := frameBudget(g.config.Graphics.FPSLimit); budget > 0 {
			if spent := time.Since(now); spent < budget {
				time.Sleep(budget - spent)
			}
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// frameBudget returns the minimum frame time for an FPS cap, zero when uncapped.
func frameBudget(limit int) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(limit)
}

func (g *Game) handleEvents() error {
	for _, event := range g.input.Events() {
		switch {
		case event.Type == input.EventWindowResize:
			g.renderer.Resize(g.window.Size())
		case event.Type == input.EventKeyDown && event.Key == sdl.SCANCODE_ESCAPE:
			g.running = false
			continue
		case event.Type == input.EventKeyDown && event.Key == sdl.SCANCODE_F12:
			g.captureScreenshot()
			continue
		}
		if err := g.states.HandleInput(event); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) captureScreenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.screenshot.CaptureFromPixels(pixels, w, h)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.states != nil {
		if err := g.states.Close(); err != nil {
			g.log.Warn("state exit failed", zap.Error(err))
		}
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.texture != nil {
		g.texture.Release()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
