package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test track defaults
	if cfg.Track.NumSamples != 500 {
		t.Errorf("expected 500 samples, got %d", cfg.Track.NumSamples)
	}
	if cfg.Track.HalfWidth != 10 {
		t.Errorf("expected half-width 10, got %f", cfg.Track.HalfWidth)
	}
	if cfg.Track.PointsFile != "" {
		t.Errorf("expected built-in control points, got %s", cfg.Track.PointsFile)
	}

	// Test camera defaults
	if cfg.Camera.Mode != CameraOrbit {
		t.Errorf("expected orbit camera, got %s", cfg.Camera.Mode)
	}

	// Test audio defaults
	if !cfg.Audio.Enabled {
		t.Error("expected lap chime enabled by default")
	}
	if cfg.Audio.MasterVolume != 0.8 {
		t.Errorf("expected master volume 0.8, got %f", cfg.Audio.MasterVolume)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144
  wireframe: true

track:
  points_file: "oval.yaml"
  num_samples: 1000
  half_width: 6.5
  speed: 80
  texture: "asphalt.png"

camera:
  mode: follow
  fov: 75
  lookahead: 8

logging:
  level: "debug"
  log_file: "track.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if !cfg.Graphics.Wireframe {
		t.Error("expected wireframe to be true")
	}

	if cfg.Track.PointsFile != "oval.yaml" {
		t.Errorf("expected points file oval.yaml, got %s", cfg.Track.PointsFile)
	}
	if cfg.Track.NumSamples != 1000 {
		t.Errorf("expected 1000 samples, got %d", cfg.Track.NumSamples)
	}
	if cfg.Track.HalfWidth != 6.5 {
		t.Errorf("expected half-width 6.5, got %f", cfg.Track.HalfWidth)
	}
	if cfg.Track.Texture != "asphalt.png" {
		t.Errorf("expected texture asphalt.png, got %s", cfg.Track.Texture)
	}

	if cfg.Camera.Mode != CameraFollow {
		t.Errorf("expected follow camera, got %s", cfg.Camera.Mode)
	}
	if cfg.Camera.FOV != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Camera.FOV)
	}
	// Unset keys keep their defaults.
	if cfg.Camera.Far != 2000 {
		t.Errorf("expected default far plane 2000, got %f", cfg.Camera.Far)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "track.log" {
		t.Errorf("expected log file 'track.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
track:
  num_samples: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"minimum samples", func(c *Config) { c.Track.NumSamples = 4 }, ""},
		{"zero half-width", func(c *Config) { c.Track.HalfWidth = 0 }, ""},
		{"too few samples", func(c *Config) { c.Track.NumSamples = 3 }, "num_samples"},
		{"negative half-width", func(c *Config) { c.Track.HalfWidth = -1 }, "half_width"},
		{"negative speed", func(c *Config) { c.Track.Speed = -5 }, "speed"},
		{"zero height", func(c *Config) { c.Graphics.Height = 0 }, "graphics size"},
		{"unknown camera", func(c *Config) { c.Camera.Mode = "chase" }, "camera.mode"},
		{"inverted clip planes", func(c *Config) { c.Camera.Far = c.Camera.Near }, "clip planes"},
		{"loud chime", func(c *Config) { c.Audio.ChimeVolume = 1.5 }, "audio volumes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
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
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("track:\n  num_samples: 64\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
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
				if !cfg.Graphics.ShowFrames {
					t.Error("expected frames to be shown with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "mute flag",
			setup: func() { *flagMute = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Audio.Enabled {
					t.Error("expected lap chime disabled with mute flag")
				}
			},
			teardown: func() { *flagMute = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "track flags",
			setup: func() {
				*flagSamples = 2000
				*flagHalfWidth = 3.5
				*flagPoints = "figure8.yaml"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Track.NumSamples != 2000 {
					t.Errorf("expected 2000 samples, got %d", cfg.Track.NumSamples)
				}
				if cfg.Track.HalfWidth != 3.5 {
					t.Errorf("expected half-width 3.5, got %f", cfg.Track.HalfWidth)
				}
				if cfg.Track.PointsFile != "figure8.yaml" {
					t.Errorf("expected points file figure8.yaml, got %s", cfg.Track.PointsFile)
				}
			},
			teardown: func() {
				*flagSamples = 0
				*flagHalfWidth = -1
				*flagPoints = ""
			},
		},
		{
			name:  "zero half-width flag is applied",
			setup: func() { *flagHalfWidth = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Track.HalfWidth != 0 {
					t.Errorf("expected half-width 0, got %f", cfg.Track.HalfWidth)
				}
			},
			teardown: func() { *flagHalfWidth = -1 },
		},
		{
			name:  "unset half-width flag keeps config",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Track.HalfWidth != 10 {
					t.Errorf("expected default half-width 10, got %f", cfg.Track.HalfWidth)
				}
			},
			teardown: func() {},
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
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
track:
  num_samples: 250
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

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// Height and samples come from the file since no flag overrides them
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if cfg.Track.NumSamples != 250 {
		t.Errorf("expected 250 samples from file, got %d", cfg.Track.NumSamples)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("track:\n  num_samples: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject num_samples below 4")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Track.HalfWidth = 7.25
	cfg.Camera.Mode = CameraFollow
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Track.HalfWidth != 7.25 {
		t.Errorf("expected half-width 7.25, got %f", loaded.Track.HalfWidth)
	}
	if loaded.Camera.Mode != CameraFollow {
		t.Errorf("expected follow camera, got %s", loaded.Camera.Mode)
	}
}
