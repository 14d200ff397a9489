// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Track    TrackConfig    `yaml:"track"`
	Camera   CameraConfig   `yaml:"camera"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Wireframe  bool `yaml:"wireframe"`
	ShowFrames bool `yaml:"show_frames"` // draw TNB frames along the centreline
	ShowBounds bool `yaml:"show_bounds"` // draw the track bounding box

	SunAzimuth   float32 `yaml:"sun_azimuth"`   // degrees around +Y from +Z
	SunElevation float32 `yaml:"sun_elevation"` // degrees above the horizon
}

// TrackConfig holds track construction settings.
type TrackConfig struct {
	PointsFile string  `yaml:"points_file"` // empty uses the built-in loop
	NumSamples int     `yaml:"num_samples"`
	HalfWidth  float32 `yaml:"half_width"`
	Speed      float32 `yaml:"speed"` // world units per second along the centreline
	Texture    string  `yaml:"texture"`
}

// CameraConfig holds projection and follow-camera settings.
type CameraConfig struct {
	Mode          string  `yaml:"mode"` // "orbit" or "follow"
	FOV           float32 `yaml:"fov"`
	Near          float32 `yaml:"near"`
	Far           float32 `yaml:"far"`
	OrbitDistance float32 `yaml:"orbit_distance"`
	FollowHeight  float32 `yaml:"follow_height"`
	Lookahead     float32 `yaml:"lookahead"`
}

// AudioConfig holds lap-cue settings.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float32 `yaml:"master_volume"`
	ChimeVolume  float32 `yaml:"chime_volume"`
	LapSound     string  `yaml:"lap_sound"` // WAV played instead of the chime
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Camera modes.
const (
	CameraOrbit  = "orbit"
	CameraFollow = "follow"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,

			SunAzimuth:   53,
			SunElevation: 63,
		},
		Track: TrackConfig{
			NumSamples: 500,
			HalfWidth:  10,
			Speed:      40,
		},
		Camera: CameraConfig{
			Mode:          CameraOrbit,
			FOV:           60,
			Near:          0.1,
			Far:           2000,
			OrbitDistance: 250,
			FollowHeight:  4,
			Lookahead:     5,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.8,
			ChimeVolume:  0.6,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the track builder or viewer cannot use.
func (c *Config) Validate() error {
	switch {
	case c.Track.NumSamples < 4:
		return fmt.Errorf("track.num_samples must be at least 4, got %d", c.Track.NumSamples)
	case c.Track.HalfWidth < 0:
		return fmt.Errorf("track.half_width must not be negative, got %g", c.Track.HalfWidth)
	case c.Track.Speed < 0:
		return fmt.Errorf("track.speed must not be negative, got %g", c.Track.Speed)
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("graphics size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	case c.Camera.Mode != CameraOrbit && c.Camera.Mode != CameraFollow:
		return fmt.Errorf("camera.mode must be %q or %q, got %q", CameraOrbit, CameraFollow, c.Camera.Mode)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return errors.New("camera clip planes must satisfy 0 < near < far")
	case c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 || c.Audio.ChimeVolume < 0 || c.Audio.ChimeVolume > 1:
		return errors.New("audio volumes must be within [0, 1]")
	}
	return nil
}
