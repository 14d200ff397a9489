package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagSamples    = flag.Int("samples", 0, "Number of uniformly spaced centreline samples")
	flagHalfWidth  = flag.Float64("half-width", -1, "Track half-width (negative keeps the configured value)")
	flagPoints     = flag.String("points", "", "Path to a YAML control point file")
	flagMute       = flag.Bool("mute", false, "Disable the lap chime")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowFrames = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagSamples > 0 {
		cfg.Track.NumSamples = *flagSamples
	}
	if *flagHalfWidth >= 0 {
		cfg.Track.HalfWidth = float32(*flagHalfWidth)
	}
	if *flagPoints != "" {
		cfg.Track.PointsFile = *flagPoints
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
}
