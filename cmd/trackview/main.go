// Package main is the entry point for the spline track viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/splinetrack/internal/config"
	"github.com/Faultbox/splinetrack/internal/game"
	"github.com/Faultbox/splinetrack/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Spline Track Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	b, err := game.LoadTrack(cfg.Track)
	if err != nil {
		logger.Error("failed to build track", zap.Error(err))
		os.Exit(1)
	}

	g, err := game.New(cfg, b)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
