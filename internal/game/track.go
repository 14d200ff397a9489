package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/splinetrack/internal/config"
	"github.com/Faultbox/splinetrack/internal/logger"
	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

// LoadTrack reads the control points named by cfg (or the built-in loop)
// and builds the centreline, edges and mesh.
func LoadTrack(cfg config.TrackConfig) (*track.Builder, error) {
	log := logger.Named("track")

	name := "default"
	points := track.DefaultControlPoints()
	var ups []math.Vec3
	if cfg.PointsFile != "" {
		set, err := track.LoadControlPoints(cfg.PointsFile)
		if err != nil {
			return nil, err
		}
		if points, ups, err = set.Vectors(); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.PointsFile, err)
		}
		name = set.Name
	}

	start := time.Now()
	b := track.NewBuilder()
	if err := b.SetControlPoints(points, ups); err != nil {
		return nil, fmt.Errorf("track %q: %w", name, err)
	}
	if err := b.Build(cfg.NumSamples, cfg.HalfWidth); err != nil {
		return nil, fmt.Errorf("track %q: %w", name, err)
	}

	segments := track.SegmentLengths(b.Centreline())
	log.Info("track built",
		zap.String("name", name),
		zap.Int("control_points", len(points)),
		zap.Bool("up_vectors", b.HasUpVectors()),
		zap.Int("samples", len(b.Centreline())),
		zap.Float32("total_length", b.TotalLength()),
		zap.Float32("segment_stddev", track.StdDev(segments)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b, nil
}
