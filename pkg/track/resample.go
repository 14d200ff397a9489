package track

import (
	"fmt"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// UniformlySampleControlPoints turns the control polygon into a centreline of
// numSamples points evenly spaced by arc length.
//
// Sample is arc-length uniform only along the polygon it interpolates, so one
// pass over an irregular polygon leaves visible spacing error. The first pass
// becomes the working control polygon and a second pass samples over it; the
// result is close to uniform but not an exact geodesic resampling.
//
// Resampling always starts from the supplied control points, so calling it
// again (for a different sample count) does not compound. Derived offset
// curves and mesh are discarded.
func (b *Builder) UniformlySampleControlPoints(numSamples int) error {
	if err := b.require(StageControlPointsSet); err != nil {
		return err
	}
	if numSamples < MinControlPoints {
		return fmt.Errorf("%w: got %d", ErrTooFewSamples, numSamples)
	}

	b.restoreOriginal()
	b.clearDerived()

	// Pass 1: approximate, spaced along the supplied polygon.
	points, ups, err := b.resamplePass(numSamples)
	if err != nil {
		return fmt.Errorf("first pass: %w", err)
	}
	b.controlPoints = points
	b.controlUps = ups

	// Pass 2: spaced along the first approximation.
	points, ups, err = b.resamplePass(numSamples)
	if err != nil {
		return fmt.Errorf("second pass: %w", err)
	}
	b.centreline = points
	b.centrelineUps = ups
	b.stage = StageCentrelineBuilt
	return nil
}

// resamplePass recomputes the arc-length table and samples numSamples points
// at equal spacing along it.
func (b *Builder) resamplePass(numSamples int) ([]math.Vec3, []math.Vec3, error) {
	b.lengths = cumulativeLengths(b.controlPoints)
	spacing := b.TotalLength() / float32(numSamples)

	points := make([]math.Vec3, 0, numSamples)
	var ups []math.Vec3
	if b.controlUps != nil {
		ups = make([]math.Vec3, 0, numSamples)
	}
	for i := 0; i < numSamples; i++ {
		loc, ok := b.Sample(float32(i) * spacing)
		if !ok {
			return nil, nil, fmt.Errorf("no sample at distance %g", float32(i)*spacing)
		}
		points = append(points, loc.Position)
		if ups != nil {
			ups = append(ups, loc.Up)
		}
	}
	return points, ups, nil
}

// clearDerived drops everything built from the centreline onward.
func (b *Builder) clearDerived() {
	b.centreline = nil
	b.centrelineUps = nil
	b.left = nil
	b.right = nil
	b.binormals = nil
	b.vertices = nil
	b.halfWidth = 0
	b.stage = StageControlPointsSet
}
