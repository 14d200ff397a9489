// Package track builds a closed Catmull-Rom centreline from control points,
// resamples it to uniform arc length, and derives the offset curves and
// triangle-strip mesh of a drivable track.
//
// The package is pure CPU math. GPU upload and drawing live in
// internal/engine/renderer, which consumes the slices exposed here.
package track

import (
	"errors"
	"fmt"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// MinControlPoints is the smallest loop the 4-point interpolation can wrap.
const MinControlPoints = 4

var (
	// ErrTooFewControlPoints is returned when a loop has fewer than MinControlPoints.
	ErrTooFewControlPoints = errors.New("track: at least 4 control points required")

	// ErrTooFewSamples is returned when resampling to fewer than MinControlPoints.
	ErrTooFewSamples = errors.New("track: at least 4 samples required")

	// ErrNegativeWidth is returned for a negative offset half-width.
	ErrNegativeWidth = errors.New("track: half-width must not be negative")

	// ErrStage is returned when a build step runs before its predecessor.
	ErrStage = errors.New("track: stage not built")
)

// Stage is the build progress of a Builder. Each stage requires the previous one.
type Stage int

const (
	StageUninitialized Stage = iota
	StageControlPointsSet
	StageCentrelineBuilt
	StageOffsetCurvesBuilt
	StageTrackMeshBuilt
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageControlPointsSet:
		return "control-points-set"
	case StageCentrelineBuilt:
		return "centreline-built"
	case StageOffsetCurvesBuilt:
		return "offset-curves-built"
	case StageTrackMeshBuilt:
		return "track-mesh-built"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Builder owns every sequence of one track: control points, arc-length table,
// centreline, offset curves and mesh vertices. It is not safe for concurrent use;
// build it once at load time and treat it as read-only afterwards.
type Builder struct {
	stage Stage

	// Control polygon as supplied, kept so resampling always starts from it.
	original    []math.Vec3
	originalUps []math.Vec3

	// Working control points. After UniformlySampleControlPoints these are the
	// first-pass approximation and lengths is their table.
	controlPoints []math.Vec3
	controlUps    []math.Vec3
	lengths       []float32

	centreline    []math.Vec3
	centrelineUps []math.Vec3

	halfWidth float32
	left      []math.Vec3
	right     []math.Vec3
	binormals []math.Vec3

	vertices []Vertex
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Stage returns how far the builder has progressed.
func (b *Builder) Stage() Stage {
	return b.stage
}

// SetControlPoints replaces the control polygon and discards every derived
// sequence. ups is optional: it is used only when its length matches points,
// otherwise it is ignored entirely.
func (b *Builder) SetControlPoints(points, ups []math.Vec3) error {
	if len(points) < MinControlPoints {
		return fmt.Errorf("%w: got %d", ErrTooFewControlPoints, len(points))
	}

	b.Reset()
	b.original = append([]math.Vec3(nil), points...)
	if len(ups) == len(points) {
		b.originalUps = make([]math.Vec3, len(ups))
		for i, u := range ups {
			b.originalUps[i] = u.Normalize()
		}
	}
	b.restoreOriginal()
	b.stage = StageControlPointsSet
	return nil
}

// Reset returns the builder to StageUninitialized.
func (b *Builder) Reset() {
	*b = Builder{}
}

// restoreOriginal makes the supplied control polygon the working one again.
func (b *Builder) restoreOriginal() {
	b.controlPoints = append([]math.Vec3(nil), b.original...)
	b.controlUps = nil
	if b.originalUps != nil {
		b.controlUps = append([]math.Vec3(nil), b.originalUps...)
	}
	b.lengths = nil
}

// require returns ErrStage unless the builder has reached want.
func (b *Builder) require(want Stage) error {
	if b.stage < want {
		return fmt.Errorf("%w: need %s, have %s", ErrStage, want, b.stage)
	}
	return nil
}

// OriginalControlPoints returns the control polygon as supplied.
func (b *Builder) OriginalControlPoints() []math.Vec3 {
	return b.original
}

// ControlPoints returns the working control points Sample interpolates.
func (b *Builder) ControlPoints() []math.Vec3 {
	return b.controlPoints
}

// HasUpVectors reports whether up vectors accompany the control points.
func (b *Builder) HasUpVectors() bool {
	return b.controlUps != nil
}

// Centreline returns the uniformly resampled centreline.
func (b *Builder) Centreline() []math.Vec3 {
	return b.centreline
}

// CentrelineUps returns the centreline up vectors, or nil if none were supplied.
func (b *Builder) CentrelineUps() []math.Vec3 {
	return b.centrelineUps
}

// LeftOffsetCurve returns the left edge of the track.
func (b *Builder) LeftOffsetCurve() []math.Vec3 {
	return b.left
}

// RightOffsetCurve returns the right edge of the track.
func (b *Builder) RightOffsetCurve() []math.Vec3 {
	return b.right
}

// Binormals returns the per-point binormals computed with the offset curves.
func (b *Builder) Binormals() []math.Vec3 {
	return b.binormals
}

// HalfWidth returns the half-width of the last offset computation.
func (b *Builder) HalfWidth() float32 {
	return b.halfWidth
}

// TrackVertices returns the triangle-strip vertex stream.
func (b *Builder) TrackVertices() []Vertex {
	return b.vertices
}

// Build runs the whole pipeline: resample to numSamples, offset by halfWidth,
// and build the mesh.
func (b *Builder) Build(numSamples int, halfWidth float32) error {
	if err := b.UniformlySampleControlPoints(numSamples); err != nil {
		return fmt.Errorf("resample: %w", err)
	}
	if err := b.ComputeOffsetCurves(halfWidth); err != nil {
		return fmt.Errorf("offset curves: %w", err)
	}
	if err := b.BuildTrackMesh(); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	return nil
}
