package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/splinetrack/internal/engine/debug"
	"github.com/Faultbox/splinetrack/internal/engine/gpu"
	"github.com/Faultbox/splinetrack/internal/logger"
	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

// Line colours for the wireframe views.
var (
	CentrelineColor = [3]float32{1, 1, 1}
	LeftEdgeColor   = [3]float32{1, 0.6, 0.1}
	RightEdgeColor  = [3]float32{0.1, 0.8, 1}
	BoundsColor     = [3]float32{0.4, 0.9, 0.4}
)

// FrameLineLength is the length of each axis drawn by RenderFrames.
const FrameLineLength = 3

// TrackRenderer uploads the geometry held by a track.Builder and draws it.
//
// Create* calls fail while the builder has not reached the matching stage.
// Render* calls panic when the matching Create* has not succeeded, since that
// is a programming error in the caller's frame setup. Shader state is the
// caller's job: lines use the position/colour layout, the mesh uses
// position/texcoord/normal.
type TrackRenderer struct {
	dev     gpu.Device
	builder *track.Builder
	log     *zap.Logger

	centreline gpu.Buffer
	left       gpu.Buffer
	right      gpu.Buffer
	mesh       gpu.Buffer
	frames     gpu.Buffer
	frameStep  int
	bounds     gpu.Buffer
}

// NewTrackRenderer creates a renderer for b's geometry on dev.
func NewTrackRenderer(dev gpu.Device, b *track.Builder) *TrackRenderer {
	return &TrackRenderer{
		dev:     dev,
		builder: b,
		log:     logger.Named("track-renderer"),
	}
}

// CreateCentreline uploads the resampled centreline.
func (r *TrackRenderer) CreateCentreline() error {
	if err := r.need(track.StageCentrelineBuilt, "centreline"); err != nil {
		return err
	}
	buf, err := r.upload(lineVertices(r.builder.Centreline(), CentrelineColor))
	if err != nil {
		return fmt.Errorf("centreline: %w", err)
	}
	release(&r.centreline)
	r.centreline = buf

	r.log.Debug("centreline uploaded",
		zap.Int32("vertices", buf.Count()),
		zap.Float32("total_length", r.builder.TotalLength()),
	)
	return nil
}

// RenderCentreline draws the centreline as points joined by a closed loop.
func (r *TrackRenderer) RenderCentreline() {
	if r.centreline == nil {
		panic("renderer: RenderCentreline called before CreateCentreline")
	}
	n := r.centreline.Count()
	r.centreline.Draw(gpu.Points, 0, n)
	r.centreline.Draw(gpu.LineLoop, 0, n)
}

// CreateOffsetCurves uploads the left and right track edges.
func (r *TrackRenderer) CreateOffsetCurves() error {
	if err := r.need(track.StageOffsetCurvesBuilt, "offset curves"); err != nil {
		return err
	}
	left, err := r.upload(lineVertices(r.builder.LeftOffsetCurve(), LeftEdgeColor))
	if err != nil {
		return fmt.Errorf("left offset curve: %w", err)
	}
	right, err := r.upload(lineVertices(r.builder.RightOffsetCurve(), RightEdgeColor))
	if err != nil {
		left.Release()
		return fmt.Errorf("right offset curve: %w", err)
	}
	release(&r.left)
	release(&r.right)
	r.left, r.right = left, right

	r.log.Debug("offset curves uploaded",
		zap.Int32("vertices", left.Count()),
		zap.Float32("half_width", r.builder.HalfWidth()),
	)
	return nil
}

// RenderOffsetCurves draws both edges as closed loops.
func (r *TrackRenderer) RenderOffsetCurves() {
	if r.left == nil || r.right == nil {
		panic("renderer: RenderOffsetCurves called before CreateOffsetCurves")
	}
	r.left.Draw(gpu.LineLoop, 0, r.left.Count())
	r.right.Draw(gpu.LineLoop, 0, r.right.Count())
}

// CreateTrack uploads the track surface mesh.
func (r *TrackRenderer) CreateTrack() error {
	if err := r.need(track.StageTrackMeshBuilt, "track mesh"); err != nil {
		return err
	}
	buf, err := r.dev.NewBuffer(gpu.LayoutPositionTexNormal, track.Pack(r.builder.TrackVertices()))
	if err != nil {
		return fmt.Errorf("track mesh: %w", err)
	}
	release(&r.mesh)
	r.mesh = buf

	r.log.Info("track mesh uploaded",
		zap.Int32("vertices", buf.Count()),
		zap.Float32("half_width", r.builder.HalfWidth()),
		zap.Float32("total_length", r.builder.TotalLength()),
	)
	return nil
}

// RenderTrack draws the surface as a single triangle strip.
func (r *TrackRenderer) RenderTrack() {
	if r.mesh == nil {
		panic("renderer: RenderTrack called before CreateTrack")
	}
	r.mesh.Draw(gpu.TriangleStrip, 0, r.mesh.Count())
}

// CreateFrames uploads tangent, normal and binormal lines at every step-th
// centreline point.
func (r *TrackRenderer) CreateFrames(step int) error {
	if err := r.need(track.StageOffsetCurvesBuilt, "frames"); err != nil {
		return err
	}
	lines := debug.FrameLines(r.builder.Centreline(), r.builder.Binormals(), step, FrameLineLength)
	buf, err := r.dev.NewBuffer(gpu.LayoutPositionColor, debug.Flatten(lines))
	if err != nil {
		return fmt.Errorf("frames: %w", err)
	}
	release(&r.frames)
	r.frames = buf
	r.frameStep = step
	return nil
}

// RenderFrames draws the frame lines.
func (r *TrackRenderer) RenderFrames() {
	if r.frames == nil {
		panic("renderer: RenderFrames called before CreateFrames")
	}
	r.frames.Draw(gpu.Lines, 0, r.frames.Count())
}

// HasFrames reports whether frame lines are uploaded.
func (r *TrackRenderer) HasFrames() bool {
	return r.frames != nil
}

// CreateBounds uploads the bounding box of the track, the centreline box
// grown by the half-width.
func (r *TrackRenderer) CreateBounds() error {
	if err := r.need(track.StageOffsetCurvesBuilt, "bounds"); err != nil {
		return err
	}
	lo, hi, ok := debug.Bounds(r.builder.Centreline(), r.builder.HalfWidth())
	if !ok {
		return fmt.Errorf("bounds: %w", gpu.ErrEmptyBuffer)
	}
	buf, err := r.dev.NewBuffer(gpu.LayoutPositionColor, debug.Flatten(debug.BoxLines(lo, hi, BoundsColor)))
	if err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	release(&r.bounds)
	r.bounds = buf
	return nil
}

// RenderBounds draws the bounding box edges.
func (r *TrackRenderer) RenderBounds() {
	if r.bounds == nil {
		panic("renderer: RenderBounds called before CreateBounds")
	}
	r.bounds.Draw(gpu.Lines, 0, r.bounds.Count())
}

// HasBounds reports whether the bounding box is uploaded.
func (r *TrackRenderer) HasBounds() bool {
	return r.bounds != nil
}

// Release frees every uploaded buffer. Render* calls panic until the
// matching Create* runs again.
func (r *TrackRenderer) Release() {
	release(&r.centreline)
	release(&r.left)
	release(&r.right)
	release(&r.mesh)
	release(&r.frames)
	release(&r.bounds)
}

// Rebuild recomputes the offset curves and mesh at a new half-width and
// uploads everything again. Frame lines and bounds are re-created only if
// they existed. The new buffers are all uploaded before the old ones are
// released; on failure the builder returns to its previous width and the
// old buffers stay drawable.
func (r *TrackRenderer) Rebuild(halfWidth float32) error {
	prev := r.builder.HalfWidth()
	if err := r.rebuildGeometry(halfWidth); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	next := &TrackRenderer{dev: r.dev, builder: r.builder, log: r.log}
	err := next.CreateAll()
	if err == nil && r.frames != nil {
		err = next.CreateFrames(r.frameStep)
	}
	if err == nil && r.bounds != nil {
		err = next.CreateBounds()
	}
	if err != nil {
		next.Release()
		if restoreErr := r.rebuildGeometry(prev); restoreErr != nil {
			r.log.Error("restoring track geometry failed", zap.Error(restoreErr))
		}
		return fmt.Errorf("rebuild: %w", err)
	}

	r.Release()
	r.centreline, r.left, r.right, r.mesh = next.centreline, next.left, next.right, next.mesh
	r.frames, r.bounds = next.frames, next.bounds
	r.frameStep = next.frameStep
	return nil
}

func (r *TrackRenderer) rebuildGeometry(halfWidth float32) error {
	if err := r.builder.ComputeOffsetCurves(halfWidth); err != nil {
		return err
	}
	return r.builder.BuildTrackMesh()
}

// CreateAll uploads centreline, offset curves and mesh.
func (r *TrackRenderer) CreateAll() error {
	if err := r.CreateCentreline(); err != nil {
		return err
	}
	if err := r.CreateOffsetCurves(); err != nil {
		return err
	}
	return r.CreateTrack()
}

func (r *TrackRenderer) need(stage track.Stage, what string) error {
	if got := r.builder.Stage(); got < stage {
		return fmt.Errorf("%s: %w: builder is at %s, need %s", what, track.ErrStage, got, stage)
	}
	return nil
}

func (r *TrackRenderer) upload(data []float32) (gpu.Buffer, error) {
	return r.dev.NewBuffer(gpu.LayoutPositionColor, data)
}

func lineVertices(points []math.Vec3, c [3]float32) []float32 {
	out := make([]float32, 0, len(points)*6)
	for _, p := range points {
		out = append(out, p.X, p.Y, p.Z, c[0], c[1], c[2])
	}
	return out
}

func release(b *gpu.Buffer) {
	if *b != nil {
		(*b).Release()
		*b = nil
	}
}
