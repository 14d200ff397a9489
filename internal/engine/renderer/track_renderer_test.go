package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/splinetrack/internal/engine/debug"
	"github.com/Faultbox/splinetrack/internal/engine/gpu"
	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

func builtTrack(t *testing.T, samples int, halfWidth float32) *track.Builder {
	t.Helper()
	b := track.NewBuilder()
	require.NoError(t, b.SetControlPoints(track.DefaultControlPoints(), nil))
	require.NoError(t, b.Build(samples, halfWidth))
	return b
}

func TestCreateBeforeStageFails(t *testing.T) {
	dev := &gpu.FakeDevice{}
	b := track.NewBuilder()
	r := NewTrackRenderer(dev, b)

	assert.ErrorIs(t, r.CreateCentreline(), track.ErrStage)

	require.NoError(t, b.SetControlPoints(track.DefaultControlPoints(), nil))
	require.NoError(t, b.UniformlySampleControlPoints(32))
	assert.NoError(t, r.CreateCentreline())
	assert.ErrorIs(t, r.CreateOffsetCurves(), track.ErrStage)
	assert.ErrorIs(t, r.CreateTrack(), track.ErrStage)
	assert.ErrorIs(t, r.CreateFrames(4), track.ErrStage)

	require.NoError(t, b.ComputeOffsetCurves(2))
	assert.NoError(t, r.CreateOffsetCurves())
	assert.ErrorIs(t, r.CreateTrack(), track.ErrStage)
}

func TestRenderBeforeCreatePanics(t *testing.T) {
	r := NewTrackRenderer(&gpu.FakeDevice{}, builtTrack(t, 16, 1))

	assert.Panics(t, r.RenderCentreline)
	assert.Panics(t, r.RenderOffsetCurves)
	assert.Panics(t, r.RenderTrack)
	assert.Panics(t, r.RenderFrames)
	assert.Panics(t, r.RenderBounds)
}

func TestCreateAndRender(t *testing.T) {
	const samples = 50
	dev := &gpu.FakeDevice{}
	b := builtTrack(t, samples, 5)
	r := NewTrackRenderer(dev, b)

	require.NoError(t, r.CreateAll())
	require.Len(t, dev.Buffers, 4)
	centreline, left, right, mesh := dev.Buffers[0], dev.Buffers[1], dev.Buffers[2], dev.Buffers[3]

	assert.Equal(t, gpu.LayoutPositionColor, centreline.Layout)
	assert.Equal(t, int32(samples), centreline.Count())
	assert.Equal(t, int32(samples), left.Count())
	assert.Equal(t, int32(samples), right.Count())
	assert.Equal(t, gpu.LayoutPositionTexNormal, mesh.Layout)
	assert.Equal(t, int32(2*(samples+1)), mesh.Count())

	// First centreline vertex carries the sample position and line colour.
	p := b.Centreline()[0]
	assert.Equal(t, []float32{p.X, p.Y, p.Z, 1, 1, 1}, centreline.Data[:6])
	assert.Equal(t, track.Pack(b.TrackVertices()), mesh.Data)

	r.RenderCentreline()
	r.RenderOffsetCurves()
	r.RenderTrack()

	assert.Equal(t, []gpu.DrawCall{
		{Mode: gpu.Points, First: 0, Count: samples},
		{Mode: gpu.LineLoop, First: 0, Count: samples},
	}, centreline.Draws)
	assert.Equal(t, []gpu.DrawCall{{Mode: gpu.LineLoop, First: 0, Count: samples}}, left.Draws)
	assert.Equal(t, []gpu.DrawCall{{Mode: gpu.LineLoop, First: 0, Count: samples}}, right.Draws)
	assert.Equal(t, []gpu.DrawCall{{Mode: gpu.TriangleStrip, First: 0, Count: 2 * (samples + 1)}}, mesh.Draws)
}

func TestCreateReplacesPreviousBuffer(t *testing.T) {
	dev := &gpu.FakeDevice{}
	r := NewTrackRenderer(dev, builtTrack(t, 16, 1))

	require.NoError(t, r.CreateTrack())
	require.NoError(t, r.CreateTrack())
	require.Len(t, dev.Buffers, 2)
	assert.True(t, dev.Buffers[0].Released)
	assert.Len(t, dev.Live(), 1)
}

func TestFrames(t *testing.T) {
	dev := &gpu.FakeDevice{}
	r := NewTrackRenderer(dev, builtTrack(t, 40, 2))

	assert.False(t, r.HasFrames())
	require.NoError(t, r.CreateFrames(10))
	assert.True(t, r.HasFrames())

	frames := dev.Buffers[0]
	assert.Equal(t, gpu.LayoutPositionColor, frames.Layout)
	// 4 frames, 3 lines each, 2 vertices per line.
	assert.Equal(t, int32(24), frames.Count())

	r.RenderFrames()
	assert.Equal(t, []gpu.DrawCall{{Mode: gpu.Lines, First: 0, Count: 24}}, frames.Draws)
}

func TestReleaseIsTotal(t *testing.T) {
	dev := &gpu.FakeDevice{}
	r := NewTrackRenderer(dev, builtTrack(t, 16, 1))
	require.NoError(t, r.CreateAll())
	require.NoError(t, r.CreateFrames(4))

	r.Release()
	assert.Empty(t, dev.Live())
	assert.Panics(t, r.RenderTrack)

	r.Release()
	assert.Empty(t, dev.Live())
}

func TestRebuild(t *testing.T) {
	dev := &gpu.FakeDevice{}
	b := builtTrack(t, 24, 1)
	r := NewTrackRenderer(dev, b)
	require.NoError(t, r.CreateAll())
	require.NoError(t, r.CreateFrames(6))

	require.NoError(t, r.Rebuild(4))
	assert.Equal(t, float32(4), b.HalfWidth())
	assert.Equal(t, track.StageTrackMeshBuilt, b.Stage())

	live := dev.Live()
	require.Len(t, live, 5, "centreline, two edges, mesh and frames")
	c, l := b.Centreline()[0], b.LeftOffsetCurve()[0]
	assert.InDelta(t, 4, c.Distance(l), 1e-3)

	r.RenderCentreline()
	r.RenderOffsetCurves()
	r.RenderTrack()
	r.RenderFrames()
}

func TestRebuildRejectsNegativeWidth(t *testing.T) {
	dev := &gpu.FakeDevice{}
	b := builtTrack(t, 16, 1)
	r := NewTrackRenderer(dev, b)
	require.NoError(t, r.CreateAll())

	err := r.Rebuild(-1)
	assert.ErrorIs(t, err, track.ErrNegativeWidth)
	assert.Len(t, dev.Live(), 4, "old buffers kept")
	assert.Equal(t, float32(1), b.HalfWidth())
	r.RenderTrack()
}

func TestRebuildUploadFailureKeepsOldBuffers(t *testing.T) {
	boom := errors.New("device lost")
	dev := &gpu.FakeDevice{}
	b := builtTrack(t, 16, 1)
	r := NewTrackRenderer(dev, b)
	require.NoError(t, r.CreateAll())
	require.NoError(t, r.CreateFrames(4))
	require.NoError(t, r.CreateBounds())
	old := dev.Live()
	oldLeft := append([]math.Vec3(nil), b.LeftOffsetCurve()...)

	// Fail on the mesh upload, after centreline and edges succeed.
	dev.Fail, dev.FailAfter = boom, 3
	assert.ErrorIs(t, r.Rebuild(5), boom)

	assert.ElementsMatch(t, old, dev.Live(), "partial uploads released, old ones kept")
	assert.Equal(t, float32(1), b.HalfWidth())
	assert.Equal(t, track.StageTrackMeshBuilt, b.Stage())
	assert.Equal(t, oldLeft, b.LeftOffsetCurve())

	r.RenderCentreline()
	r.RenderOffsetCurves()
	r.RenderTrack()
	r.RenderFrames()
	r.RenderBounds()
}

func TestBounds(t *testing.T) {
	dev := &gpu.FakeDevice{}
	b := builtTrack(t, 32, 3)
	r := NewTrackRenderer(dev, b)

	assert.False(t, r.HasBounds())
	require.NoError(t, r.CreateBounds())
	assert.True(t, r.HasBounds())

	box := dev.Buffers[0]
	assert.Equal(t, gpu.LayoutPositionColor, box.Layout)
	assert.Equal(t, int32(debug.BoxLineVertexCount), box.Count())

	// Every corner lies half-width outside the centreline extent.
	lo, hi, ok := debug.Bounds(b.Centreline(), 0)
	require.True(t, ok)
	for i := 0; i < len(box.Data); i += 6 {
		x, y := box.Data[i], box.Data[i+1]
		assert.True(t, x == lo.X-3 || x == hi.X+3, "x=%v", x)
		assert.True(t, y == lo.Y-3 || y == hi.Y+3, "y=%v", y)
	}

	r.RenderBounds()
	assert.Equal(t, []gpu.DrawCall{{Mode: gpu.Lines, First: 0, Count: debug.BoxLineVertexCount}}, box.Draws)

	require.NoError(t, r.Rebuild(4))
	assert.True(t, r.HasBounds(), "bounds survive a rebuild")
	assert.Len(t, dev.Live(), 5)
}

func TestBoundsBeforeOffsetsFails(t *testing.T) {
	b := track.NewBuilder()
	require.NoError(t, b.SetControlPoints(track.DefaultControlPoints(), nil))
	require.NoError(t, b.UniformlySampleControlPoints(16))
	r := NewTrackRenderer(&gpu.FakeDevice{}, b)
	assert.ErrorIs(t, r.CreateBounds(), track.ErrStage)
}

func TestUploadFailure(t *testing.T) {
	boom := errors.New("device lost")
	dev := &gpu.FakeDevice{}
	r := NewTrackRenderer(dev, builtTrack(t, 16, 1))

	require.NoError(t, r.CreateOffsetCurves())
	dev.Fail = boom
	assert.ErrorIs(t, r.CreateTrack(), boom)
	assert.Panics(t, r.RenderTrack)
	// Earlier uploads survive a failed one.
	r.RenderOffsetCurves()
}
