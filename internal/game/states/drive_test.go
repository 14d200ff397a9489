package states

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/splinetrack/internal/engine/gpu"
	"github.com/Faultbox/splinetrack/internal/engine/input"
	"github.com/Faultbox/splinetrack/internal/engine/renderer"
	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

type fakePainter struct {
	surfaces  []renderer.Surface
	lines     int
	wireframe []bool
}

func (p *fakePainter) UseSurface(_ math.Mat4, s renderer.Surface) { p.surfaces = append(p.surfaces, s) }
func (p *fakePainter) UseLines(math.Mat4, [3]float32, float32)    { p.lines++ }
func (p *fakePainter) SetWireframe(on bool)                       { p.wireframe = append(p.wireframe, on) }

func newDrive(t *testing.T, cfg DriveConfig) (*DriveState, *track.Builder, *gpu.FakeDevice, *fakePainter) {
	t.Helper()
	b := track.NewBuilder()
	require.NoError(t, b.SetControlPoints(track.DefaultControlPoints(), nil))
	require.NoError(t, b.Build(100, 5))

	dev := &gpu.FakeDevice{}
	p := &fakePainter{}
	s := NewDriveState(cfg, b, dev, p, 16.0/9)
	require.NoError(t, s.Enter())
	return s, b, dev, p
}

func keyDown(code sdl.Scancode) input.Event {
	return input.Event{Type: input.EventKeyDown, Key: code}
}

func TestDriveEnterUploads(t *testing.T) {
	cfg := DefaultDriveConfig()
	cfg.ShowFrames = true
	_, _, dev, _ := newDrive(t, cfg)

	// Centreline, two edges, mesh, frames and the marker.
	assert.Len(t, dev.Live(), 6)
}

func TestDriveAdvancesAndCountsLaps(t *testing.T) {
	cfg := DefaultDriveConfig()
	s, b, _, _ := newDrive(t, cfg)
	total := b.TotalLength()
	var laps []int
	s.OnLap(func(lap int) { laps = append(laps, lap) })

	// Speed 40 for half the loop's duration.
	dt := float64(total / 2 / cfg.Speed)
	require.NoError(t, s.Update(dt))
	assert.InDelta(t, total/2, s.Distance(), 1e-2)
	assert.Equal(t, 0, s.Lap())

	require.NoError(t, s.Update(dt))
	require.NoError(t, s.Update(dt))
	assert.Equal(t, 1, s.Lap())
	assert.InDelta(t, 1.5*total, s.Distance(), 1e-1)
	assert.Equal(t, []int{1}, laps)
}

func TestDriveWidthKeysRebuild(t *testing.T) {
	s, b, dev, _ := newDrive(t, DefaultDriveConfig())

	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_RIGHTBRACKET)))
	assert.Equal(t, float32(6), b.HalfWidth())
	assert.Equal(t, track.StageTrackMeshBuilt, b.Stage())
	assert.Len(t, dev.Live(), 5, "track buffers re-created, marker kept")

	for i := 0; i < 20; i++ {
		require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_LEFTBRACKET)))
	}
	assert.Equal(t, float32(0), b.HalfWidth())
}

func TestDriveCameraToggleAndRender(t *testing.T) {
	s, _, _, p := newDrive(t, DefaultDriveConfig())
	require.NoError(t, s.Update(0.5))

	require.NoError(t, s.Render())
	// Track surface and marker in the orbit view.
	require.Len(t, p.surfaces, 2)
	assert.Equal(t, math.Identity(), p.surfaces[0].Model)
	assert.Equal(t, 1, p.lines)

	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_C)))
	assert.True(t, s.Following())

	p.surfaces = nil
	require.NoError(t, s.Render())
	assert.Len(t, p.surfaces, 1, "marker hidden in the follow view")
}

func TestDriveFramesToggle(t *testing.T) {
	s, _, dev, _ := newDrive(t, DefaultDriveConfig())
	before := len(dev.Live())

	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_F)))
	assert.Len(t, dev.Live(), before+1)
	require.NoError(t, s.Render())

	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_F)))
	require.NoError(t, s.Render())
}

func TestDriveMarkerSitsOnTrack(t *testing.T) {
	cfg := DefaultDriveConfig()
	s, b, _, _ := newDrive(t, cfg)

	loc, ok := b.Sample(0)
	require.True(t, ok)

	model := s.MarkerModel()
	centre := model.TransformVec3(math.Vec3{})
	want := loc.Position.Add(math.Vec3{Y: cfg.MarkerSize})
	assert.True(t, centre.ApproxEqual(want, 1e-3), "centre %v want %v", centre, want)
}

func TestDriveExitReleases(t *testing.T) {
	s, _, dev, _ := newDrive(t, DefaultDriveConfig())
	require.NoError(t, s.Exit())
	assert.Empty(t, dev.Live())
}

func TestDriveResizeUpdatesAspect(t *testing.T) {
	s, _, _, _ := newDrive(t, DefaultDriveConfig())
	require.NoError(t, s.HandleInput(input.Event{Type: input.EventWindowResize, Width: 800, Height: 400}))
	assert.Equal(t, float32(2), s.aspect)
	require.NoError(t, s.HandleInput(input.Event{Type: input.EventWindowResize, Width: 800, Height: 0}))
	assert.Equal(t, float32(2), s.aspect)
}

func TestDriveFramesToggleTwice(t *testing.T) {
	s, _, dev, _ := newDrive(t, DefaultDriveConfig())
	for i := 0; i < 3; i++ {
		require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_F)))
	}
	assert.True(t, s.config.ShowFrames)
	assert.Len(t, dev.Live(), 6, "frames uploaded once")
}

func TestDriveBoundsToggle(t *testing.T) {
	s, _, dev, _ := newDrive(t, DefaultDriveConfig())
	before := len(dev.Live())

	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_B)))
	assert.True(t, s.ShowingBounds())
	require.Len(t, dev.Live(), before+1)
	box := dev.Buffers[len(dev.Buffers)-1]

	require.NoError(t, s.Render())
	assert.Len(t, box.Draws, 1)

	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_B)))
	assert.False(t, s.ShowingBounds())
	require.NoError(t, s.Render())
	assert.Len(t, box.Draws, 1, "hidden box is not drawn")

	// Widening the track re-uploads the box with the new extent.
	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_B)))
	require.NoError(t, s.HandleInput(keyDown(sdl.SCANCODE_RIGHTBRACKET)))
	assert.True(t, box.Released)
	assert.Len(t, dev.Live(), before+1)
}

func TestDriveEnterWithBounds(t *testing.T) {
	cfg := DefaultDriveConfig()
	cfg.ShowBounds = true
	s, _, dev, _ := newDrive(t, cfg)

	// Centreline, two edges, mesh, bounds and the marker.
	assert.Len(t, dev.Live(), 6)
	assert.True(t, s.ShowingBounds())
}
