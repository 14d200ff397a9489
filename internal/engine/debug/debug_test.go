package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

func TestFrameLinesOnFlatLoop(t *testing.T) {
	b := track.NewBuilder()
	require.NoError(t, b.SetControlPoints(track.DefaultControlPoints(), nil))
	require.NoError(t, b.Build(64, 5))

	lines := FrameLines(b.Centreline(), b.Binormals(), 8, 2)
	require.Len(t, lines, 8*6)

	for k := 0; k < 8; k++ {
		i := k * 8
		p := b.Centreline()[i]
		base := lines[k*6:]

		tan := math.Vec3{X: base[1].X, Y: base[1].Y, Z: base[1].Z}.Sub(p)
		nrm := math.Vec3{X: base[3].X, Y: base[3].Y, Z: base[3].Z}.Sub(p)
		bin := math.Vec3{X: base[5].X, Y: base[5].Y, Z: base[5].Z}.Sub(p)

		assert.InDelta(t, 2, tan.Length(), 1e-3)
		assert.InDelta(t, 2, nrm.Length(), 1e-3)
		assert.True(t, bin.ApproxEqual(math.Vec3{Y: 2}, 1e-3), "binormal %v", bin)
		assert.InDelta(t, 0, tan.Dot(nrm), 1e-3)

		// The green line points at the right edge.
		right := b.RightOffsetCurve()[i].Sub(p).Normalize()
		assert.True(t, nrm.Normalize().ApproxEqual(right, 1e-3), "normal %v right %v", nrm, right)

		assert.Equal(t, TangentColor, [3]float32{base[0].R, base[0].G, base[0].B})
		assert.Equal(t, BinormalColor, [3]float32{base[4].R, base[4].G, base[4].B})
	}
}

func TestFrameLinesRejectsMismatch(t *testing.T) {
	pts := []math.Vec3{{}, {X: 1}, {X: 1, Z: 1}}
	assert.Nil(t, FrameLines(pts, pts[:2], 1, 1))
	assert.Nil(t, FrameLines(pts[:1], pts[:1], 1, 1))
	assert.Len(t, FrameLines(pts, pts, 0, 1), 3*6)
}

func TestFlatten(t *testing.T) {
	out := Flatten([]LineVertex{{1, 2, 3, 4, 5, 6}, {7, 8, 9, 10, 11, 12}})
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, out)
}

func TestBounds(t *testing.T) {
	_, _, ok := Bounds(nil, 1)
	assert.False(t, ok)

	lo, hi, ok := Bounds(track.DefaultControlPoints(), 1)
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: -101, Y: 4, Z: -101}, lo)
	assert.Equal(t, math.Vec3{X: 101, Y: 6, Z: 101}, hi)
}

func TestBoxLines(t *testing.T) {
	lines := BoxLines(math.Vec3{}, math.Vec3{X: 1, Y: 2, Z: 3}, [3]float32{1, 1, 0})
	require.Len(t, lines, BoxLineVertexCount)

	var perimeter float32
	for i := 0; i < len(lines); i += 2 {
		a := math.Vec3{X: lines[i].X, Y: lines[i].Y, Z: lines[i].Z}
		b := math.Vec3{X: lines[i+1].X, Y: lines[i+1].Y, Z: lines[i+1].Z}
		perimeter += a.Distance(b)
	}
	// Four edges along each axis.
	assert.InDelta(t, 4*(1+2+3), perimeter, 1e-4)
}

func TestCaptureFromPixelsFlipsRows(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(filepath.Join(dir, "shots"), "track")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue in GL order.
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shots", "track_2024-05-01_12-30-00.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
	r, _, _, _ = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "track")
	_, err := sc.CaptureFromPixels(make([]byte, 3), 1, 1)
	assert.Error(t, err)
}
