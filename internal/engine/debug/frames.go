package debug

import (
	"github.com/Faultbox/splinetrack/pkg/math"
)

// LineVertex is a coloured line endpoint, laid out as [x, y, z, r, g, b].
type LineVertex struct {
	X, Y, Z float32
	R, G, B float32
}

// Axis colours for frame lines.
var (
	TangentColor  = [3]float32{1, 0.2, 0.2}
	NormalColor   = [3]float32{0.2, 1, 0.2}
	BinormalColor = [3]float32{0.3, 0.5, 1}
)

// FrameLines draws the tangent, lateral normal and binormal at every step-th
// centreline point as three lines of the given length.
//
// The lateral normal is recovered as T x B, which equals the offset normal
// because B = N x T with N perpendicular to T. Returns nil when the slices
// disagree in length or the loop has fewer than two points.
func FrameLines(centreline, binormals []math.Vec3, step int, length float32) []LineVertex {
	n := len(centreline)
	if n < 2 || len(binormals) != n {
		return nil
	}
	if step < 1 {
		step = 1
	}

	lines := make([]LineVertex, 0, 6*((n+step-1)/step))
	for i := 0; i < n; i += step {
		p := centreline[i]
		t := centreline[(i+1)%n].Sub(p).Normalize()
		b := binormals[i]
		lines = appendLine(lines, p, t.Scale(length), TangentColor)
		lines = appendLine(lines, p, t.Cross(b).Scale(length), NormalColor)
		lines = appendLine(lines, p, b.Scale(length), BinormalColor)
	}
	return lines
}

func appendLine(lines []LineVertex, from, dir math.Vec3, c [3]float32) []LineVertex {
	to := from.Add(dir)
	return append(lines,
		LineVertex{from.X, from.Y, from.Z, c[0], c[1], c[2]},
		LineVertex{to.X, to.Y, to.Z, c[0], c[1], c[2]},
	)
}

// Flatten packs line vertices into interleaved floats for upload.
func Flatten(lines []LineVertex) []float32 {
	out := make([]float32, 0, len(lines)*6)
	for _, v := range lines {
		out = append(out, v.X, v.Y, v.Z, v.R, v.G, v.B)
	}
	return out
}
