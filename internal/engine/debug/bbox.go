// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// BoxLineVertexCount is the number of vertices in a box wireframe (12 edges x 2).
const BoxLineVertexCount = 24

// Bounds returns the axis-aligned bounding box of points, grown by padding.
// ok is false for an empty slice.
func Bounds(points []math.Vec3, padding float32) (lo, hi math.Vec3, ok bool) {
	if len(points) == 0 {
		return lo, hi, false
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo = math.Vec3{X: math32.Min(lo.X, p.X), Y: math32.Min(lo.Y, p.Y), Z: math32.Min(lo.Z, p.Z)}
		hi = math.Vec3{X: math32.Max(hi.X, p.X), Y: math32.Max(hi.Y, p.Y), Z: math32.Max(hi.Z, p.Z)}
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	return lo.Sub(pad), hi.Add(pad), true
}

// BoxLines creates line vertices for a wireframe box between lo and hi.
func BoxLines(lo, hi math.Vec3, c [3]float32) []LineVertex {
	corner := func(x, y, z float32) LineVertex {
		return LineVertex{x, y, z, c[0], c[1], c[2]}
	}
	edges := [12][2][3]float32{
		// Bottom face
		{{lo.X, lo.Y, lo.Z}, {hi.X, lo.Y, lo.Z}},
		{{hi.X, lo.Y, lo.Z}, {hi.X, lo.Y, hi.Z}},
		{{hi.X, lo.Y, hi.Z}, {lo.X, lo.Y, hi.Z}},
		{{lo.X, lo.Y, hi.Z}, {lo.X, lo.Y, lo.Z}},
		// Top face
		{{lo.X, hi.Y, lo.Z}, {hi.X, hi.Y, lo.Z}},
		{{hi.X, hi.Y, lo.Z}, {hi.X, hi.Y, hi.Z}},
		{{hi.X, hi.Y, hi.Z}, {lo.X, hi.Y, hi.Z}},
		{{lo.X, hi.Y, hi.Z}, {lo.X, hi.Y, lo.Z}},
		// Verticals
		{{lo.X, lo.Y, lo.Z}, {lo.X, hi.Y, lo.Z}},
		{{hi.X, lo.Y, lo.Z}, {hi.X, hi.Y, lo.Z}},
		{{hi.X, lo.Y, hi.Z}, {hi.X, hi.Y, hi.Z}},
		{{lo.X, lo.Y, hi.Z}, {lo.X, hi.Y, hi.Z}},
	}

	lines := make([]LineVertex, 0, BoxLineVertexCount)
	for _, e := range edges {
		lines = append(lines, corner(e[0][0], e[0][1], e[0][2]), corner(e[1][0], e[1][1], e[1][2]))
	}
	return lines
}
