package track

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// ComputeLengthsAlongControlPoints rebuilds the cumulative arc-length table
// of the working control points. The table has one entry per point plus a
// final entry closing the loop back to the first point, so its last value is
// the perimeter of the closed polygon.
func (b *Builder) ComputeLengthsAlongControlPoints() error {
	if err := b.require(StageControlPointsSet); err != nil {
		return err
	}
	b.lengths = cumulativeLengths(b.controlPoints)
	return nil
}

// Lengths returns the arc-length table, or nil before it is computed.
func (b *Builder) Lengths() []float32 {
	return b.lengths
}

// TotalLength returns the loop length of the working control points,
// or 0 before the table is computed.
func (b *Builder) TotalLength() float32 {
	if len(b.lengths) == 0 {
		return 0
	}
	return b.lengths[len(b.lengths)-1]
}

// cumulativeLengths returns len(points)+1 running distances around the closed loop.
func cumulativeLengths(points []math.Vec3) []float32 {
	if len(points) == 0 {
		return nil
	}
	lengths := make([]float32, len(points)+1)
	for i := 1; i < len(points); i++ {
		lengths[i] = lengths[i-1] + points[i-1].Distance(points[i])
	}
	last := len(points) - 1
	lengths[len(points)] = lengths[last] + points[last].Distance(points[0])
	return lengths
}

// Perimeter returns the length of the closed polygon through points.
func Perimeter(points []math.Vec3) float32 {
	lengths := cumulativeLengths(points)
	if lengths == nil {
		return 0
	}
	return lengths[len(lengths)-1]
}

// SegmentLengths returns the distance from each point to its successor,
// wrapping the last point back to the first.
func SegmentLengths(points []math.Vec3) []float32 {
	out := make([]float32, len(points))
	for i := range points {
		out[i] = points[i].Distance(points[(i+1)%len(points)])
	}
	return out
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float32) float32 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += float64(v)
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math32.Sqrt(float32(variance))
}
