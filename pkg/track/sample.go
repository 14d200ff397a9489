package track

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// Location is the result of sampling the curve at a travel distance.
type Location struct {
	Position math.Vec3
	// Up is the interpolated up vector; valid only when HasUp is set.
	Up    math.Vec3
	HasUp bool
}

// Frame is the orientation of the centreline at a travel distance.
type Frame struct {
	Position math.Vec3
	Tangent  math.Vec3
	Normal   math.Vec3 // lateral, points to the right edge
	Binormal math.Vec3 // track surface normal
}

// Sample maps a travel distance to a point on the closed curve through the
// working control points. Distances wrap around the loop, so d and
// d + k*TotalLength() land on the same point.
//
// It reports false for a negative distance, an empty control polygon, a
// missing arc-length table, or when no segment contains the distance.
func (b *Builder) Sample(d float32) (Location, bool) {
	n := len(b.controlPoints)
	if d < 0 || n == 0 || len(b.lengths) != n+1 {
		return Location{}, false
	}
	total := b.lengths[n]
	if total <= 0 {
		return Location{}, false
	}

	// d >= 0, so the truncated remainder is the floored one.
	wrapped := math32.Mod(d, total)
	if wrapped >= total {
		wrapped = 0
	}

	// First entry past wrapped; its predecessor starts the segment.
	j := sort.Search(n+1, func(i int) bool { return b.lengths[i] > wrapped }) - 1
	if j < 0 || j >= n {
		return Location{}, false
	}
	t := (wrapped - b.lengths[j]) / (b.lengths[j+1] - b.lengths[j])

	i0, i1, i2, i3 := (j-1+n)%n, j, (j+1)%n, (j+2)%n
	loc := Location{
		Position: Interpolate(b.controlPoints[i0], b.controlPoints[i1], b.controlPoints[i2], b.controlPoints[i3], t),
	}
	if len(b.controlUps) == n {
		up := Interpolate(b.controlUps[i0], b.controlUps[i1], b.controlUps[i2], b.controlUps[i3], t)
		loc.Up = up.Normalize()
		loc.HasUp = true
	}
	return loc, true
}

// Frame returns the orientation at distance d, using the point lookahead
// further along the curve for the tangent.
func (b *Builder) Frame(d, lookahead float32) (Frame, bool) {
	if lookahead <= 0 {
		return Frame{}, false
	}
	here, ok := b.Sample(d)
	if !ok {
		return Frame{}, false
	}
	ahead, ok := b.Sample(d + lookahead)
	if !ok {
		return Frame{}, false
	}

	tangent := ahead.Position.Sub(here.Position).Normalize()
	normal, ok := lateral(tangent)
	if !ok {
		normal = fallbackNormal
	}
	return Frame{
		Position: here.Position,
		Tangent:  tangent,
		Normal:   normal,
		Binormal: binormal(normal, tangent),
	}, true
}
