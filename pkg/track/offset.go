package track

import (
	"fmt"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// degenerateEpsilon is the smallest |T x up| treated as a usable lateral direction.
const degenerateEpsilon = 1e-6

// fallbackNormal is used when no point on the loop has a well-defined normal.
var fallbackNormal = math.Vec3{X: 1}

// lateral returns normalize(T x worldUp), and false when the tangent is zero
// or parallel to world up.
func lateral(tangent math.Vec3) (math.Vec3, bool) {
	n := tangent.Cross(math.Up)
	if n.Length() < degenerateEpsilon {
		return math.Vec3{}, false
	}
	return n.Normalize(), true
}

// binormal returns normalize(N x T), or world up when that is undefined.
func binormal(normal, tangent math.Vec3) math.Vec3 {
	b := normal.Cross(tangent)
	if b.Length() < degenerateEpsilon {
		return math.Up
	}
	return b.Normalize()
}

// ComputeOffsetCurves derives the left and right track edges, each displaced
// halfWidth from the centreline along the lateral normal N = T x worldUp.
//
// Where the tangent is vertical or zero the normal is undefined; such points
// reuse the nearest preceding well-defined normal around the loop. A loop
// with no well-defined normal at all uses +X.
func (b *Builder) ComputeOffsetCurves(halfWidth float32) error {
	if err := b.require(StageCentrelineBuilt); err != nil {
		return err
	}
	if halfWidth < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeWidth, halfWidth)
	}

	b.left, b.right, b.binormals = offsetCurves(b.centreline, halfWidth)
	b.halfWidth = halfWidth
	b.vertices = nil
	b.stage = StageOffsetCurvesBuilt
	return nil
}

// offsetCurves returns the left and right edges and binormals of a closed centreline.
func offsetCurves(centreline []math.Vec3, halfWidth float32) (left, right, binormals []math.Vec3) {
	n := len(centreline)
	tangents := make([]math.Vec3, n)
	normals := make([]math.Vec3, n)
	defined := make([]bool, n)
	first := -1
	for i := range centreline {
		tangents[i] = centreline[(i+1)%n].Sub(centreline[i]).Normalize()
		normals[i], defined[i] = lateral(tangents[i])
		if defined[i] && first < 0 {
			first = i
		}
	}

	// Carry the last good normal forward, starting at the first good one so
	// points before it pick up the normal from the end of the loop.
	if first < 0 {
		for i := range normals {
			normals[i] = fallbackNormal
		}
	} else {
		last := normals[first]
		for k := 0; k < n; k++ {
			i := (first + k) % n
			if defined[i] {
				last = normals[i]
			} else {
				normals[i] = last
			}
		}
	}

	left = make([]math.Vec3, n)
	right = make([]math.Vec3, n)
	binormals = make([]math.Vec3, n)
	for i, p := range centreline {
		offset := normals[i].Scale(halfWidth)
		left[i] = p.Sub(offset)
		right[i] = p.Add(offset)
		binormals[i] = binormal(normals[i], tangents[i])
	}
	return left, right, binormals
}
