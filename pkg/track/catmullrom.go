package track

import "github.com/Faultbox/splinetrack/pkg/math"

// Interpolate evaluates the uniform Catmull-Rom cubic through p1 (t=0) and
// p2 (t=1); p0 and p3 only shape the tangents.
//
//	e0, e2, e3 = p0 - p1, p2 - p1, p3 - p1
//	b = 0.5(e2 - e0)
//	c = e0 + 2e2 - 0.5e3
//	d = 0.5(e3 - e0 - 3e2)
//	result = p1 + b*t + c*t*t + d*t*t*t
func Interpolate(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	switch t {
	case 0:
		return p1
	case 1:
		return p2
	}
	return math.Vec3{
		X: cubic(p0.X, p1.X, p2.X, p3.X, t),
		Y: cubic(p0.Y, p1.Y, p2.Y, p3.Y, t),
		Z: cubic(p0.Z, p1.Z, p2.Z, p3.Z, t),
	}
}

// cubic is one component of Interpolate. The coefficients are built from
// offsets relative to p1, so four equal points give an exactly constant curve.
// Every product is converted to float32 explicitly so the compiler cannot fuse
// it into an FMA; results are identical on every architecture.
func cubic(p0, p1, p2, p3, t float32) float32 {
	e0 := p0 - p1
	e2 := p2 - p1
	e3 := p3 - p1

	b := float32(0.5 * (e2 - e0))
	c := float32(float32(e0+float32(2*e2)) - float32(0.5*e3))
	d := float32(0.5 * float32(float32(e3-e0)-float32(3*e2)))

	bt := float32(b * t)
	ctt := float32(float32(c*t) * t)
	dttt := float32(float32(float32(d*t)*t) * t)
	return float32(float32(p1+bt)+ctt) + dttt
}
