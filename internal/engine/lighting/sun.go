// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/splinetrack/pkg/math"
)

// Sun is a directional light given by compass angles in degrees.
// Azimuth turns around +Y starting at +Z; elevation is measured from the horizon.
type Sun struct {
	Azimuth   float32
	Elevation float32
}

// Direction returns the unit vector pointing from the scene towards the sun.
func (s Sun) Direction() math.Vec3 {
	az := s.Azimuth * math32.Pi / 180
	el := clamp(s.Elevation, -90, 90) * math32.Pi / 180

	return math.Vec3{
		X: math32.Cos(el) * math32.Sin(az),
		Y: math32.Sin(el),
		Z: math32.Cos(el) * math32.Cos(az),
	}
}

// LightDir returns the direction light travels, as the track shader expects.
func (s Sun) LightDir() math.Vec3 {
	return s.Direction().Neg()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
