// Package primitives generates simple meshes in the track vertex layout.
package primitives

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

// Sphere returns a unit sphere as a triangle list, six vertices per
// slice/stack cell. Normals equal positions. It returns nil for fewer than
// 3 slices or 2 stacks.
func Sphere(slices, stacks int) []track.Vertex {
	if slices < 3 || stacks < 2 {
		return nil
	}

	vertices := make([]track.Vertex, 0, slices*stacks*6)
	for stack := 0; stack < stacks; stack++ {
		phi := float32(stack) / float32(stacks) * math32.Pi
		nextPhi := float32(stack+1) / float32(stacks) * math32.Pi

		for slice := 0; slice < slices; slice++ {
			theta := float32(slice) / float32(slices) * 2 * math32.Pi
			nextTheta := float32((slice+1)%slices) / float32(slices) * 2 * math32.Pi

			v1 := spherePoint(theta, phi)
			v2 := spherePoint(nextTheta, phi)
			v3 := spherePoint(theta, nextPhi)
			v4 := spherePoint(nextTheta, nextPhi)

			u0 := float32(slice) / float32(slices)
			u1 := float32(slice+1) / float32(slices)
			w0 := float32(stack) / float32(stacks)
			w1 := float32(stack+1) / float32(stacks)
			t1 := math.Vec2{X: u0, Y: w0}
			t2 := math.Vec2{X: u1, Y: w0}
			t3 := math.Vec2{X: u0, Y: w1}
			t4 := math.Vec2{X: u1, Y: w1}

			vertices = append(vertices,
				vertex(v1, t1), vertex(v4, t4), vertex(v2, t2),
				vertex(v1, t1), vertex(v3, t3), vertex(v4, t4),
			)
		}
	}
	return vertices
}

func spherePoint(theta, phi float32) math.Vec3 {
	return math.Vec3{
		X: math32.Cos(theta) * math32.Sin(phi),
		Y: math32.Sin(theta) * math32.Sin(phi),
		Z: math32.Cos(phi),
	}
}

func vertex(p math.Vec3, uv math.Vec2) track.Vertex {
	return track.Vertex{Position: p.Array(), TexCoord: uv.Array(), Normal: p.Array()}
}
