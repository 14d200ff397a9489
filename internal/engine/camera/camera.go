// Package camera provides the overview and track-riding cameras.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/splinetrack/pkg/math"
	"github.com/Faultbox/splinetrack/pkg/track"
)

// Camera produces a view matrix and an eye position for lighting.
type Camera interface {
	ViewMatrix() math.Mat4
	Position() math.Vec3
}

// Projection holds perspective parameters. FOV is in degrees.
type Projection struct {
	FOV  float32
	Near float32
	Far  float32
}

// Matrix returns the projection matrix for the given aspect ratio.
func (p Projection) Matrix(aspect float32) math.Mat4 {
	return math.Perspective(p.FOV*math32.Pi/180, aspect, p.Near, p.Far)
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
	SpinSpeed       float32 // yaw radians per second applied by Update
}

// NewOrbitCamera creates an orbit camera at the given distance from the origin.
func NewOrbitCamera(distance float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        distance,
		RotationX:       0.6,
		MinDistance:     10,
		MaxDistance:     5000,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		SpinSpeed:       0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinX, cosX := math32.Sincos(c.RotationX)
	sinY, cosY := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cosX * sinY,
		Y: c.Distance * sinX,
		Z: c.Distance * cosX * cosY,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// Update spins the camera slowly around its center.
func (c *OrbitCamera) Update(dt float32) {
	c.RotationY += c.SpinSpeed * dt
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToPoints centers the camera on the bounding box of points and backs
// off far enough to see all of it.
func (c *OrbitCamera) FitToPoints(points []math.Vec3) {
	if len(points) == 0 {
		return
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = math.Vec3{X: math32.Min(lo.X, p.X), Y: math32.Min(lo.Y, p.Y), Z: math32.Min(lo.Z, p.Z)}
		hi = math.Vec3{X: math32.Max(hi.X, p.X), Y: math32.Max(hi.Y, p.Y), Z: math32.Max(hi.Z, p.Z)}
	}
	c.Center = lo.Lerp(hi, 0.5)
	c.Distance = clamp(hi.Sub(lo).Length()*1.2, c.MinDistance, c.MaxDistance)
}

// FollowCamera rides the centreline, looking along the direction of travel.
type FollowCamera struct {
	Height    float32 // offset along the track surface normal
	Lookahead float32 // distance used to derive the travel direction

	frame track.Frame
	valid bool
}

// NewFollowCamera creates a track-riding camera.
func NewFollowCamera(height, lookahead float32) *FollowCamera {
	return &FollowCamera{Height: height, Lookahead: lookahead}
}

// Update moves the camera to the frame at travel distance d. It reports
// false and keeps the previous frame when b cannot be sampled.
func (c *FollowCamera) Update(b *track.Builder, d float32) bool {
	f, ok := b.Frame(d, c.Lookahead)
	if !ok {
		return false
	}
	c.frame = f
	c.valid = true
	return true
}

// Frame returns the last frame the camera was placed on.
func (c *FollowCamera) Frame() (track.Frame, bool) {
	return c.frame, c.valid
}

// Position returns the eye position above the track.
func (c *FollowCamera) Position() math.Vec3 {
	return c.frame.Position.Add(c.frame.Binormal.Scale(c.Height))
}

// ViewMatrix looks along the tangent with the track normal as up.
func (c *FollowCamera) ViewMatrix() math.Mat4 {
	if !c.valid {
		return math.Identity()
	}
	eye := c.Position()
	return math.LookAt(eye, eye.Add(c.frame.Tangent), c.frame.Binormal)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
