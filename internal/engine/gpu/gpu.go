// Package gpu owns vertex buffers on the graphics device.
//
// Renderers talk to the Device and Buffer interfaces so mesh bookkeeping can
// be tested without a GL context; GLDevice is the OpenGL implementation.
package gpu

import "errors"

// Primitive selects how a buffer's vertices are assembled when drawn.
type Primitive int

const (
	Points Primitive = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
)

var primitiveNames = [...]string{"points", "lines", "line-strip", "line-loop", "triangles", "triangle-strip"}

func (p Primitive) String() string {
	if p < 0 || int(p) >= len(primitiveNames) {
		return "unknown"
	}
	return primitiveNames[p]
}

// Attribute is one float vertex attribute.
type Attribute struct {
	Location uint32
	Size     int32 // float components
}

// Layout describes interleaved float vertex data.
type Layout []Attribute

// Stride returns the number of floats per vertex.
func (l Layout) Stride() int32 {
	var n int32
	for _, a := range l {
		n += a.Size
	}
	return n
}

// Standard layouts. Locations match the shaders in the shader package.
var (
	// LayoutPositionTexNormal is position(3), texcoord(2), normal(3): 32 bytes.
	LayoutPositionTexNormal = Layout{{Location: 0, Size: 3}, {Location: 1, Size: 2}, {Location: 2, Size: 3}}
	// LayoutPositionColor is position(3), colour(3): 24 bytes.
	LayoutPositionColor = Layout{{Location: 0, Size: 3}, {Location: 1, Size: 3}}
)

// ErrEmptyBuffer is returned when uploading no vertices.
var ErrEmptyBuffer = errors.New("gpu: empty vertex data")

// Device creates vertex buffers.
type Device interface {
	NewBuffer(layout Layout, data []float32) (Buffer, error)
}

// Buffer is an uploaded vertex buffer.
type Buffer interface {
	// Draw issues a draw call for count vertices starting at first.
	Draw(mode Primitive, first, count int32)
	// Count returns the number of vertices uploaded.
	Count() int32
	// Release frees the device objects. Safe to call more than once.
	Release()
}

// vertexCount validates data against layout and returns the vertex count.
func vertexCount(layout Layout, data []float32) (int32, error) {
	stride := layout.Stride()
	if stride == 0 {
		return 0, errors.New("gpu: layout has no attributes")
	}
	if len(data) == 0 {
		return 0, ErrEmptyBuffer
	}
	if len(data)%int(stride) != 0 {
		return 0, errors.New("gpu: vertex data is not a multiple of the layout stride")
	}
	return int32(len(data) / int(stride)), nil
}
