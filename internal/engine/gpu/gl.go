package gpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

var glModes = [...]uint32{
	Points:        gl.POINTS,
	Lines:         gl.LINES,
	LineStrip:     gl.LINE_STRIP,
	LineLoop:      gl.LINE_LOOP,
	Triangles:     gl.TRIANGLES,
	TriangleStrip: gl.TRIANGLE_STRIP,
}

// GLDevice creates buffers as VAO + VBO pairs in the current GL context.
type GLDevice struct{}

// NewGLDevice returns a device bound to the current GL context.
func NewGLDevice() *GLDevice {
	return &GLDevice{}
}

// NewBuffer uploads data as a static vertex buffer described by layout.
func (d *GLDevice) NewBuffer(layout Layout, data []float32) (Buffer, error) {
	count, err := vertexCount(layout, data)
	if err != nil {
		return nil, err
	}

	b := &glBuffer{count: count}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := layout.Stride() * 4
	var offset uintptr
	for _, a := range layout {
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(a.Location)
		offset += uintptr(a.Size) * 4
	}

	gl.BindVertexArray(0)
	return b, nil
}

type glBuffer struct {
	vao   uint32
	vbo   uint32
	count int32
}

func (b *glBuffer) Draw(mode Primitive, first, count int32) {
	if b.vao == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(glModes[mode], first, count)
	gl.BindVertexArray(0)
}

func (b *glBuffer) Count() int32 {
	return b.count
}

func (b *glBuffer) Release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	b.count = 0
}
