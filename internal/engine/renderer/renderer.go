// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/splinetrack/internal/engine/lighting"
	"github.com/Faultbox/splinetrack/internal/engine/shader"
	"github.com/Faultbox/splinetrack/internal/engine/texture"
	"github.com/Faultbox/splinetrack/internal/logger"
	"github.com/Faultbox/splinetrack/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	Sun    lighting.Sun
}

// Surface describes how a lit mesh is shaded.
type Surface struct {
	Model     math.Mat4
	Color     [3]float32
	Texture   *texture.Texture // nil draws flat colour
	TexRepeat float32          // texture repeats along v
}

// Renderer owns GL state and the built-in shader programs.
type Renderer struct {
	config Config
	log    *zap.Logger

	LightDir math.Vec3

	trackProgram  uint32
	locMVP        int32
	locModel      int32
	locLightDir   int32
	locColor      int32
	locUseTexture int32
	locTexRepeat  int32
	locTexture    int32

	lineProgram  uint32
	locLineMVP   int32
	locPointSize int32
	locTint      int32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		LightDir: cfg.Sun.LightDir(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.trackProgram, err = shader.LoadProgram(shader.Files, shader.TrackProgram...); err != nil {
		return nil, fmt.Errorf("track shader: %w", err)
	}
	r.locMVP = shader.MustGetUniform(r.trackProgram, "uMVP")
	r.locModel = shader.GetUniform(r.trackProgram, "uModel")
	r.locLightDir = shader.GetUniform(r.trackProgram, "uLightDir")
	r.locColor = shader.GetUniform(r.trackProgram, "uColor")
	r.locUseTexture = shader.GetUniform(r.trackProgram, "uUseTexture")
	r.locTexRepeat = shader.GetUniform(r.trackProgram, "uTexRepeat")
	r.locTexture = shader.GetUniform(r.trackProgram, "uTexture")

	if r.lineProgram, err = shader.LoadProgram(shader.Files, shader.LineProgram...); err != nil {
		gl.DeleteProgram(r.trackProgram)
		return nil, fmt.Errorf("line shader: %w", err)
	}
	r.locLineMVP = shader.MustGetUniform(r.lineProgram, "uMVP")
	r.locPointSize = shader.GetUniform(r.lineProgram, "uPointSize")
	r.locTint = shader.GetUniform(r.lineProgram, "uTint")

	r.log.Debug("shader programs created",
		zap.Uint32("track", r.trackProgram),
		zap.Uint32("line", r.lineProgram),
	)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.trackProgram != 0 {
		gl.DeleteProgram(r.trackProgram)
		r.trackProgram = 0
	}
	if r.lineProgram != 0 {
		gl.DeleteProgram(r.lineProgram)
		r.lineProgram = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetWireframe toggles polygon line mode.
func (r *Renderer) SetWireframe(on bool) {
	mode := uint32(gl.FILL)
	if on {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
}

// UseSurface binds the lit mesh program for the next draws.
func (r *Renderer) UseSurface(viewProj math.Mat4, s Surface) {
	mvp := viewProj.Mul(s.Model)
	gl.UseProgram(r.trackProgram)
	gl.UniformMatrix4fv(r.locMVP, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.locModel, 1, false, s.Model.Ptr())
	gl.Uniform3f(r.locLightDir, r.LightDir.X, r.LightDir.Y, r.LightDir.Z)
	gl.Uniform3f(r.locColor, s.Color[0], s.Color[1], s.Color[2])

	if s.Texture != nil {
		s.Texture.Bind(0)
		gl.Uniform1i(r.locTexture, 0)
		gl.Uniform1i(r.locUseTexture, 1)
		gl.Uniform1f(r.locTexRepeat, s.TexRepeat)
	} else {
		gl.Uniform1i(r.locUseTexture, 0)
	}
}

// UseLines binds the coloured line program for the next draws.
func (r *Renderer) UseLines(viewProj math.Mat4, tint [3]float32, pointSize float32) {
	gl.UseProgram(r.lineProgram)
	gl.UniformMatrix4fv(r.locLineMVP, 1, false, viewProj.Ptr())
	gl.Uniform1f(r.locPointSize, pointSize)
	gl.Uniform3f(r.locTint, tint[0], tint[1], tint[2])
}

// ReadPixels returns the back buffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
