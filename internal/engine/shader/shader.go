// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Stage is a programmable pipeline stage.
type Stage int

const (
	Vertex Stage = iota
	Fragment
	Geometry
	TessControl
	TessEvaluation
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	case Geometry:
		return "geometry"
	case TessControl:
		return "tess-control"
	default:
		return "tess-evaluation"
	}
}

func (s Stage) glType() uint32 {
	switch s {
	case Vertex:
		return gl.VERTEX_SHADER
	case Fragment:
		return gl.FRAGMENT_SHADER
	case Geometry:
		return gl.GEOMETRY_SHADER
	case TessControl:
		return gl.TESS_CONTROL_SHADER
	default:
		return gl.TESS_EVALUATION_SHADER
	}
}

// StageFromPath picks the stage from a file extension: .vert, .frag,
// .geom, .tcnl; anything else is a tessellation evaluation shader.
func StageFromPath(name string) Stage {
	switch strings.ToLower(path.Ext(name)) {
	case ".vert":
		return Vertex
	case ".frag":
		return Fragment
	case ".geom":
		return Geometry
	case ".tcnl":
		return TessControl
	default:
		return TessEvaluation
	}
}

// Source is one shader stage's GLSL text.
type Source struct {
	Name  string
	Stage Stage
	Code  string
}

// ReadSources loads the named files from fsys, deriving each stage from its extension.
func ReadSources(fsys fs.FS, names ...string) ([]Source, error) {
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading shader %s: %w", name, err)
		}
		sources = append(sources, Source{Name: name, Stage: StageFromPath(name), Code: string(data)})
	}
	return sources, nil
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	return Link(
		Source{Name: "vertex", Stage: Vertex, Code: vertexSrc},
		Source{Name: "fragment", Stage: Fragment, Code: fragmentSrc},
	)
}

// LoadProgram reads, compiles and links the named files from fsys.
func LoadProgram(fsys fs.FS, names ...string) (uint32, error) {
	sources, err := ReadSources(fsys, names...)
	if err != nil {
		return 0, err
	}
	return Link(sources...)
}

// Link compiles every source and links them into a program.
func Link(sources ...Source) (uint32, error) {
	shaders := make([]uint32, 0, len(sources))
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, src := range sources {
		s, err := compileShader(src)
		if err != nil {
			return 0, err
		}
		shaders = append(shaders, s)
	}

	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(string(log), "\x00"))
	}

	return program, nil
}

// compileShader compiles a single shader stage.
func compileShader(src Source) (uint32, error) {
	shader := gl.CreateShader(src.Stage.glType())
	csource, free := gl.Strs(src.Code + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s %s shader: %s", src.Name, src.Stage, strings.TrimRight(string(log), "\x00"))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// MustGetUniform returns the uniform location for the given name.
// Panics if the uniform is not found (useful for required uniforms).
func MustGetUniform(program uint32, name string) int32 {
	loc := GetUniform(program, name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in program %d", name, program))
	}
	return loc
}
