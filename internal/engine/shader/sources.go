package shader

import "embed"

// Files holds the built-in GLSL sources.
//
//go:embed glsl/*.vert glsl/*.frag
var Files embed.FS

// Built-in programs, as file lists for LoadProgram.
var (
	TrackProgram = []string{"glsl/track.vert", "glsl/track.frag"}
	LineProgram  = []string{"glsl/line.vert", "glsl/line.frag"}
)
