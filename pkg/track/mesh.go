package track

// Vertex is one interleaved track vertex: position (3), texcoord (2), normal (3).
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
}

// FloatsPerVertex is the number of float32 values in one packed Vertex.
const FloatsPerVertex = 8

// BuildTrackMesh interleaves left and right edge points into a triangle strip,
// repeating the first pair at the end to close the loop. The strip has
// 2(N+1) vertices; u is 0 on the left edge and 1 on the right, v runs i/N.
func (b *Builder) BuildTrackMesh() error {
	if err := b.require(StageOffsetCurvesBuilt); err != nil {
		return err
	}

	n := len(b.centreline)
	vertices := make([]Vertex, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		k := i % n
		v := float32(i) / float32(n)
		normal := b.binormals[k].Array()
		vertices = append(vertices,
			Vertex{Position: b.left[k].Array(), TexCoord: [2]float32{0, v}, Normal: normal},
			Vertex{Position: b.right[k].Array(), TexCoord: [2]float32{1, v}, Normal: normal},
		)
	}

	b.vertices = vertices
	b.stage = StageTrackMeshBuilt
	return nil
}

// Pack flattens vertices into the float stream uploaded to the GPU.
func Pack(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*FloatsPerVertex)
	for _, v := range vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.TexCoord[0], v.TexCoord[1],
			v.Normal[0], v.Normal[1], v.Normal[2],
		)
	}
	return out
}
