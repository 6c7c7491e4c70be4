package cube

import "github.com/Faultbox/facepaint/internal/face"

// The cube spans [-1, 1] on every axis. Each face has its own four vertices so
// it can carry its own normal and texture coordinates. Faces appear in
// face.ID order.

const (
	vertsPerFace   = 4
	indicesPerFace = 6
	vertexCount    = face.Count * vertsPerFace
	indexCount     = face.Count * indicesPerFace
)

var positions = [vertexCount * 3]float32{
	// Front
	-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1, 1,
	// Back
	-1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1, -1,
	// Top
	-1, 1, -1, -1, 1, 1, 1, 1, 1, 1, 1, -1,
	// Bottom
	-1, -1, -1, 1, -1, -1, 1, -1, 1, -1, -1, 1,
	// Right
	1, -1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1,
	// Left
	-1, -1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1,
}

var faceNormals = [face.Count][3]float32{
	face.Front:  {0, 0, 1},
	face.Back:   {0, 0, -1},
	face.Top:    {0, 1, 0},
	face.Bottom: {0, -1, 0},
	face.Right:  {1, 0, 0},
	face.Left:   {-1, 0, 0},
}

// Texture coordinates keep each drawing upright when its face is seen from outside.
var texCoords = [vertexCount * 2]float32{
	// Front
	0, 1, 1, 1, 1, 0, 0, 0,
	// Back
	1, 1, 1, 0, 0, 0, 0, 1,
	// Top
	0, 0, 0, 1, 1, 1, 1, 0,
	// Bottom
	0, 1, 1, 1, 1, 0, 0, 0,
	// Right
	1, 1, 1, 0, 0, 0, 0, 1,
	// Left
	0, 1, 1, 1, 1, 0, 0, 0,
}

// normals expands faceNormals to one normal per vertex.
func normals() []float32 {
	out := make([]float32, 0, vertexCount*3)
	for _, n := range faceNormals {
		for v := 0; v < vertsPerFace; v++ {
			out = append(out, n[0], n[1], n[2])
		}
	}
	return out
}

// indices returns two triangles per face, fanning from the face's first vertex.
func indices() []uint16 {
	out := make([]uint16, 0, indexCount)
	for f := 0; f < face.Count; f++ {
		base := uint16(f * vertsPerFace)
		out = append(out, base, base+1, base+2, base, base+2, base+3)
	}
	return out
}
