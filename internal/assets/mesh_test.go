package assets

import (
	"bytes"
	"encoding/binary"
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleDoc = `{
  "asset": {"version": "2.0"},
  "scenes": [{"nodes": [0]}],
  "nodes": [{"mesh": 0, "translation": [0, 10, 0]}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "buffers": [{"byteLength": 44}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 0, 1]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ]
}`

func triangleBin() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []float32{0, 0, 0, 0, 0, 1, 1, 0, 0})
	binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2})
	return buf.Bytes()
}

func TestGeometryTriangle(t *testing.T) {
	doc, bin, err := ParseGLB(buildGLB(t, triangleDoc, triangleBin()))
	require.NoError(t, err)

	g, err := doc.Geometry(bin)
	require.NoError(t, err)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 1, g.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)

	// Node translation applies.
	assert.Equal(t, []float32{0, 10, 0, 0, 10, 1, 1, 10, 0}, g.Positions)

	// No NORMAL attribute: computed from the face, which points up.
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, g.Normals[i*3], 1e-6)
		assert.InDelta(t, 1, g.Normals[i*3+1], 1e-6)
		assert.InDelta(t, 0, g.Normals[i*3+2], 1e-6)
	}

	inter := g.Interleaved()
	require.Len(t, inter, 18)
	assert.Equal(t, []float32{0, 10, 1, 0, 1, 0}, inter[6:12])
}

func TestGeometryInstancesEachNode(t *testing.T) {
	doc := `{
  "asset": {"version": "2.0"},
  "nodes": [{"mesh": 0}, {"mesh": 0, "translation": [5, 0, 0]}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "bufferViews": [{"buffer": 0, "byteLength": 36}],
  "accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 0, 1]}]
}`
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []float32{0, 0, 0, 0, 0, 1, 1, 0, 0})

	d, bin, err := ParseGLB(buildGLB(t, doc, buf.Bytes()))
	require.NoError(t, err)
	g, err := d.Geometry(bin)
	require.NoError(t, err)
	assert.Equal(t, 6, g.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, g.Indices)
	assert.Equal(t, float32(5), g.Positions[9])
}

func TestGeometryErrors(t *testing.T) {
	doc, bin, err := ParseGLB(buildGLB(t, triangleDoc, triangleBin()))
	require.NoError(t, err)

	_, err = doc.Geometry(bin[:20])
	assert.ErrorIs(t, err, ErrTruncatedGLBData)

	doc.Buffers[0].URI = "mesh.bin"
	_, err = doc.Geometry(bin)
	assert.ErrorIs(t, err, ErrExternalBuffer)
	doc.Buffers[0].URI = ""

	doc.Accessors[1].ComponentType = 5126
	_, err = doc.Geometry(bin)
	assert.ErrorIs(t, err, ErrBadAccessor)
	doc.Accessors[1].ComponentType = 5123

	// Index beyond the vertex count.
	bad := triangleBin()
	binary.LittleEndian.PutUint16(bad[40:], 7)
	_, err = doc.Geometry(bad)
	assert.ErrorIs(t, err, ErrBadAccessor)
}

func TestGeometryRejectsMalformedAccessors(t *testing.T) {
	tests := []struct {
		name string
		edit func(d *Document)
		want error
	}{
		{"negative position count", func(d *Document) { d.Accessors[0].Count = -1 }, ErrBadAccessor},
		{"negative index count", func(d *Document) { d.Accessors[1].Count = -2 }, ErrBadAccessor},
		{"negative stride", func(d *Document) { d.BufferViews[0].ByteStride = -12 }, ErrBadAccessor},
		{"huge position count", func(d *Document) { d.Accessors[0].Count = stdmath.MaxInt / 4 }, ErrTruncatedGLBData},
		{"huge index count", func(d *Document) { d.Accessors[1].Count = stdmath.MaxInt }, ErrTruncatedGLBData},
		{"stride past view", func(d *Document) { d.BufferViews[0].ByteStride = 40 }, ErrTruncatedGLBData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, bin, err := ParseGLB(buildGLB(t, triangleDoc, triangleBin()))
			require.NoError(t, err)
			tt.edit(doc)

			assert.NotPanics(t, func() {
				_, err = doc.Geometry(bin)
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFitsView(t *testing.T) {
	assert.True(t, fitsView(0, 12, 12, 0))
	assert.True(t, fitsView(3, 12, 12, 36))
	assert.False(t, fitsView(4, 12, 12, 36))
	assert.True(t, fitsView(3, 16, 12, 44))
	assert.False(t, fitsView(1, 12, 12, 8))
	assert.False(t, fitsView(stdmath.MaxInt, 12, 12, 36))
}

func TestGeometrySkipsNonTriangles(t *testing.T) {
	doc, bin, err := ParseGLB(buildGLB(t, triangleDoc, triangleBin()))
	require.NoError(t, err)

	lines := 1
	doc.Meshes[0].Primitives[0].Mode = &lines
	_, err = doc.Geometry(bin)
	assert.ErrorIs(t, err, ErrNoPositions)
}
