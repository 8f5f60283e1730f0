package assets

import (
	"encoding/binary"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/daylight/pkg/math"
)

// glTF component types and primitive modes.
const (
	componentUnsignedByte  = 5121
	componentUnsignedShort = 5123
	componentUnsignedInt   = 5125
	componentFloat         = 5126

	modeTriangles = 4
)

// Geometry is a model flattened into world space as one indexed triangle
// list, ready to upload as interleaved vertex data.
type Geometry struct {
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int { return len(g.Indices) / 3 }

// Interleaved returns position and normal packed as 6 floats per vertex.
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Positions)*2)
	for i := 0; i < len(g.Positions); i += 3 {
		out = append(out, g.Positions[i:i+3]...)
		out = append(out, g.Normals[i:i+3]...)
	}
	return out
}

// Geometry returns the model's triangles in world space.
func (m *Model) Geometry() (*Geometry, error) {
	return m.Document.Geometry(m.Binary)
}

// Geometry flattens every triangle primitive of the default scene, reading
// vertex data from bin (the GLB BIN chunk). Primitives without NORMAL data
// get smooth normals computed from their faces. Non-triangle primitives are
// skipped.
func (d *Document) Geometry(bin []byte) (*Geometry, error) {
	g := &Geometry{}
	var firstErr error

	d.walk(func(prim Primitive, world math.Mat4) {
		if firstErr != nil {
			return
		}
		if prim.Mode != nil && *prim.Mode != modeTriangles {
			return
		}
		if err := g.appendPrimitive(d, bin, prim, world); err != nil {
			firstErr = err
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	if len(g.Indices) == 0 {
		return nil, ErrNoPositions
	}
	return g, nil
}

func (g *Geometry) appendPrimitive(d *Document, bin []byte, prim Primitive, world math.Mat4) error {
	ai, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil
	}
	pos, err := d.readVec3(bin, ai)
	if err != nil {
		return fmt.Errorf("POSITION: %w", err)
	}
	count := len(pos) / 3

	var nrm []float32
	if ni, ok := prim.Attributes["NORMAL"]; ok {
		if nrm, err = d.readVec3(bin, ni); err != nil {
			return fmt.Errorf("NORMAL: %w", err)
		}
		if len(nrm) != len(pos) {
			nrm = nil
		}
	}

	var idx []uint32
	if prim.Indices != nil {
		if idx, err = d.readIndices(bin, *prim.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		idx = make([]uint32, count)
		for i := range idx {
			idx[i] = uint32(i)
		}
	}
	idx = idx[:len(idx)-len(idx)%3]
	for _, i := range idx {
		if int(i) >= count {
			return fmt.Errorf("%w: index %d with %d vertices", ErrBadAccessor, i, count)
		}
	}

	base := uint32(g.VertexCount())
	for i := 0; i < count; i++ {
		p := world.TransformVec3(math.V3(pos[i*3], pos[i*3+1], pos[i*3+2]))
		g.Positions = append(g.Positions, p.X, p.Y, p.Z)
	}
	if nrm != nil {
		for i := 0; i < count; i++ {
			n := world.TransformDir(math.V3(nrm[i*3], nrm[i*3+1], nrm[i*3+2])).Normalize()
			g.Normals = append(g.Normals, n.X, n.Y, n.Z)
		}
	} else {
		g.Normals = append(g.Normals, smoothNormals(g.Positions[base*3:], idx)...)
	}
	for _, i := range idx {
		g.Indices = append(g.Indices, base+i)
	}
	return nil
}

// smoothNormals averages face normals into the vertices they touch.
func smoothNormals(positions []float32, idx []uint32) []float32 {
	vertex := func(i uint32) math.Vec3 {
		return math.V3(positions[i*3], positions[i*3+1], positions[i*3+2])
	}

	acc := make([]math.Vec3, len(positions)/3)
	for t := 0; t+2 < len(idx); t += 3 {
		a, b, c := idx[t], idx[t+1], idx[t+2]
		n := vertex(b).Sub(vertex(a)).Cross(vertex(c).Sub(vertex(a)))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	}

	out := make([]float32, 0, len(positions))
	for _, n := range acc {
		n = n.Normalize()
		if n == (math.Vec3{}) {
			n = math.V3(0, 1, 0)
		}
		out = append(out, n.X, n.Y, n.Z)
	}
	return out
}

// accessorData returns the accessor and the bytes from its first element to
// the end of its buffer view, plus the view's stride.
func (d *Document) accessorData(bin []byte, ai int) (Accessor, []byte, int, error) {
	if ai < 0 || ai >= len(d.Accessors) {
		return Accessor{}, nil, 0, fmt.Errorf("%w: accessor %d", ErrBadAccessor, ai)
	}
	acc := d.Accessors[ai]
	if acc.Count < 0 {
		return acc, nil, 0, fmt.Errorf("%w: accessor %d has count %d", ErrBadAccessor, ai, acc.Count)
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(d.BufferViews) {
		return acc, nil, 0, fmt.Errorf("%w: accessor %d has no buffer view", ErrBadAccessor, ai)
	}
	bv := d.BufferViews[*acc.BufferView]
	if bv.ByteStride < 0 {
		return acc, nil, 0, fmt.Errorf("%w: buffer view %d has stride %d", ErrBadAccessor, *acc.BufferView, bv.ByteStride)
	}
	if bv.Buffer != 0 || (len(d.Buffers) > 0 && d.Buffers[0].URI != "") {
		return acc, nil, 0, ErrExternalBuffer
	}

	start := bv.ByteOffset + acc.ByteOffset
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || acc.ByteOffset < 0 || start > end || end > len(bin) {
		return acc, nil, 0, fmt.Errorf("%w: buffer view %d", ErrTruncatedGLBData, *acc.BufferView)
	}
	return acc, bin[start:end], bv.ByteStride, nil
}

// fitsView reports whether count elements of size bytes, stride apart,
// fit in n bytes. It divides instead of multiplying so a huge count cannot
// overflow past the check.
func fitsView(count, stride, size, n int) bool {
	if count == 0 {
		return true
	}
	if n < size {
		return false
	}
	return count-1 <= (n-size)/stride
}

func (d *Document) readVec3(bin []byte, ai int) ([]float32, error) {
	acc, data, stride, err := d.accessorData(bin, ai)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != componentFloat || acc.Type != "VEC3" {
		return nil, fmt.Errorf("%w: want float VEC3, got %d %s", ErrBadAccessor, acc.ComponentType, acc.Type)
	}
	if stride == 0 {
		stride = 12
	}
	if !fitsView(acc.Count, stride, 12, len(data)) {
		return nil, fmt.Errorf("%w: %d elements overrun buffer view", ErrTruncatedGLBData, acc.Count)
	}

	out := make([]float32, 0, acc.Count*3)
	for i := 0; i < acc.Count; i++ {
		off := i * stride
		for c := 0; c < 3; c++ {
			bits := binary.LittleEndian.Uint32(data[off+c*4:])
			out = append(out, stdmath.Float32frombits(bits))
		}
	}
	return out, nil
}

func (d *Document) readIndices(bin []byte, ai int) ([]uint32, error) {
	acc, data, stride, err := d.accessorData(bin, ai)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("%w: indices must be SCALAR, got %s", ErrBadAccessor, acc.Type)
	}

	var size int
	switch acc.ComponentType {
	case componentUnsignedByte:
		size = 1
	case componentUnsignedShort:
		size = 2
	case componentUnsignedInt:
		size = 4
	default:
		return nil, fmt.Errorf("%w: index component type %d", ErrBadAccessor, acc.ComponentType)
	}
	if stride == 0 {
		stride = size
	}
	if !fitsView(acc.Count, stride, size, len(data)) {
		return nil, fmt.Errorf("%w: %d indices overrun buffer view", ErrTruncatedGLBData, acc.Count)
	}

	out := make([]uint32, acc.Count)
	for i := range out {
		off := i * stride
		switch size {
		case 1:
			out[i] = uint32(data[off])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(data[off:]))
		default:
			out[i] = binary.LittleEndian.Uint32(data[off:])
		}
	}
	return out, nil
}
