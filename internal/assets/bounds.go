package assets

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/daylight/pkg/math"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max math.Vec3
}

// emptyBox is inverted so the first Expand sets both corners.
func emptyBox() Box {
	inf := math32.Inf(1)
	return Box{
		Min: math.V3(inf, inf, inf),
		Max: math.V3(-inf, -inf, -inf),
	}
}

// Empty reports whether nothing has been added to the box.
func (b Box) Empty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// Center returns the midpoint of the box.
func (b Box) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent along each axis.
func (b Box) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Expand grows the box to contain p.
func (b *Box) Expand(p math.Vec3) {
	b.Min = math.V3(math32.Min(b.Min.X, p.X), math32.Min(b.Min.Y, p.Y), math32.Min(b.Min.Z, p.Z))
	b.Max = math.V3(math32.Max(b.Max.X, p.X), math32.Max(b.Max.Y, p.Y), math32.Max(b.Max.Z, p.Z))
}

// Bounds computes the world-space bounding box of the default scene: each
// mesh's POSITION min/max box is transformed by its node's world matrix.
func (d *Document) Bounds() (Box, error) {
	box := emptyBox()
	d.walk(func(prim Primitive, world math.Mat4) {
		ai, ok := prim.Attributes["POSITION"]
		if !ok || ai < 0 || ai >= len(d.Accessors) {
			return
		}
		acc := d.Accessors[ai]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			return
		}
		for _, corner := range corners(acc.Min, acc.Max) {
			box.Expand(world.TransformVec3(corner))
		}
	})

	if box.Empty() {
		return Box{}, ErrNoPositions
	}
	return box, nil
}

// walk visits every mesh primitive of the default scene with the world
// matrix of the node that instances it.
func (d *Document) walk(fn func(prim Primitive, world math.Mat4)) {
	var visit func(idx int, parent math.Mat4, depth int)
	visit = func(idx int, parent math.Mat4, depth int) {
		// Malformed files can contain cycles.
		if idx < 0 || idx >= len(d.Nodes) || depth > 64 {
			return
		}
		n := d.Nodes[idx]
		world := parent.Mul(n.localMatrix())

		if n.Mesh != nil && *n.Mesh >= 0 && *n.Mesh < len(d.Meshes) {
			for _, prim := range d.Meshes[*n.Mesh].Primitives {
				fn(prim, world)
			}
		}
		for _, child := range n.Children {
			visit(child, world, depth+1)
		}
	}

	for _, root := range d.rootNodes() {
		visit(root, math.Identity(), 0)
	}
}

// rootNodes returns the default scene's roots, falling back to every node
// that is nobody's child.
func (d *Document) rootNodes() []int {
	if len(d.Scenes) > 0 {
		s := 0
		if d.Scene != nil && *d.Scene >= 0 && *d.Scene < len(d.Scenes) {
			s = *d.Scene
		}
		return d.Scenes[s].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range d.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range d.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (n Node) localMatrix() math.Mat4 {
	if len(n.Matrix) == 16 {
		var m math.Mat4
		copy(m[:], n.Matrix)
		return m
	}

	m := math.Identity()
	if len(n.Translation) == 3 {
		m = math.Translate(n.Translation[0], n.Translation[1], n.Translation[2])
	}
	if len(n.Rotation) == 4 {
		m = m.Mul(rotation(n.Rotation[0], n.Rotation[1], n.Rotation[2], n.Rotation[3]))
	}
	if len(n.Scale) == 3 {
		m = m.Mul(math.Scale(n.Scale[0], n.Scale[1], n.Scale[2]))
	}
	return m
}

// rotation builds a rotation matrix from a unit quaternion (x, y, z, w).
func rotation(x, y, z, w float32) math.Mat4 {
	return math.Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0,
		2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0,
		2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}

func corners(lo, hi []float32) [8]math.Vec3 {
	return [8]math.Vec3{
		math.V3(lo[0], lo[1], lo[2]),
		math.V3(hi[0], lo[1], lo[2]),
		math.V3(lo[0], hi[1], lo[2]),
		math.V3(hi[0], hi[1], lo[2]),
		math.V3(lo[0], lo[1], hi[2]),
		math.V3(hi[0], lo[1], hi[2]),
		math.V3(lo[0], hi[1], hi[2]),
		math.V3(hi[0], hi[1], hi[2]),
	}
}
