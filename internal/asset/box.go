package asset

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned bounding box. The zero value is empty.
type Box struct {
	Min, Max mgl32.Vec3
	set      bool
}

// NewBox returns the box spanning the two corners, in any order.
func NewBox(a, b mgl32.Vec3) Box {
	var box Box
	box.Extend(a)
	box.Extend(b)
	return box
}

// Empty reports whether no point has been added.
func (b Box) Empty() bool { return !b.set }

// Extend grows the box to contain p.
func (b *Box) Extend(p mgl32.Vec3) {
	if !b.set {
		b.Min, b.Max, b.set = p, p, true
		return
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}

// Union grows the box to contain o.
func (b *Box) Union(o Box) {
	if o.Empty() {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Size returns the extent along each axis.
func (b Box) Size() mgl32.Vec3 {
	if !b.set {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint.
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// MaxDim is the largest of the three extents.
func (b Box) MaxDim() float32 {
	s := b.Size()
	return math32.Max(s[0], math32.Max(s[1], s[2]))
}

// Transformed returns the box enclosing the eight corners of b under m.
func (b Box) Transformed(m mgl32.Mat4) Box {
	if !b.set {
		return b
	}
	var out Box
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}
