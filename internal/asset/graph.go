package asset

import (
	"configurator/internal/classifier"
	"configurator/internal/paint"
)

// Material is shared by every surface that references it, so recoloring one part
// recolors all parts drawn with the same material.
type Material struct {
	// Index is the material's position in the source file.
	Index    int
	Name     string
	Color    paint.Color
	HasColor bool
	// Painted is set once a recolor wrote Color; until then the renderer keeps the
	// color it loaded itself.
	Painted bool
}

// Surface is one mesh primitive.
type Surface struct {
	name     string
	material *Material
}

// NewSurface returns a surface drawn with m. m may be nil.
func NewSurface(name string, m *Material) *Surface {
	return &Surface{name: name, material: m}
}

func (s *Surface) Name() string { return s.name }

// Material returns the surface's material, nil when the primitive has none.
func (s *Surface) Material() *Material { return s.material }

func (s *Surface) MaterialName() string {
	if s.material == nil {
		return ""
	}
	return s.material.Name
}

func (s *Surface) Color() (paint.Color, bool) {
	if s.material == nil || !s.material.HasColor {
		return paint.Color{}, false
	}
	return s.material.Color, true
}

func (s *Surface) SetColor(c paint.Color) {
	if s.material == nil || !s.material.HasColor {
		return
	}
	s.material.Color = c
	s.material.Painted = true
}

// Node is a named scene graph node.
type Node struct {
	Name  string
	Parts []*Surface
	Kids  []*Node
}

func (n *Node) Surfaces() []classifier.Surface {
	out := make([]classifier.Surface, len(n.Parts))
	for i, p := range n.Parts {
		out[i] = p
	}
	return out
}

func (n *Node) Children() []classifier.Node {
	out := make([]classifier.Node, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

// Graph is a decoded asset: its node tree, material table and bounds in source units.
type Graph struct {
	Root      *Node
	Materials []*Material
	Bounds    Box
}

// SurfaceCount returns the number of surfaces in the tree.
func (g *Graph) SurfaceCount() int {
	if g.Root == nil {
		return 0
	}
	n := 0
	classifier.Walk(g.Root, func(classifier.Surface) { n++ })
	return n
}

// Painted returns the materials a recolor has written, in material order.
func (g *Graph) Painted() []*Material {
	var out []*Material
	for _, m := range g.Materials {
		if m.Painted {
			out = append(out, m)
		}
	}
	return out
}
