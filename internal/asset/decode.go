package asset

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"configurator/internal/paint"
)

// DecodeFile reads a .glb or .gltf file (with its external buffers) into a Graph.
func DecodeFile(path string) (*Graph, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return BuildGraph(doc)
}

// BuildGraph converts a glTF document into a Graph. Bounds come from the POSITION accessor
// min/max of every primitive, transformed by the node's world matrix.
func BuildGraph(doc *gltf.Document) (*Graph, error) {
	g := &Graph{Root: &Node{Name: "root"}}
	for i, m := range doc.Materials {
		g.Materials = append(g.Materials, convertMaterial(i, m))
	}

	b := &graphBuilder{doc: doc, graph: g, visiting: make(map[int]bool)}
	for _, idx := range sceneRoots(doc) {
		if child := b.node(idx, mgl32.Ident4()); child != nil {
			g.Root.Kids = append(g.Root.Kids, child)
		}
	}
	if b.positioned == 0 {
		return nil, ErrNoGeometry
	}
	return g, nil
}

func convertMaterial(i int, m *gltf.Material) *Material {
	out := &Material{Index: i, Color: paint.Gray(1), HasColor: true}
	if m == nil {
		return out
	}
	out.Name = m.Name
	if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		out.Color = paint.FromLinear(float32(f[0]), float32(f[1]), float32(f[2]))
	}
	return out
}

// sceneRoots returns the default scene's nodes, or every parentless node when the file
// declares no scene.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}
	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

type graphBuilder struct {
	doc        *gltf.Document
	graph      *Graph
	visiting   map[int]bool
	positioned int
}

func (b *graphBuilder) node(idx int, parent mgl32.Mat4) *Node {
	if idx < 0 || idx >= len(b.doc.Nodes) || b.visiting[idx] {
		return nil
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := b.doc.Nodes[idx]
	world := parent.Mul4(localMatrix(src))
	n := &Node{Name: src.Name}

	if src.Mesh != nil && *src.Mesh < len(b.doc.Meshes) {
		mesh := b.doc.Meshes[*src.Mesh]
		name := src.Name
		if name == "" {
			name = mesh.Name
		}
		for _, prim := range mesh.Primitives {
			var mat *Material
			if prim.Material != nil && *prim.Material < len(b.graph.Materials) {
				mat = b.graph.Materials[*prim.Material]
			}
			n.Parts = append(n.Parts, NewSurface(name, mat))
			if box, ok := b.primitiveBounds(prim); ok {
				b.graph.Bounds.Union(box.Transformed(world))
				b.positioned++
			}
		}
	}
	for _, c := range src.Children {
		if child := b.node(c, world); child != nil {
			n.Kids = append(n.Kids, child)
		}
	}
	return n
}

func (b *graphBuilder) primitiveBounds(prim *gltf.Primitive) (Box, bool) {
	idx, ok := prim.Attributes[gltf.POSITION]
	if !ok || idx >= len(b.doc.Accessors) {
		return Box{}, false
	}
	acc := b.doc.Accessors[idx]
	if len(acc.Min) < 3 || len(acc.Max) < 3 {
		return Box{}, false
	}
	return NewBox(
		mgl32.Vec3{float32(acc.Min[0]), float32(acc.Min[1]), float32(acc.Min[2])},
		mgl32.Vec3{float32(acc.Max[0]), float32(acc.Max[1]), float32(acc.Max[2])},
	), true
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// localMatrix returns the node's explicit matrix when set, else T*R*S.
func localMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != ([16]float64{}) && n.Matrix != identity64 {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t := mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))

	r := mgl32.Ident4()
	if n.Rotation != ([4]float64{}) {
		q := mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}
		r = q.Normalize().Mat4()
	}

	s := mgl32.Ident4()
	if n.Scale != ([3]float64{}) {
		s = mgl32.Scale3D(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2]))
	}
	return t.Mul4(r).Mul4(s)
}
