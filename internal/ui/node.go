package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/phase"
)

// Node is one overlay element: panel, label, button, swatch, bar. Class holds
// space-separated class names matched by .class selectors; ID is matched by #id.
type Node struct {
	Type   string
	Class  string
	ID     string
	Bounds rl.Rectangle // zero width: position and size come from the stylesheet
	Text   string

	Swatch    rl.Color // drawn as a chip left of the text when HasSwatch
	HasSwatch bool
	Fill      float32 // bar nodes: filled fraction 0..1

	// OnClick runs on the render thread when the node is clicked. Nil for passive nodes.
	OnClick func(*phase.Store)
}

// NewNode creates a node.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

// At sets the node's bounds and returns it.
func (n *Node) At(x, y, w, h float32) *Node {
	n.Bounds = rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	return n
}

// HasClass reports whether name is one of the node's classes.
func (n *Node) HasClass(name string) bool {
	for _, c := range strings.Fields(n.Class) {
		if c == name {
			return true
		}
	}
	return false
}

// Contains reports whether the point lies inside the node's bounds.
func (n *Node) Contains(x, y float32) bool {
	b := n.Bounds
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}
