package classifier

import (
	"testing"

	"configurator/internal/paint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	name     string
	material string
	color    paint.Color
	hasColor bool
	writes   int
}

func (f *fakeSurface) Name() string { return f.name }
func (f *fakeSurface) MaterialName() string { return f.material }
func (f *fakeSurface) Color() (paint.Color, bool) { return f.color, f.hasColor }
func (f *fakeSurface) SetColor(c paint.Color) { f.color = c; f.writes++ }

type fakeNode struct {
	surfaces []Surface
	children []Node
}

func (n *fakeNode) Surfaces() []Surface { return n.surfaces }
func (n *fakeNode) Children() []Node { return n.children }

func surf(name, material string, c paint.Color) *fakeSurface {
	return &fakeSurface{name: name, material: material, color: c, hasColor: true}
}

func tree(surfaces ...*fakeSurface) *fakeNode {
	root := &fakeNode{}
	child := &fakeNode{}
	root.children = []Node{child}
	for i, s := range surfaces {
		if i%2 == 0 {
			root.surfaces = append(root.surfaces, s)
		} else {
			child.surfaces = append(child.surfaces, s)
		}
	}
	return root
}

var (
	red   = paint.MustHex("#C0111F")
	cream = paint.MustHex("#7A4A2A")
)

func TestSkipWinsOverBody(t *testing.T) {
	trim := surf("body_window_trim", "", paint.Gray(0.5))
	door := surf("door_left", "carpaint", paint.Gray(0.5))
	root := tree(trim, door)

	res := Apply(root, Request{Body: red})
	assert.True(t, res.ExplicitBody)
	assert.Equal(t, paint.Gray(0.5), trim.color)
	assert.Zero(t, trim.writes)
	assert.Equal(t, red, door.color)

	// Even with an interior color the mixed name stays untouched.
	res = Apply(root, Request{Body: red, Interior: &cream})
	assert.Zero(t, trim.writes)
	assert.Equal(t, Skipped, res.Entries[0].Tag)
}

func TestLuminanceFallback(t *testing.T) {
	gray := surf("Object_3", "Material.001", paint.Gray(0.5))
	black := surf("Object_4", "Material.002", paint.Gray(0.05))
	white := surf("Object_5", "Material.003", paint.Gray(0.97))
	root := tree(gray, black, white)

	res := Apply(root, Request{Body: red})
	assert.False(t, res.ExplicitBody)
	assert.Equal(t, red, gray.color)
	assert.Equal(t, paint.Gray(0.05), black.color)
	assert.Equal(t, paint.Gray(0.97), white.color)
	assert.Equal(t, 1, res.Count(Body))
	assert.Equal(t, 2, res.Count(Unclassified))
}

func TestFallbackNeverTouchesSkipped(t *testing.T) {
	glass := surf("Object_1", "glass_tinted", paint.Gray(0.5))
	tyre := surf("tyre_fl", "", paint.Gray(0.3))
	root := tree(glass, tyre)

	Apply(root, Request{Body: red})
	assert.Zero(t, glass.writes)
	assert.Zero(t, tyre.writes)
}

func TestExplicitMatchDisablesFallback(t *testing.T) {
	hood := surf("Hood", "", paint.Gray(0.1))
	misc := surf("Object_9", "", paint.Gray(0.5))
	root := tree(hood, misc)

	Apply(root, Request{Body: red})
	assert.Equal(t, red, hood.color, "keyword match recolors even dark parts")
	assert.Zero(t, misc.writes, "fallback is off once a body part is named")
}

func TestInteriorPass(t *testing.T) {
	seat := surf("Seat_Driver", "leather_black", paint.Gray(0.1))
	dash := surf("Dashboard", "", paint.Gray(0.2))
	wheel := surf("steering_wheel", "", paint.Gray(0.2))
	body := surf("Body", "paint", paint.Gray(0.5))
	root := tree(seat, dash, wheel, body)

	res := Apply(root, Request{Body: red, Interior: &cream})
	assert.Equal(t, cream, seat.color)
	assert.Equal(t, cream, dash.color)
	assert.Zero(t, wheel.writes, "wheel keyword keeps the steering wheel out")
	assert.Equal(t, red, body.color)
	assert.Equal(t, 2, res.Count(Interior))

	// Without an interior color the cabin is left alone.
	seat2 := surf("Seat_Driver", "", paint.Gray(0.1))
	Apply(tree(seat2, surf("Body", "", paint.Gray(0.5))), Request{Body: red})
	assert.Zero(t, seat2.writes)
}

func TestSurfaceWithoutColorIsIgnored(t *testing.T) {
	bare := &fakeSurface{name: "body_shell"}
	res := Apply(tree(bare), Request{Body: red})
	assert.Zero(t, bare.writes)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, Unclassified, res.Entries[0].Tag)
}

func TestApplyIsIdempotent(t *testing.T) {
	a := surf("Object_1", "", paint.Gray(0.5))
	b := surf("Object_2", "", paint.Gray(0.02))
	root := tree(a, b)

	first := Apply(root, Request{Body: red})
	second := Apply(root, Request{Body: red})
	assert.Equal(t, red, a.color)
	assert.Equal(t, paint.Gray(0.02), b.color)
	assert.Equal(t, first.Count(Body), second.Count(Body))
}

func TestMatchingIsCaseInsensitiveAndUsesMaterialName(t *testing.T) {
	s := surf("mesh_17", "CarPaint_Metallic", paint.Gray(0.02))
	Apply(tree(s, surf("mesh_18", "", paint.Gray(0.5))), Request{Body: red})
	assert.Equal(t, red, s.color)
}

func TestWalkOrder(t *testing.T) {
	a, b, c := surf("a", "", paint.Gray(0)), surf("b", "", paint.Gray(0)), surf("c", "", paint.Gray(0))
	root := &fakeNode{
		surfaces: []Surface{a},
		children: []Node{&fakeNode{surfaces: []Surface{b}, children: []Node{&fakeNode{surfaces: []Surface{c}}}}},
	}
	var names []string
	Walk(root, func(s Surface) { names = append(names, s.Name()) })
	assert.Equal(t, []string{"a", "b", "c"}, names)

	Walk(nil, func(Surface) { t.Fatal("visited nil tree") })
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "body", Body.String())
	assert.Equal(t, "interior", Interior.String())
	assert.Equal(t, "skip", Skipped.String())
	assert.Equal(t, "unclassified", Unclassified.String())
}
