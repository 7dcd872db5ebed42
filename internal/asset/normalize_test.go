package asset

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configurator/internal/catalog"
)

const eps = 1e-4

func TestNormalizeIsIdempotent(t *testing.T) {
	box := NewBox(mgl32.Vec3{-120, 3, -410}, mgl32.Vec3{95, 131, 22})
	a, err := Normalize(box, 0.92)
	require.NoError(t, err)
	b, err := Normalize(box, 0.92)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFootprintForEveryVariant(t *testing.T) {
	cat, err := catalog.Embedded()
	require.NoError(t, err)

	// Source assets in centimetres, metres and an off-origin export.
	sources := []Box{
		NewBox(mgl32.Vec3{-90, 0, -225}, mgl32.Vec3{90, 130, 225}),
		NewBox(mgl32.Vec3{-0.98, -0.2, -2.45}, mgl32.Vec3{0.98, 1.18, 2.45}),
		NewBox(mgl32.Vec3{10, 5, 40}, mgl32.Vec3{12.1, 6.7, 44.9}),
	}
	for _, id := range cat.IDs() {
		v, _ := cat.Variant(id)
		for _, src := range sources {
			tr, err := Normalize(src, v.Scale)
			require.NoError(t, err)
			out := tr.ApplyBox(src)
			assert.InDelta(t, TargetSize*v.Scale, out.MaxDim(), eps, "variant %s", id)
			assert.InDelta(t, 0, out.Min.Y(), eps, "variant %s stands on the ground", id)
			c := out.Center()
			assert.InDelta(t, 0, c.X(), eps)
			assert.InDelta(t, 0, c.Z(), eps)
		}
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	_, err := Normalize(Box{}, 1)
	assert.ErrorIs(t, err, ErrDegenerate)

	point := NewBox(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3})
	_, err = Normalize(point, 1)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestNormalizeFlatGeometryIsNotDegenerate(t *testing.T) {
	plane := NewBox(mgl32.Vec3{-1, 0, -2}, mgl32.Vec3{1, 0, 2})
	tr, err := Normalize(plane, 1)
	require.NoError(t, err)
	assert.InDelta(t, TargetSize/4, tr.Scale, eps)
}

func TestNormalizeDefaultsScale(t *testing.T) {
	box := NewBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	a, _ := Normalize(box, 0)
	b, _ := Normalize(box, 1)
	assert.Equal(t, b, a)
}

func TestTransformMat4MatchesApply(t *testing.T) {
	tr := Transform{Scale: 2.5, Offset: mgl32.Vec3{1, -2, 3}}
	p := mgl32.Vec3{0.3, 4, -7}
	got := mgl32.TransformCoordinate(p, tr.Mat4())
	assert.True(t, got.ApproxEqualThreshold(tr.Apply(p), eps), "%v vs %v", got, tr.Apply(p))
}

func TestPlaceholderBox(t *testing.T) {
	for _, s := range []float32{1, 0.92} {
		b := PlaceholderBox(s)
		assert.InDelta(t, TargetSize*s, b.MaxDim(), eps)
		assert.InDelta(t, 0, b.Min.Y(), eps)
		assert.InDelta(t, 0, b.Center().X(), eps)
	}
}

func TestBoxTransformed(t *testing.T) {
	b := NewBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(45))
	out := b.Transformed(rot)
	assert.InDelta(t, 2*1.41421356, out.Size().X(), eps)
	assert.InDelta(t, 2, out.Size().Y(), eps)

	var empty Box
	assert.True(t, empty.Transformed(rot).Empty())
	assert.Equal(t, float32(0), empty.MaxDim())
}
