package asset

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TargetSize is the largest dimension every vehicle is scaled to before its per-variant factor.
const TargetSize float32 = 6.5

var (
	// ErrDegenerate means the geometry has no extent to normalize against.
	ErrDegenerate = errors.New("asset: degenerate bounding box")
	// ErrNoGeometry means the asset decoded but holds no positioned primitives.
	ErrNoGeometry = errors.New("asset: no geometry")
)

// Transform is a uniform scale followed by a translation: p' = p*Scale + Offset.
type Transform struct {
	Scale  float32
	Offset mgl32.Vec3
}

// Normalize derives the transform that scales box so its largest extent becomes
// TargetSize*variantScale, centers it horizontally on the origin and stands it on Y=0.
// A non-positive variantScale counts as 1.
func Normalize(box Box, variantScale float32) (Transform, error) {
	maxDim := box.MaxDim()
	if box.Empty() || !(maxDim > 0) || math32.IsInf(maxDim, 0) {
		return Transform{}, ErrDegenerate
	}
	if !(variantScale > 0) {
		variantScale = 1
	}
	s := TargetSize / maxDim * variantScale
	c := box.Center()
	return Transform{
		Scale:  s,
		Offset: mgl32.Vec3{-c[0] * s, -box.Min[1] * s, -c[2] * s},
	}, nil
}

// Apply maps a point.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return p.Mul(t.Scale).Add(t.Offset)
}

// ApplyBox maps a box.
func (t Transform) ApplyBox(b Box) Box {
	if b.Empty() {
		return b
	}
	return NewBox(t.Apply(b.Min), t.Apply(b.Max))
}

// Mat4 returns the transform as a column-major matrix.
func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Offset[0], t.Offset[1], t.Offset[2]).Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// Placeholder proportions (width, height, length) of the stand-in shape.
var placeholderShape = mgl32.Vec3{2, 0.6, 4}

// PlaceholderBox is the stand-in shape drawn while an asset is pending or after it failed,
// already normalized: standing on Y=0, centered, and as long as a loaded vehicle would be.
func PlaceholderBox(variantScale float32) Box {
	if !(variantScale > 0) {
		variantScale = 1
	}
	k := TargetSize * variantScale / placeholderShape[2]
	half := placeholderShape.Mul(k * 0.5)
	return NewBox(
		mgl32.Vec3{-half[0], 0, -half[2]},
		mgl32.Vec3{half[0], placeholderShape[1] * k, half[2]},
	)
}
