// Package camera decides where the camera should be for the current screen and moves it
// there smoothly.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"configurator/internal/catalog"
)

// Pose is a camera position, the point it looks at and its vertical field of view in degrees.
type Pose struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	FOV      float32
}

// Fixed framings.
var (
	// WidePose shows all three selection slots; also the last-resort fallback.
	WidePose = Pose{Position: mgl32.Vec3{0, 2, 14}, Target: mgl32.Vec3{0, 0.5, 0}, FOV: 50}
	// SummaryPose is the close three-quarter view behind the price summary.
	SummaryPose = Pose{Position: mgl32.Vec3{3, 1.4, 3.5}, Target: mgl32.Vec3{0, 0.3, 0}, FOV: 48}
)

// FromPreset converts a catalog preset.
func FromPreset(p catalog.Preset) Pose {
	return Pose{
		Position: mgl32.Vec3(p.Position),
		Target:   mgl32.Vec3(p.Target),
		FOV:      p.FOV,
	}
}

// Valid reports whether every component is finite, the FOV is in (0, 180) and the camera
// is not sitting on its own look-at point.
func (p Pose) Valid() bool {
	for i := 0; i < 3; i++ {
		if !finite(p.Position[i]) || !finite(p.Target[i]) {
			return false
		}
	}
	return finite(p.FOV) && p.FOV > 0 && p.FOV < 180 && p.Position.Sub(p.Target).Len() > 1e-4
}

// Distance is the length of the view ray.
func (p Pose) Distance() float32 {
	return p.Position.Sub(p.Target).Len()
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
