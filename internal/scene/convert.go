package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"configurator/internal/paint"
)

// toRL converts a column-major mgl32 matrix to raylib's layout. Both store translation in
// elements 12..14, so the mapping is element for element.
func toRL(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func vec3(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

func fromRL(v rl.Vector3) mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

func rgb(c paint.Color) rl.Color {
	r, g, b := c.RGBA8()
	return rl.NewColor(r, g, b, 255)
}

func mix(a, b rl.Color, t float32) rl.Color {
	t = mgl32.Clamp(t, 0, 1)
	lerp := func(x, y uint8) uint8 { return uint8(float32(x) + (float32(y)-float32(x))*t) }
	return rl.NewColor(lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), lerp(a.A, b.A))
}
