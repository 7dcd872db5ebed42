package primitives

import "github.com/go-gl/mathgl/mgl32"

const (
	maxSpots  = 4
	maxPoints = 2
)

// Spot is a cone light aimed at Target. Angle is the half-angle in radians; Penumbra is the
// fraction of the cone that fades out.
type Spot struct {
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Angle     float32
	Penumbra  float32
	Range     float32
}

// Point is an omni light with a falloff range.
type Point struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
}

// Lighting is the showroom rig: ambient fill, overhead spots, rim lights, and distance fog.
type Lighting struct {
	Ambient   mgl32.Vec3
	Spots     []Spot
	Points    []Point
	FogColor  mgl32.Vec3
	FogNear   float32
	FogFar    float32
	Specular  float32
	Shininess float32
}

func rgb(r, g, b uint8) mgl32.Vec3 {
	return mgl32.Vec3{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

var (
	warmWhite = rgb(0xFF, 0xF5, 0xEB)
	coolWhite = rgb(0xC8, 0xD4, 0xE8)
)

// Showroom returns the rig. The side spots light the outer selection slots and are only
// included when sideSpots is set.
func Showroom(sideSpots bool) Lighting {
	l := Lighting{
		Ambient: rgb(0xE8, 0xE4, 0xDF).Mul(0.15),
		Spots: []Spot{
			{Position: mgl32.Vec3{0, 12, 2}, Color: warmWhite, Intensity: 1.4, Angle: mgl32.DegToRad(30), Penumbra: 0.8, Range: 40},
		},
		Points: []Point{
			{Position: mgl32.Vec3{-8, 3, -5}, Color: coolWhite, Intensity: 0.6, Range: 30},
			{Position: mgl32.Vec3{8, 3, -5}, Color: coolWhite, Intensity: 0.6, Range: 30},
		},
		FogNear:   12,
		FogFar:    40,
		Specular:  0.45,
		Shininess: 64,
	}
	if sideSpots {
		for _, x := range []float32{-7, 7} {
			l.Spots = append(l.Spots, Spot{
				Position: mgl32.Vec3{x, 10, 2}, Target: mgl32.Vec3{x, 0, 0},
				Color: warmWhite, Intensity: 0.8, Angle: mgl32.DegToRad(180.0 / 7), Penumbra: 0.9, Range: 35,
			})
		}
	}
	return l
}
