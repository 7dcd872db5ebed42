package camera

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"configurator/internal/phase"
)

// Profile is what the user may do with the pointer on a screen.
type Profile struct {
	Name       string
	Rotate     bool
	Zoom       bool
	AutoRotate bool
	// AutoRotateSpeed is radians per tick.
	AutoRotateSpeed float32
	// MinPolar and MaxPolar bound the angle from straight up, in radians.
	MinPolar, MaxPolar float32
	// MinDistance and MaxDistance bound zoom; zero MaxDistance means unbounded.
	MinDistance, MaxDistance float32
}

// Enabled reports whether the profile lets the orbit move the camera at all.
func (p Profile) Enabled() bool { return p.Rotate || p.Zoom || p.AutoRotate }

// One full turn every 150 s at 60 Hz.
const autoRotateSpeed = 2 * math32.Pi / 3600 * 0.4

var (
	NoOrbit = Profile{Name: "none"}

	ConfigureOrbit = Profile{
		Name:            "configure",
		Rotate:          true,
		AutoRotate:      true,
		AutoRotateSpeed: autoRotateSpeed,
		MinPolar:        math32.Pi / 6,
		MaxPolar:        math32.Pi / 2.2,
	}

	WheelsOrbit = Profile{
		Name:        "wheels",
		Rotate:      true,
		Zoom:        true,
		MinPolar:    math32.Pi / 4,
		MaxPolar:    math32.Pi / 2,
		MinDistance: 2,
		MaxDistance: 6,
	}

	// ARPreviewOrbit turntables the vehicle at 30 degrees per second, 3 to 12 m away.
	ARPreviewOrbit = Profile{
		Name:            "ar-preview",
		Rotate:          true,
		Zoom:            true,
		AutoRotate:      true,
		AutoRotateSpeed: math32.Pi / 6 / 60,
		MinPolar:        math32.Pi / 8,
		MaxPolar:        math32.Pi / 2.1,
		MinDistance:     3,
		MaxDistance:     12,
	}
)

// ProfileFor returns the orbit profile of a screen: free-look while configuring and in the
// AR preview, none elsewhere.
func ProfileFor(k Key) Profile {
	switch {
	case k.Variant == "":
		return NoOrbit
	case k.Phase == phase.AR:
		return ARPreviewOrbit
	case k.Phase != phase.Configure:
		return NoOrbit
	case k.Step == phase.StepWheels:
		return WheelsOrbit
	}
	return ConfigureOrbit
}

// Pointer sensitivity.
const (
	rotatePerPixel = 0.005
	zoomPerNotch   = 0.08
)

// axis is an offset with a velocity that a critically damped spring pulls back to zero.
type axis struct {
	offset float32
	vel    float64
	accel  float64
}

func (a *axis) step(s harmonica.Spring) {
	a.offset += float32(a.vel)
	a.vel, a.accel = s.Update(a.vel, a.accel, 0)
}

// orbit is the user's free-look on top of the controller's live pose: yaw and pitch
// rotate the camera around the live look-at point, zoom scales the distance to it.
type orbit struct {
	spring           harmonica.Spring
	yaw, pitch, zoom axis
}

func newOrbit(fps int) orbit {
	return orbit{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (o *orbit) reset() {
	o.yaw, o.pitch, o.zoom = axis{}, axis{}, axis{}
}

func (o *orbit) idle() bool {
	for _, a := range []axis{o.yaw, o.pitch, o.zoom} {
		if a.offset != 0 || a.vel != 0 {
			return false
		}
	}
	return true
}

func (o *orbit) update(in Input, p Profile) {
	if !p.Enabled() {
		o.reset()
		return
	}
	if p.Rotate && in.Dragging {
		o.yaw.vel = float64(-in.DragX * rotatePerPixel)
		o.pitch.vel = float64(-in.DragY * rotatePerPixel)
	}
	if p.Zoom && in.Zoom != 0 {
		o.zoom.vel -= float64(in.Zoom * zoomPerNotch)
	}
	if p.AutoRotate && !in.Dragging {
		o.yaw.offset += p.AutoRotateSpeed
	}
	o.yaw.step(o.spring)
	o.pitch.step(o.spring)
	o.zoom.step(o.spring)
	o.yaw.offset = wrapAngle(o.yaw.offset)
}

// apply returns live as seen through the orbit. Limits are widened to include the live
// pose's own angle and distance so entering a profile never snaps the camera.
func (o *orbit) apply(live Pose, p Profile) Pose {
	if !p.Enabled() || o.idle() {
		return live
	}
	off := live.Position.Sub(live.Target)
	r := off.Len()
	if r < 1e-4 {
		return live
	}
	theta := math32.Atan2(off[0], off[2])
	phi := math32.Acos(mgl32.Clamp(off[1]/r, -1, 1))

	lo, hi := math32.Min(p.MinPolar, phi), math32.Max(p.MaxPolar, phi)
	if p.MaxPolar == 0 {
		lo, hi = 1e-3, math32.Pi-1e-3
	}
	pitched := mgl32.Clamp(phi+o.pitch.offset, lo, hi)
	o.pitch.offset = pitched - phi

	dist := r * math32.Exp(o.zoom.offset)
	if p.MaxDistance > 0 {
		dmin, dmax := math32.Min(p.MinDistance, r), math32.Max(p.MaxDistance, r)
		clamped := mgl32.Clamp(dist, dmin, dmax)
		if clamped != dist {
			o.zoom.offset = math32.Log(clamped / r)
			o.zoom.vel = 0
			dist = clamped
		}
	}

	yawed := theta + o.yaw.offset
	sinPhi := math32.Sin(pitched)
	out := live
	out.Position = live.Target.Add(mgl32.Vec3{
		dist * sinPhi * math32.Sin(yawed),
		dist * math32.Cos(pitched),
		dist * sinPhi * math32.Cos(yawed),
	})
	return out
}

func wrapAngle(a float32) float32 {
	for a > math32.Pi {
		a -= 2 * math32.Pi
	}
	for a < -math32.Pi {
		a += 2 * math32.Pi
	}
	return a
}
