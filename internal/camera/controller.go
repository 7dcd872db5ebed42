package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultSmoothing is the fraction of the remaining distance covered per tick.
	DefaultSmoothing float32 = 0.04
	// SettleEpsilon is the distance below which the live pose snaps onto its target.
	SettleEpsilon float32 = 1e-3
	// referenceHz is the tick rate the smoothing fraction is tuned for.
	referenceHz = 60
)

// Input is the pointer activity of one frame.
type Input struct {
	Dragging     bool
	DragX, DragY float32 // pixels moved this frame
	Zoom         float32 // wheel notches, positive zooms in
	// DT is the frame time in seconds. Only read in frame-independent mode.
	DT float32
}

// Controller owns the live camera pose and moves it toward the resolved target every tick.
type Controller struct {
	live     Pose
	target   Pose
	rendered Pose
	profile  Profile
	orbit    orbit

	smoothing        float32
	frameIndependent bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSmoothing overrides DefaultSmoothing. Values outside (0, 1) are ignored.
func WithSmoothing(alpha float32) ControllerOption {
	return func(c *Controller) {
		if alpha > 0 && alpha < 1 {
			c.smoothing = alpha
		}
	}
}

// WithFrameIndependence scales the smoothing by Input.DT so convergence takes the same
// wall-clock time at any frame rate. Off by default: convergence counts ticks.
func WithFrameIndependence(on bool) ControllerOption {
	return func(c *Controller) { c.frameIndependent = on }
}

// NewController starts at rest on start (WidePose if start is invalid).
func NewController(start Pose, opts ...ControllerOption) *Controller {
	if !start.Valid() {
		start = WidePose
	}
	c := &Controller{
		live:      start,
		target:    start,
		rendered:  start,
		profile:   NoOrbit,
		orbit:     newOrbit(referenceHz),
		smoothing: DefaultSmoothing,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetTarget commits a new target pose and orbit profile. When the profile changes, the
// orbit's current effect is folded into the live pose and the orbit is reset, so the camera
// continues from where it visibly is.
func (c *Controller) SetTarget(p Pose, profile Profile) {
	if !p.Valid() {
		p = WidePose
	}
	if profile.Name != c.profile.Name {
		c.live.Position = c.rendered.Position
		c.orbit.reset()
	}
	c.target = p
	c.profile = profile
	// FOV is not smoothed.
	c.live.FOV = p.FOV
	c.rendered.FOV = p.FOV
}

// Tick advances one frame and returns the pose to render.
func (c *Controller) Tick(in Input) Pose {
	a := c.alpha(in.DT)
	c.live.Position = approach(c.live.Position, c.target.Position, a)
	c.live.Target = approach(c.live.Target, c.target.Target, a)
	c.live.FOV = c.target.FOV

	c.orbit.update(in, c.profile)
	c.rendered = c.orbit.apply(c.live, c.profile)
	return c.rendered
}

func (c *Controller) alpha(dt float32) float32 {
	if !c.frameIndependent || !(dt > 0) {
		return c.smoothing
	}
	a := 1 - math32.Pow(1-c.smoothing, dt*referenceHz)
	return mgl32.Clamp(a, 1e-4, 0.999)
}

// approach moves cur a fraction a toward tgt, snapping once within SettleEpsilon.
func approach(cur, tgt mgl32.Vec3, a float32) mgl32.Vec3 {
	d := tgt.Sub(cur)
	if d.Len() <= SettleEpsilon {
		return tgt
	}
	return cur.Add(d.Mul(a))
}

// Live is the smoothed pose before free-look.
func (c *Controller) Live() Pose { return c.live }

// Rendered is the pose returned by the last Tick.
func (c *Controller) Rendered() Pose { return c.rendered }

// Target is the pose being approached.
func (c *Controller) Target() Pose { return c.target }

// Profile is the active orbit profile.
func (c *Controller) Profile() Profile { return c.profile }

// Settled reports whether the live pose has reached the target.
func (c *Controller) Settled() bool {
	return c.live.Position == c.target.Position && c.live.Target == c.target.Target
}

// ResetOrbit drops any free-look offset, keeping the camera where it visibly is.
func (c *Controller) ResetOrbit() {
	c.live.Position = c.rendered.Position
	c.orbit.reset()
}
