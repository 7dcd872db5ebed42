package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exterior = Pose{Position: mgl32.Vec3{4.5, 1.6, 4.5}, Target: mgl32.Vec3{0, 0.3, 0}, FOV: 50}

func TestConvergesMonotonically(t *testing.T) {
	c := NewController(WidePose)
	c.SetTarget(exterior, NoOrbit)

	prev := c.Live().Position.Sub(exterior.Position).Len()
	require.Greater(t, prev, float32(1))
	for i := 0; i < 500; i++ {
		c.Tick(Input{})
		d := c.Live().Position.Sub(exterior.Position).Len()
		if prev > 0 {
			assert.Less(t, d, prev, "tick %d", i)
		}
		prev = d
	}
	assert.LessOrEqual(t, prev, SettleEpsilon)
	assert.InDelta(t, 0, c.Live().Target.Sub(exterior.Target).Len(), 1e-3)
	assert.True(t, c.Settled())
}

func TestNoTeleport(t *testing.T) {
	c := NewController(WidePose)
	c.SetTarget(exterior, NoOrbit)
	for i := 0; i < 500; i++ {
		before := c.Live().Position.Sub(exterior.Position).Len()
		c.Tick(Input{})
		after := c.Live().Position.Sub(exterior.Position).Len()
		if before <= SettleEpsilon {
			assert.Zero(t, after)
			continue
		}
		assert.Greater(t, after, float32(0), "tick %d reached the target in one step", i)
		// float32 positions near 4.5 carry about 5e-7 of rounding per component.
		moved := before - after
		assert.LessOrEqual(t, moved, before*DefaultSmoothing*1.001+1e-6, "tick %d", i)
	}
}

func TestFOVIsImmediate(t *testing.T) {
	c := NewController(WidePose)
	c.SetTarget(Pose{Position: mgl32.Vec3{2.8, 0.4, 3.2}, Target: mgl32.Vec3{1.2, 0.3, 0}, FOV: 40}, NoOrbit)
	assert.Equal(t, float32(40), c.Live().FOV)
	p := c.Tick(Input{})
	assert.Equal(t, float32(40), p.FOV)
	assert.NotEqual(t, mgl32.Vec3{2.8, 0.4, 3.2}, p.Position)
}

func TestInvalidTargetFallsBackToWide(t *testing.T) {
	c := NewController(exterior)
	c.SetTarget(Pose{Position: mgl32.Vec3{math32.NaN(), 0, 0}, FOV: 50}, NoOrbit)
	assert.Equal(t, WidePose, c.Target())

	c = NewController(Pose{})
	assert.Equal(t, WidePose, c.Live())
}

func TestRetargetMidFlight(t *testing.T) {
	c := NewController(WidePose)
	c.SetTarget(exterior, NoOrbit)
	for i := 0; i < 10; i++ {
		c.Tick(Input{})
	}
	mid := c.Live().Position
	c.SetTarget(SummaryPose, NoOrbit)
	assert.Equal(t, mid, c.Live().Position, "retarget keeps the live pose")
	p := c.Tick(Input{})
	assert.Less(t, p.Position.Sub(mid).Len(), mid.Sub(SummaryPose.Position).Len()*DefaultSmoothing*1.001)
}

func TestAutoRotateOnlyInConfigure(t *testing.T) {
	c := NewController(exterior)
	c.SetTarget(exterior, ConfigureOrbit)
	var p Pose
	for i := 0; i < 120; i++ {
		p = c.Tick(Input{})
	}
	assert.Equal(t, exterior.Position, c.Live().Position, "live pose stays on the preset")
	assert.NotEqual(t, exterior.Position, p.Position, "rendered pose rotates")
	assert.InDelta(t, exterior.Distance(), p.Distance(), 1e-3, "rotation keeps distance")
	assert.InDelta(t, exterior.Position.Y(), p.Position.Y(), 1e-3, "auto-rotate is horizontal")

	c = NewController(exterior)
	c.SetTarget(exterior, NoOrbit)
	for i := 0; i < 120; i++ {
		p = c.Tick(Input{})
	}
	assert.Equal(t, exterior.Position, p.Position)
}

func TestLeavingOrbitFoldsAndResets(t *testing.T) {
	c := NewController(exterior)
	c.SetTarget(exterior, ConfigureOrbit)
	for i := 0; i < 30; i++ {
		c.Tick(Input{Dragging: true, DragX: 12})
	}
	rotated := c.Rendered()
	require.Greater(t, rotated.Position.Sub(exterior.Position).Len(), float32(0.5))

	c.SetTarget(SummaryPose, NoOrbit)
	assert.Equal(t, rotated.Position, c.Live().Position, "visible position folded into live")
	assert.True(t, c.orbit.idle(), "orbit state reset")

	before := rotated.Position.Sub(SummaryPose.Position).Len()
	p := c.Tick(Input{})
	jump := p.Position.Sub(rotated.Position).Len()
	assert.LessOrEqual(t, jump, before*DefaultSmoothing*1.001, "no jump when leaving orbit")

	// Drag input is ignored without an orbit profile.
	for i := 0; i < 400; i++ {
		p = c.Tick(Input{Dragging: true, DragX: 50})
	}
	assert.Equal(t, SummaryPose.Position, p.Position)
}

func TestEnteringOrbitDoesNotJump(t *testing.T) {
	// Camera starts far outside the wheels polar range.
	top := Pose{Position: mgl32.Vec3{0, 10, 0.5}, Target: mgl32.Vec3{}, FOV: 50}
	c := NewController(top)
	c.SetTarget(top, WheelsOrbit)
	p := c.Tick(Input{Dragging: true, DragX: 1})
	assert.InDelta(t, top.Position.Y(), p.Position.Y(), 0.05)
}

func TestPolarLimits(t *testing.T) {
	c := NewController(exterior)
	c.SetTarget(exterior, WheelsOrbit)
	for i := 0; i < 200; i++ {
		c.Tick(Input{Dragging: true, DragY: -40})
	}
	p := c.Rendered()
	off := p.Position.Sub(p.Target)
	polar := math32.Acos(off.Y() / off.Len())
	assert.LessOrEqual(t, polar, WheelsOrbit.MaxPolar+1e-3)
	assert.GreaterOrEqual(t, polar, WheelsOrbit.MinPolar-1e-3)
	assert.Greater(t, polar, float32(1.4), "dragging pushed toward the ground limit")
}

func TestZoomLimits(t *testing.T) {
	wheels := Pose{Position: mgl32.Vec3{2.8, 0.4, 3.2}, Target: mgl32.Vec3{1.2, 0.3, 0}, FOV: 40}
	c := NewController(wheels)
	c.SetTarget(wheels, WheelsOrbit)
	for i := 0; i < 300; i++ {
		c.Tick(Input{Zoom: 3})
	}
	assert.InDelta(t, WheelsOrbit.MinDistance, c.Rendered().Distance(), 1e-2)
	for i := 0; i < 300; i++ {
		c.Tick(Input{Zoom: -3})
	}
	assert.InDelta(t, WheelsOrbit.MaxDistance, c.Rendered().Distance(), 1e-2)

	// Zoom is not available in the general configure orbit.
	c = NewController(exterior)
	c.SetTarget(exterior, ConfigureOrbit)
	c.Tick(Input{Dragging: true, Zoom: 5})
	assert.InDelta(t, exterior.Distance(), c.Rendered().Distance(), 1e-3)
}

func TestDragVelocityDecays(t *testing.T) {
	c := NewController(exterior)
	c.SetTarget(exterior, WheelsOrbit)
	c.Tick(Input{Dragging: true, DragX: 30})
	for i := 0; i < 240; i++ {
		c.Tick(Input{})
	}
	a := c.Rendered().Position
	c.Tick(Input{})
	b := c.Rendered().Position
	assert.InDelta(t, 0, b.Sub(a).Len(), 1e-4, "spring brought the spin to rest")
}

func TestFrameIndependence(t *testing.T) {
	fixed := NewController(WidePose)
	fixed.SetTarget(exterior, NoOrbit)
	fixed.Tick(Input{DT: 1.0 / 30})
	fixed.Tick(Input{DT: 1.0 / 30})
	assert.InDelta(t, 0, fixed.Live().Position.Sub(stepTicks(2)).Len(), 1e-4, "dt ignored by default")

	free := NewController(WidePose, WithFrameIndependence(true))
	free.SetTarget(exterior, NoOrbit)
	free.Tick(Input{DT: 1.0 / 30})
	assert.InDelta(t, 0, free.Live().Position.Sub(stepTicks(2)).Len(), 1e-3, "one 30 Hz frame equals two 60 Hz ticks")
}

// stepTicks is where the live position is after n fixed-rate ticks from WidePose to exterior.
func stepTicks(n int) mgl32.Vec3 {
	p := WidePose.Position
	for i := 0; i < n; i++ {
		p = p.Add(exterior.Position.Sub(p).Mul(DefaultSmoothing))
	}
	return p
}

func TestWithSmoothing(t *testing.T) {
	c := NewController(WidePose, WithSmoothing(0.5), WithSmoothing(2))
	c.SetTarget(exterior, NoOrbit)
	c.Tick(Input{})
	want := WidePose.Position.Add(exterior.Position.Sub(WidePose.Position).Mul(0.5))
	assert.InDelta(t, 0, c.Live().Position.Sub(want).Len(), 1e-5)
}

func TestResetOrbitKeepsVisiblePose(t *testing.T) {
	c := NewController(exterior)
	c.SetTarget(exterior, ConfigureOrbit)
	for i := 0; i < 50; i++ {
		c.Tick(Input{})
	}
	seen := c.Rendered().Position
	c.ResetOrbit()
	assert.Equal(t, seen, c.Live().Position)
	assert.True(t, c.orbit.idle())
}
