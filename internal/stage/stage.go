// Package stage animates the showroom: where each vehicle stands, how it spins and floats,
// how bright its platform glows, and which one the pointer is over.
package stage

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"configurator/internal/asset"
	"configurator/internal/catalog"
	"configurator/internal/phase"
)

const (
	SlotSpacing  = 7    // distance between selection slots along X
	FloatBase    = 0.25 // vehicle base above the platform
	BobAmplitude = 0.06
	HoverScale   = 1.05

	spinIdle       = 0.2 // rad/s
	spinHover      = 0.6
	bobSelection   = 0.7 // rad/s of the bob sine
	bobSingle      = 0.5
	bobPhasePerX   = 1.3
	glowIdle       = 0.35
	glowHover      = 0.65
	glowSingle     = 0.5
	glowFollow     = 0.1 // fraction of the remaining glow change per reference frame
	radiusSlot     = 3.2
	radiusSingle   = 4
	labelDepth     = 2.6
	labelHeight    = -0.55
	referenceFrame = 1.0 / 60
	scanPeriod     = 100.0 / 24 // 0.4% of the screen per reference frame
)

// Slot is one vehicle position.
type Slot struct {
	ID   catalog.ID
	X    float32
	Yaw  float32
	Glow float32
}

// Placement is what the renderer draws for one vehicle this frame.
type Placement struct {
	ID      catalog.ID
	World   mgl32.Mat4 // applied after the asset's normalization transform
	Center  mgl32.Vec3 // platform center on the ground
	Radius  float32    // platform radius
	Glow    float32    // platform intensity 0..1
	Label   mgl32.Vec3 // anchor of the name/price label; zero when no label is shown
	Labeled bool
	Hovered bool
}

// Stage holds the per-vehicle animation state.
type Stage struct {
	slots  []Slot
	single Slot
	t      float32
}

// New lays out one slot per id, centered on X=0.
func New(ids []catalog.ID) *Stage {
	s := &Stage{single: Slot{Glow: glowSingle}}
	mid := float32(len(ids)-1) / 2
	for i, id := range ids {
		s.slots = append(s.slots, Slot{ID: id, X: (float32(i) - mid) * SlotSpacing, Glow: glowIdle})
	}
	return s
}

// ScanLine returns the height of the AR preview's sweeping scan line as a fraction of the
// screen, 0 at the top. It crosses the screen every scanPeriod seconds.
func (s *Stage) ScanLine() float32 {
	return math32.Mod(s.t, scanPeriod) / scanPeriod
}

// Update advances the animation by dt seconds.
func (s *Stage) Update(dt float32, st phase.State) {
	if !(dt > 0) {
		return
	}
	s.t += dt
	follow := 1 - math32.Pow(1-glowFollow, dt/referenceFrame)
	for i := range s.slots {
		sl := &s.slots[i]
		spin, glow := float32(spinIdle), float32(glowIdle)
		if sl.ID == st.Hovered {
			spin, glow = spinHover, glowHover
		}
		sl.Yaw = wrap(sl.Yaw + spin*dt)
		sl.Glow += (glow - sl.Glow) * follow
	}
	s.single.Glow += (glowSingle - s.single.Glow) * follow
}

// Placements returns the vehicles to draw for st: every slot during selection, the selected
// vehicle at the center afterwards, nothing in the intro.
func (s *Stage) Placements(st phase.State) []Placement {
	switch {
	case st.Phase == phase.Selection:
		out := make([]Placement, 0, len(s.slots))
		for _, sl := range s.slots {
			hovered := sl.ID == st.Hovered
			scale := float32(1)
			if hovered {
				scale = HoverScale
			}
			bob := Bob(s.t, bobSelection, sl.X*bobPhasePerX)
			out = append(out, Placement{
				ID:      sl.ID,
				World:   world(sl.X, bob, sl.Yaw, scale),
				Center:  mgl32.Vec3{sl.X, 0.01, 0},
				Radius:  radiusSlot,
				Glow:    sl.Glow,
				Label:   mgl32.Vec3{sl.X, labelHeight, labelDepth},
				Labeled: true,
				Hovered: hovered,
			})
		}
		return out
	case st.Phase > phase.Selection && st.HasSelection():
		return []Placement{{
			ID:     st.Selected,
			World:  world(0, Bob(s.t, bobSingle, 0), 0, 1),
			Center: mgl32.Vec3{0, 0.01, 0},
			Radius: radiusSingle,
			Glow:   s.single.Glow,
		}}
	}
	return nil
}

// Bob is the floating offset at time t.
func Bob(t, speed, phaseOffset float32) float32 {
	return math32.Sin(t*speed+phaseOffset) * BobAmplitude
}

func world(x, bob, yaw, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, FloatBase+bob, 0).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

func wrap(a float32) float32 {
	return math32.Mod(a, 2*math32.Pi)
}

// Target is a pickable vehicle: its footprint in world space.
type Target struct {
	ID  catalog.ID
	Box asset.Box
}

// Pick returns the nearest target hit by the ray.
func Pick(origin, dir mgl32.Vec3, targets []Target) (catalog.ID, bool) {
	best := math32.Inf(1)
	var hit catalog.ID
	for _, t := range targets {
		if d, ok := RayBox(origin, dir, t.Box); ok && d < best {
			best, hit = d, t.ID
		}
	}
	return hit, hit != ""
}

// RayBox intersects a ray with an axis-aligned box and returns the entry distance along dir.
// A ray starting inside the box hits at 0.
func RayBox(origin, dir mgl32.Vec3, b asset.Box) (float32, bool) {
	if b.Empty() {
		return 0, false
	}
	tmin, tmax := float32(0), math32.Inf(1)
	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < 1e-8 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1, t2 := (b.Min[i]-origin[i])*inv, (b.Max[i]-origin[i])*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin, tmax = max(tmin, t1), min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
