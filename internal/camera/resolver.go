package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"configurator/internal/catalog"
	"configurator/internal/phase"
)

// Performance framing is the exterior preset pulled in and down.
const (
	performanceReach  = 0.8
	performanceHeight = 0.8
	performanceFOV    = 45
)

var performanceTarget = mgl32.Vec3{0, 0.3, 0}

// Resolve returns the framing for a screen. It is pure and always returns a valid pose:
// presets missing from the catalog fall back to the variant's exterior framing, then to
// WidePose.
func Resolve(ph phase.Phase, v *catalog.Variant, step phase.Step) Pose {
	if ph == phase.Selection || v == nil {
		return WidePose
	}
	ext, hasExt := preset(v.Presets.Exterior)

	switch ph {
	case phase.Configure:
		if step == phase.StepWheels {
			if w, ok := preset(v.Presets.Wheels); ok {
				return w
			}
		}
	case phase.Performance:
		if !hasExt {
			return WidePose
		}
		p := Pose{
			Position: mgl32.Vec3{ext.Position[0] * performanceReach, performanceHeight, ext.Position[2] * performanceReach},
			Target:   performanceTarget,
			FOV:      performanceFOV,
		}
		if p.Valid() {
			return p
		}
		return WidePose
	case phase.Summary:
		return SummaryPose
	}
	if hasExt {
		return ext
	}
	return WidePose
}

func preset(p catalog.Preset) (Pose, bool) {
	if !p.Defined() {
		return Pose{}, false
	}
	pose := FromPreset(p)
	return pose, pose.Valid()
}

// Key is the input of Resolve. The scene resolves again only when the key changes.
type Key struct {
	Phase   phase.Phase
	Variant catalog.ID
	Step    phase.Step
}

// KeyOf extracts the resolver input from a phase snapshot.
func KeyOf(st phase.State) Key {
	return Key{Phase: st.Phase, Variant: st.Selected, Step: st.Step}
}
