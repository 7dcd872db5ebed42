// Package classifier recolors the paintable surfaces of an imported vehicle.
//
// Imported assets come from many sources and name their parts inconsistently, so surfaces are
// matched by keywords found in the surface name and its material name. Assets without any
// recognisable body naming fall back to a lightness heuristic that leaves glass, chrome and
// shadow-like materials alone.
//
// Skip words always win over body words. The interior pass ignores only the skip words that
// name cabin parts (interior, seat, dash); any other skip word keeps a surface untouched, so
// "steering_wheel" and "body_window_trim" are never recolored by either pass.
package classifier

import (
	"strings"

	"configurator/internal/paint"
)

// Surface is one drawable part with a free-text name and a material.
type Surface interface {
	Name() string
	MaterialName() string
	// Color returns the material's base color; ok is false when the material carries none.
	Color() (c paint.Color, ok bool)
	SetColor(c paint.Color)
}

// Node is a scene graph node: its own surfaces plus child nodes.
type Node interface {
	Surfaces() []Surface
	Children() []Node
}

// Walk visits every surface under root depth-first, parents before children.
func Walk(root Node, fn func(Surface)) {
	if root == nil {
		return
	}
	for _, s := range root.Surfaces() {
		fn(s)
	}
	for _, c := range root.Children() {
		Walk(c, fn)
	}
}

var (
	skipKeywords = []string{
		"glass", "window", "light", "tire", "tyre", "wheel", "rim", "chrome", "rubber",
		"interior", "seat", "dash", "sticker", "plate", "logo", "emblem", "grille", "grill",
		"brake", "transmission",
	}
	bodyKeywords = []string{
		"body", "paint", "coat", "exterior", "shell", "door", "fender", "hood", "trunk",
		"bumper", "panel",
	}
	interiorKeywords = []string{
		"interior", "seat", "dash", "dashboard", "leather", "trim", "cabin", "uphol",
		"fabric", "carpet", "console", "steering",
	}
)

// exteriorSkipKeywords are the skip words that do not name cabin parts. The interior pass
// still honours these so a part like "body_window_trim" is never repainted.
var exteriorSkipKeywords = func() []string {
	var out []string
	for _, kw := range skipKeywords {
		if !containsAny(kw, interiorKeywords) {
			out = append(out, kw)
		}
	}
	return out
}()

// Lightness bounds of the fallback pass (exclusive).
const (
	MinFallbackLightness = 0.15
	MaxFallbackLightness = 0.95
)

// Tag is the outcome for a single surface.
type Tag int

const (
	Unclassified Tag = iota
	Skipped
	Body
	Interior
)

func (t Tag) String() string {
	switch t {
	case Skipped:
		return "skip"
	case Body:
		return "body"
	case Interior:
		return "interior"
	}
	return "unclassified"
}

// Entry records what happened to one surface.
type Entry struct {
	Surface Surface
	Tag     Tag
	// Applied is the color written, valid when Tag is Body or Interior.
	Applied paint.Color
}

// Result is the per-surface classification of one Apply call, in traversal order.
type Result struct {
	Entries []Entry
	// ExplicitBody is true when keyword matching, not the lightness fallback, chose body parts.
	ExplicitBody bool
}

// Count returns how many surfaces received tag.
func (r Result) Count(tag Tag) int {
	n := 0
	for _, e := range r.Entries {
		if e.Tag == tag {
			n++
		}
	}
	return n
}

// Request is the paint job: a body color and an optional interior color.
type Request struct {
	Body     paint.Color
	Interior *paint.Color
}

// Apply recolors the surfaces under root in place and reports the classification.
// Reapplying the same request is a no-op in effect.
func Apply(root Node, req Request) Result {
	var surfaces []Surface
	Walk(root, func(s Surface) { surfaces = append(surfaces, s) })

	keys := make([]string, len(surfaces))
	explicit := false
	for i, s := range surfaces {
		keys[i] = searchKey(s)
		if containsAny(keys[i], bodyKeywords) && !containsAny(keys[i], skipKeywords) {
			explicit = true
		}
	}

	res := Result{Entries: make([]Entry, len(surfaces)), ExplicitBody: explicit}
	for i, s := range surfaces {
		e := &res.Entries[i]
		e.Surface = s
		key := keys[i]

		current, hasColor := s.Color()
		if !hasColor {
			continue
		}

		if containsAny(key, skipKeywords) {
			e.Tag = Skipped
		} else if explicit {
			if containsAny(key, bodyKeywords) {
				s.SetColor(req.Body)
				e.Tag, e.Applied = Body, req.Body
			}
		} else if l := current.Lightness(); l > MinFallbackLightness && l < MaxFallbackLightness {
			s.SetColor(req.Body)
			e.Tag, e.Applied = Body, req.Body
		}

		if req.Interior != nil && containsAny(key, interiorKeywords) && !containsAny(key, exteriorSkipKeywords) {
			s.SetColor(*req.Interior)
			e.Tag, e.Applied = Interior, *req.Interior
		}
	}
	return res
}

func searchKey(s Surface) string {
	return strings.ToLower(s.Name() + " " + s.MaterialName())
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
