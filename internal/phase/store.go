package phase

import (
	"slices"
	"sync"
	"time"

	"configurator/internal/catalog"
	"configurator/internal/paint"
)

// DefaultSettleDelay is the pause between a selection and the switch to configure.
const DefaultSettleDelay = 500 * time.Millisecond

// Options are the user's choices for the selected variant.
type Options struct {
	Color    string // "#RRGGBB"
	Wheels   string
	Interior string
	Packages []string
}

// State is a snapshot of the store.
type State struct {
	Phase         Phase
	IntroComplete bool
	Selected      catalog.ID // "" when nothing is selected
	Hovered       catalog.ID // selection phase only
	Step          Step
	Selecting     bool // a selection is settling; further selections are ignored
	Options       Options
}

// HasSelection reports whether a variant is selected.
func (s State) HasSelection() bool { return s.Selected != "" }

// Initial is the state a session starts in and Reset returns to.
func Initial() State {
	return State{Phase: Intro}
}

type pendingSelect struct {
	deadline time.Time
	gen      uint64
}

// Store owns the phase state. Its methods must be called from the render thread; other
// goroutines hand work over with Dispatch.
type Store struct {
	cat    *catalog.Catalog
	state  State
	settle time.Duration
	now    func() time.Time

	pending *pendingSelect
	gen     uint64
	rev     uint64

	mu    sync.Mutex
	queue []func(*Store)

	subs    map[int]func(State)
	nextSub int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) StoreOption { return func(s *Store) { s.now = now } }

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) StoreOption { return func(s *Store) { s.settle = d } }

// NewStore returns a store in the Initial state.
func NewStore(cat *catalog.Catalog, opts ...StoreOption) *Store {
	s := &Store{
		cat:    cat,
		state:  Initial(),
		settle: DefaultSettleDelay,
		now:    time.Now,
		subs:   make(map[int]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Catalog returns the catalog the store validates against.
func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// State returns a deep copy of the current state.
func (s *Store) State() State {
	out := s.state
	out.Options.Packages = slices.Clone(s.state.Options.Packages)
	return out
}

// Phase is a shortcut for State().Phase.
func (s *Store) Phase() Phase { return s.state.Phase }

// Revision increases on every state change.
func (s *Store) Revision() uint64 { return s.rev }

// Variant returns the selected variant.
func (s *Store) Variant() (catalog.Variant, bool) {
	if s.state.Selected == "" {
		return catalog.Variant{}, false
	}
	return s.cat.Variant(s.state.Selected)
}

// Subscribe registers fn to receive a snapshot after every change. The returned func
// removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// Dispatch queues fn to run on the render thread at the next Update. Safe from any goroutine.
func (s *Store) Dispatch(fn func(*Store)) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Update runs queued work and fires the settle timer when due. Call once per frame.
func (s *Store) Update() {
	s.mu.Lock()
	queued := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, fn := range queued {
		fn(s)
	}

	p := s.pending
	if p == nil || p.gen != s.gen || s.now().Before(p.deadline) {
		return
	}
	s.pending = nil
	s.state.Selecting = false
	s.state.Phase = Configure
	s.state.Step = StepColor
	s.changed()
}

// CompleteIntro moves from intro to selection.
func (s *Store) CompleteIntro() bool {
	if s.state.Phase != Intro {
		return false
	}
	s.state.IntroComplete = true
	s.state.Phase = Selection
	s.changed()
	return true
}

// SelectVariant selects id and, after the settle delay, enters configure. It is ignored
// outside the selection phase, while another selection is settling, or for unknown ids.
func (s *Store) SelectVariant(id catalog.ID) bool {
	if s.state.Phase != Selection || s.state.Selecting {
		return false
	}
	v, ok := s.cat.Variant(id)
	if !ok {
		return false
	}
	s.state.Selected = id
	s.state.Options = defaultOptions(&v)
	s.state.Step = StepColor
	s.state.Selecting = true
	s.gen++
	s.pending = &pendingSelect{deadline: s.now().Add(s.settle), gen: s.gen}
	s.changed()
	return true
}

func defaultOptions(v *catalog.Variant) Options {
	return Options{
		Color:    paint.MustHex(v.DefaultColor).Hex(),
		Wheels:   v.DefaultWheels(),
		Interior: v.DefaultInterior(),
		Packages: []string{},
	}
}

// Advance switches phase directly, for navigation buttons. It cancels a settling selection.
func (s *Store) Advance(p Phase) bool {
	if p < Intro || p > Summary {
		return false
	}
	s.cancel()
	s.state.Phase = p
	if p == Configure && s.state.Selected != "" && s.state.Step == StepNone {
		s.state.Step = StepColor
	}
	if p != Selection {
		s.state.Hovered = ""
	}
	s.changed()
	return true
}

// SetStep changes the configure sub-step. Requires a selection.
func (s *Store) SetStep(step Step) bool {
	if s.state.Selected == "" || step <= StepNone || step > StepPackages {
		return false
	}
	if s.state.Step == step {
		return true
	}
	s.state.Step = step
	s.changed()
	return true
}

// SetOption changes one option: color takes a palette key or any hex color, wheels and
// interior take option keys, package toggles membership. Ignored without a selection or
// for unknown keys.
func (s *Store) SetOption(kind OptionKind, value string) bool {
	v, ok := s.Variant()
	if !ok {
		return false
	}
	o := &s.state.Options
	switch kind {
	case OptColor:
		hex, ok := resolveColor(&v, value)
		if !ok {
			return false
		}
		o.Color = hex
	case OptWheels:
		if _, ok := v.Wheel(value); !ok {
			return false
		}
		o.Wheels = value
	case OptInterior:
		if _, ok := v.Interior(value); !ok {
			return false
		}
		o.Interior = value
	case OptPackage:
		if _, ok := v.Package(value); !ok {
			return false
		}
		if i := slices.Index(o.Packages, value); i >= 0 {
			o.Packages = slices.Delete(o.Packages, i, i+1)
		} else {
			o.Packages = append(o.Packages, value)
		}
	default:
		return false
	}
	s.changed()
	return true
}

func resolveColor(v *catalog.Variant, value string) (string, bool) {
	if c, ok := v.ColorByKey(value); ok {
		return paint.MustHex(c.Hex).Hex(), true
	}
	if c, ok := paint.ParseHex(value); ok {
		return c.Hex(), true
	}
	return "", false
}

// SetHovered records the variant under the pointer on the selection screen. "" clears it.
func (s *Store) SetHovered(id catalog.ID) bool {
	if s.state.Phase != Selection || (id != "" && !s.cat.Has(id)) {
		return false
	}
	if s.state.Hovered == id {
		return true
	}
	s.state.Hovered = id
	s.changed()
	return true
}

// Reset returns to intro with every selection cleared.
func (s *Store) Reset() {
	s.cancel()
	s.state = Initial()
	s.changed()
}

// CancelPending drops a settling selection without entering configure. Call it when the
// owner of the transition goes away.
func (s *Store) CancelPending() {
	if s.pending == nil && !s.state.Selecting {
		return
	}
	s.cancel()
	s.changed()
}

func (s *Store) cancel() {
	s.gen++
	s.pending = nil
	s.state.Selecting = false
}

// TotalPrice is the selected variant's base price plus wheel and package surcharges.
func (s *Store) TotalPrice() int64 {
	v, ok := s.Variant()
	if !ok {
		return 0
	}
	return v.TotalPrice(s.state.Options.Wheels, s.state.Options.Packages)
}

// BodyColor is the chosen paint, or the variant default.
func (s *Store) BodyColor() paint.Color {
	if c, ok := paint.ParseHex(s.state.Options.Color); ok {
		return c
	}
	if v, ok := s.Variant(); ok {
		return v.BodyColor()
	}
	return paint.Gray(0.5)
}

// InteriorColor is the swatch of the chosen interior.
func (s *Store) InteriorColor() (paint.Color, bool) {
	v, ok := s.Variant()
	if !ok {
		return paint.Color{}, false
	}
	in, ok := v.Interior(s.state.Options.Interior)
	if !ok {
		return paint.Color{}, false
	}
	return paint.ParseHex(in.Hex)
}

func (s *Store) changed() {
	s.rev++
	if len(s.subs) == 0 {
		return
	}
	snap := s.State()
	for _, fn := range s.subs {
		fn(snap)
	}
}
