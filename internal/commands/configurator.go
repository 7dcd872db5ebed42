package commands

import (
	"errors"
	"fmt"
	"strings"

	"configurator/internal/catalog"
	"configurator/internal/engineconfig"
	"configurator/internal/logger"
	"configurator/internal/phase"
)

// Deps are what the configurator commands act on. Optional funcs may be nil.
type Deps struct {
	Store *phase.Store
	Log   *logger.Logger
	Prefs *engineconfig.EnginePrefs
	// SavePrefs persists Prefs after an overlay toggle.
	SavePrefs     func(engineconfig.EnginePrefs) error
	DescribeView  func() string
	ResetOrbit    func()
	SetFullscreen func(bool)
	// LoadFont switches the overlay font. It returns at once; the outcome is logged.
	LoadFont func(family string)
}

var errRejected = errors.New("not available right now")

// RegisterConfigurator adds the configurator's console commands to r. Commands run on the
// render thread.
func RegisterConfigurator(r *Registry, d Deps) {
	s := d.Store

	r.Register("help", "help", NewFlagSet("help"), func() error {
		for _, line := range r.Help() {
			d.Log.Log(line)
		}
		return nil
	})

	r.Register("variants", "variants", NewFlagSet("variants"), func() error {
		cat := s.Catalog()
		for _, id := range cat.IDs() {
			v, _ := cat.Variant(id)
			d.Log.Log(fmt.Sprintf("%s: %s, from %s", id, v.FullName, catalog.FormatPrice(v.BasePrice)))
		}
		return nil
	})

	selectFS := NewFlagSet("select")
	r.Register("select", "select <variant>", selectFS, func() error {
		id, err := oneArg(selectFS.Args(), "variant")
		if err != nil {
			return err
		}
		if !s.Catalog().Has(catalog.ID(id)) {
			return fmt.Errorf("unknown variant %q (try: %s)", id, joinIDs(s.Catalog().IDs()))
		}
		if s.Phase() == phase.Intro {
			s.CompleteIntro()
		}
		if !s.SelectVariant(catalog.ID(id)) {
			return fmt.Errorf("select: %w (selection screen only, one at a time)", errRejected)
		}
		return nil
	})

	stepFS := NewFlagSet("step")
	r.Register("step", "step <color|wheels|interior|packages>", stepFS, func() error {
		name, err := oneArg(stepFS.Args(), "step")
		if err != nil {
			return err
		}
		st, ok := phase.ParseStep(name)
		if !ok {
			return fmt.Errorf("unknown step %q", name)
		}
		if !s.SetStep(st) {
			return fmt.Errorf("step: %w (select a vehicle first)", errRejected)
		}
		return nil
	})

	for _, kind := range []phase.OptionKind{phase.OptColor, phase.OptWheels, phase.OptInterior, phase.OptPackage} {
		kind := kind
		fs := NewFlagSet(string(kind))
		r.Register(string(kind), string(kind)+" <key>", fs, func() error {
			value, err := oneArg(fs.Args(), "key")
			if err != nil {
				return err
			}
			if !s.SetOption(kind, value) {
				return fmt.Errorf("%s %q: %w", kind, value, errRejected)
			}
			return nil
		})
	}

	goFS := NewFlagSet("go")
	r.Register("go", "go <intro|selection|configure|performance|ar|summary>", goFS, func() error {
		name, err := oneArg(goFS.Args(), "phase")
		if err != nil {
			return err
		}
		p, ok := phase.ParsePhase(name)
		if !ok {
			return fmt.Errorf("unknown phase %q", name)
		}
		if p > phase.Selection && !s.State().HasSelection() {
			return fmt.Errorf("go %s: %w (select a vehicle first)", p, errRejected)
		}
		s.Advance(p)
		return nil
	})

	r.Register("reset", "reset", NewFlagSet("reset"), func() error {
		s.Reset()
		return nil
	})

	r.Register("price", "price", NewFlagSet("price"), func() error {
		if !s.State().HasSelection() {
			return fmt.Errorf("price: no vehicle selected")
		}
		d.Log.Log("total " + catalog.FormatPrice(s.TotalPrice()))
		return nil
	})

	registerToggle(r, d, "fps", "show/hide FPS counter", func(p *engineconfig.EnginePrefs) *bool { return &p.ShowFPS })
	registerToggle(r, d, "memalloc", "show/hide memory usage", func(p *engineconfig.EnginePrefs) *bool { return &p.ShowMemAlloc })

	camFS := NewFlagSet("camera")
	camShow := camFS.Bool("show", false, "show camera overlay")
	camHide := camFS.Bool("hide", false, "hide camera overlay")
	camReset := camFS.Bool("reset", false, "drop free-look rotation")
	r.Register("camera", "camera [--show|--hide|--reset]", camFS, func() error {
		if *camShow || *camHide {
			if err := setToggle(d, &d.Prefs.ShowCamera, *camShow); err != nil {
				return err
			}
		}
		if *camReset && d.ResetOrbit != nil {
			d.ResetOrbit()
		}
		if d.DescribeView != nil {
			d.Log.Log(d.DescribeView())
		}
		return nil
	})

	modelFS := NewFlagSet("model")
	r.Register("model", "model <name>", modelFS, func() error {
		name, err := oneArg(modelFS.Args(), "model")
		if err != nil {
			return err
		}
		d.Prefs.AIModel = name
		d.Log.Log("AI model set to " + name)
		return savePrefs(d)
	})

	fontFS := NewFlagSet("font")
	r.Register("font", "font <family>", fontFS, func() error {
		family := strings.TrimSpace(strings.Join(fontFS.Args(), " "))
		if family == "" {
			return fmt.Errorf("expected a font family")
		}
		if d.LoadFont == nil {
			return fmt.Errorf("font: %w", errRejected)
		}
		d.Log.Log("loading font " + family)
		d.LoadFont(family)
		return nil
	})

	winFS := NewFlagSet("window")
	full := winFS.Bool("fullscreen", false, "fullscreen")
	windowed := winFS.Bool("windowed", false, "windowed")
	r.Register("window", "window --fullscreen|--windowed", winFS, func() error {
		if *full == *windowed {
			return fmt.Errorf("window: pass exactly one of --fullscreen or --windowed")
		}
		d.Prefs.Fullscreen = *full
		if d.SetFullscreen != nil {
			d.SetFullscreen(*full)
		}
		return savePrefs(d)
	})
}

func registerToggle(r *Registry, d Deps, name, help string, field func(*engineconfig.EnginePrefs) *bool) {
	fs := NewFlagSet(name)
	show := fs.Bool("show", false, help)
	hide := fs.Bool("hide", false, help)
	r.Register(name, name+" --show|--hide", fs, func() error {
		if *show == *hide {
			return fmt.Errorf("%s: pass exactly one of --show or --hide", name)
		}
		return setToggle(d, field(d.Prefs), *show)
	})
}

func setToggle(d Deps, field *bool, on bool) error {
	*field = on
	return savePrefs(d)
}

func savePrefs(d Deps) error {
	if d.SavePrefs == nil {
		return nil
	}
	if err := d.SavePrefs(*d.Prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("expected one %s argument", what)
	}
	return args[0], nil
}

func joinIDs(ids []catalog.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
