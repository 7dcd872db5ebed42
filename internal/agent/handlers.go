package agent

import (
	"errors"
	"fmt"
	"strings"

	"configurator/internal/catalog"
	"configurator/internal/commands"
	"configurator/internal/logger"
	"configurator/internal/phase"
)

// RegisterConfiguratorHandlers registers the configurator actions. Payloads are checked on
// the agent goroutine; accepted actions are queued with store.Dispatch and applied at the
// next store.Update. Transitions the store refuses at that point are logged.
func RegisterConfiguratorHandlers(a *Agent, store *phase.Store, reg *commands.Registry, log *logger.Logger) {
	cat := store.Catalog()
	refused := func(what string) { log.Warn("assistant action refused", "action", what) }

	a.RegisterHandler("select_variant", func(p map[string]any) error {
		id, err := str(p, "id")
		if err != nil {
			return err
		}
		if !cat.Has(catalog.ID(id)) {
			return fmt.Errorf("unknown variant %q", id)
		}
		store.Dispatch(func(s *phase.Store) {
			if s.Phase() == phase.Intro {
				s.CompleteIntro()
			}
			if !s.SelectVariant(catalog.ID(id)) {
				refused("select_variant " + id)
			}
		})
		return nil
	})

	a.RegisterHandler("set_option", func(p map[string]any) error {
		k, err := str(p, "kind")
		if err != nil {
			return err
		}
		kind, ok := phase.ParseOptionKind(k)
		if !ok {
			return fmt.Errorf("unknown option kind %q", k)
		}
		value, err := str(p, "value")
		if err != nil {
			return err
		}
		store.Dispatch(func(s *phase.Store) {
			if !s.SetOption(kind, value) {
				refused(fmt.Sprintf("set_option %s=%s", kind, value))
			}
		})
		return nil
	})

	a.RegisterHandler("set_step", func(p map[string]any) error {
		name, err := str(p, "step")
		if err != nil {
			return err
		}
		step, ok := phase.ParseStep(name)
		if !ok {
			return fmt.Errorf("unknown step %q", name)
		}
		store.Dispatch(func(s *phase.Store) {
			if !s.SetStep(step) {
				refused("set_step " + name)
			}
		})
		return nil
	})

	a.RegisterHandler("advance", func(p map[string]any) error {
		name, err := str(p, "phase")
		if err != nil {
			return err
		}
		ph, ok := phase.ParsePhase(name)
		if !ok {
			return fmt.Errorf("unknown phase %q", name)
		}
		store.Dispatch(func(s *phase.Store) {
			if ph > phase.Selection && !s.State().HasSelection() {
				refused("advance " + ph.String())
				return
			}
			s.Advance(ph)
		})
		return nil
	})

	a.RegisterHandler("reset", func(map[string]any) error {
		store.Dispatch(func(s *phase.Store) { s.Reset() })
		return nil
	})

	a.RegisterHandler("run_cmd", func(p map[string]any) error {
		raw, ok := p["args"].([]any)
		if !ok || len(raw) == 0 {
			return errors.New("missing or empty args")
		}
		args := make([]string, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				return errors.New("args must be strings")
			}
			args = append(args, s)
		}
		store.Dispatch(func(*phase.Store) {
			if err := reg.Execute(args); err != nil {
				log.Error(err, "assistant command failed", "cmd", strings.Join(args, " "))
			}
		})
		return nil
	})
}

func str(p map[string]any, field string) (string, error) {
	s, ok := p[field].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("missing %s", field)
	}
	return strings.TrimSpace(s), nil
}
