package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"configurator/internal/llm"
)

// Handler validates one action and schedules its effect. Payload is the action object,
// e.g. {"action":"set_option","kind":"color","value":"guards-red"}. Handlers run on the
// agent's goroutine and must not touch render-thread state directly.
type Handler func(payload map[string]any) error

// Agent turns natural language into configurator actions via an LLM.
type Agent struct {
	client   llm.Client
	model    func() string
	prompt   string
	handlers map[string]Handler
}

// DefaultModel is used when the model getter returns "".
const DefaultModel = "gpt-4o-mini"

var fence = regexp.MustCompile("^```\\w*\\n?")

// New returns an agent that sends prompt as the system message on every request.
func New(client llm.Client, model func() string, prompt string) *Agent {
	return &Agent{client: client, model: model, prompt: prompt, handlers: make(map[string]Handler)}
}

// RegisterHandler adds the handler for an action name.
func (a *Agent) RegisterHandler(action string, h Handler) {
	a.handlers[action] = h
}

// Actions returns the registered action names, sorted.
func (a *Agent) Actions() []string {
	out := make([]string, 0, len(a.handlers))
	for name := range a.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run asks the model about message, then hands each returned action to its handler. The
// summary reports what was queued and what was refused; err is set only when the model
// could not be reached or its reply held no actions.
func (a *Agent) Run(ctx context.Context, message, viewContext string) (summary string, err error) {
	model := a.model()
	if model == "" {
		model = DefaultModel
	}
	user := message
	if viewContext != "" {
		user = "Current view: " + viewContext + "\n\nRequest: " + message
	}
	reply, err := a.client.Complete(ctx, model, a.prompt, user)
	if err != nil {
		return "", err
	}
	actions, err := parseActions(reply)
	if err != nil {
		return "", fmt.Errorf("model reply invalid: %w", err)
	}

	var queued int
	var problems []string
	for i, raw := range actions {
		payload, ok := raw.(map[string]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("action %d: not an object", i+1))
			continue
		}
		name, _ := payload["action"].(string)
		h, ok := a.handlers[name]
		switch {
		case name == "":
			problems = append(problems, fmt.Sprintf("action %d: missing action", i+1))
		case !ok:
			problems = append(problems, fmt.Sprintf("action %d: unknown action %q", i+1, name))
		default:
			if err := h(payload); err != nil {
				problems = append(problems, fmt.Sprintf("action %d (%s): %v", i+1, name, err))
				continue
			}
			queued++
		}
	}
	switch {
	case len(problems) > 0:
		return strings.Join(problems, "; "), nil
	case queued > 0:
		return fmt.Sprintf("Done. Applied %d action(s).", queued), nil
	}
	return "No actions to apply.", nil
}

// parseActions extracts the action list from a reply. It tolerates code fences, text
// around the JSON object, and a single top-level action.
func parseActions(reply string) ([]any, error) {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = strings.TrimSpace(strings.TrimSuffix(fence.ReplaceAllString(reply, ""), "```"))
	}
	obj, err := firstObject(reply)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, err
	}
	switch v := raw["actions"].(type) {
	case []any:
		return v, nil
	case map[string]any:
		return []any{v}, nil
	}
	if _, ok := raw["action"]; ok {
		return []any{raw}, nil
	}
	return nil, errors.New(`reply has no "actions" array or "action" field`)
}

// firstObject returns the first balanced {...} in s, skipping braces inside strings.
func firstObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errors.New("no JSON object in reply")
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errors.New("unbalanced JSON braces")
}
