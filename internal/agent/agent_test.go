package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configurator/internal/catalog"
	"configurator/internal/commands"
	"configurator/internal/logger"
	"configurator/internal/phase"
)

type stubClient struct {
	reply string
	err   error

	model, system, user string
}

func (c *stubClient) Complete(_ context.Context, model, system, user string) (string, error) {
	c.model, c.system, c.user = model, system, user
	return c.reply, c.err
}

func TestParseActions(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		n     int
		err   bool
	}{
		{"array", `{"actions":[{"action":"reset"},{"action":"advance","phase":"summary"}]}`, 2, false},
		{"fenced", "```json\n{\"actions\":[{\"action\":\"reset\"}]}\n```", 1, false},
		{"surrounding text", `Sure! {"actions":[{"action":"reset"}]} hope that helps`, 1, false},
		{"single in actions", `{"actions":{"action":"reset"}}`, 1, false},
		{"top-level action", `{"action":"reset"}`, 1, false},
		{"braces in strings", `{"actions":[{"action":"run_cmd","args":["model","}{weird"]}]}`, 1, false},
		{"no object", `I can't do that`, 0, true},
		{"unbalanced", `{"actions":[`, 0, true},
		{"no actions", `{"answer":42}`, 0, true},
		{"bad json", `{"actions":[,]}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseActions(tt.reply)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.n)
		})
	}
}

func TestRunReportsPerAction(t *testing.T) {
	client := &stubClient{reply: `{"actions":[{"action":"ok"},{"action":"bad"},{"action":"mystery"},{},"x"]}`}
	a := New(client, func() string { return "" }, "SYSTEM")
	var calls int
	a.RegisterHandler("ok", func(map[string]any) error { calls++; return nil })
	a.RegisterHandler("bad", func(map[string]any) error { return errors.New("nope") })

	summary, err := a.Run(context.Background(), "do things", "phase=intro")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, summary, `action 2 (bad): nope`)
	assert.Contains(t, summary, `action 3: unknown action "mystery"`)
	assert.Contains(t, summary, `action 4: missing action`)
	assert.Contains(t, summary, `action 5: not an object`)

	assert.Equal(t, DefaultModel, client.model)
	assert.Equal(t, "SYSTEM", client.system)
	assert.Equal(t, "Current view: phase=intro\n\nRequest: do things", client.user)
	assert.Equal(t, []string{"bad", "ok"}, a.Actions())
}

func TestRunSummaries(t *testing.T) {
	client := &stubClient{reply: `{"actions":[{"action":"ok"},{"action":"ok"}]}`}
	a := New(client, func() string { return "llama3" }, "")
	a.RegisterHandler("ok", func(map[string]any) error { return nil })

	summary, err := a.Run(context.Background(), "twice", "")
	require.NoError(t, err)
	assert.Equal(t, "Done. Applied 2 action(s).", summary)
	assert.Equal(t, "llama3", client.model)
	assert.Equal(t, "twice", client.user)

	client.reply = `{"actions":[]}`
	summary, err = a.Run(context.Background(), "nothing", "")
	require.NoError(t, err)
	assert.Equal(t, "No actions to apply.", summary)

	client.reply = "no json here"
	_, err = a.Run(context.Background(), "?", "")
	assert.ErrorContains(t, err, "model reply invalid")

	client.err = errors.New("offline")
	_, err = a.Run(context.Background(), "?", "")
	assert.EqualError(t, err, "offline")
}

type harness struct {
	agent *Agent
	store *phase.Store
	log   *logger.Logger
	reg   *commands.Registry
	now   time.Time
	cli   *stubClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cat, err := catalog.Embedded()
	require.NoError(t, err)
	h := &harness{log: logger.Discard(), reg: commands.NewRegistry(), now: time.Unix(0, 0), cli: &stubClient{}}
	h.store = phase.NewStore(cat, phase.WithClock(func() time.Time { return h.now }))
	h.agent = New(h.cli, func() string { return "" }, BuildPrompt(cat))
	RegisterConfiguratorHandlers(h.agent, h.store, h.reg, h.log)
	return h
}

func (h *harness) run(t *testing.T, reply string) string {
	t.Helper()
	h.cli.reply = reply
	summary, err := h.agent.Run(context.Background(), "request", "")
	require.NoError(t, err)
	return summary
}

func TestHandlersQueueUntilUpdate(t *testing.T) {
	h := newHarness(t)
	h.run(t, `{"actions":[{"action":"select_variant","id":"taycan"}]}`)
	assert.Equal(t, phase.Intro, h.store.Phase(), "nothing applied before Update")

	h.store.Update()
	st := h.store.State()
	assert.Equal(t, phase.Selection, st.Phase)
	assert.Equal(t, catalog.ID("taycan"), st.Selected)

	h.now = h.now.Add(phase.DefaultSettleDelay)
	h.store.Update()
	assert.Equal(t, phase.Configure, h.store.Phase())

	h.run(t, `{"actions":[
		{"action":"set_option","kind":"color","value":"chalk"},
		{"action":"set_option","kind":"package","value":"bose"},
		{"action":"set_step","step":"wheels"}]}`)
	h.store.Update()
	st = h.store.State()
	assert.Equal(t, "#D8D4C8", st.Options.Color)
	assert.Equal(t, []string{"bose"}, st.Options.Packages)
	assert.Equal(t, phase.StepWheels, st.Step)

	h.run(t, `{"actions":[{"action":"advance","phase":"summary"}]}`)
	h.store.Update()
	assert.Equal(t, phase.Summary, h.store.Phase())

	h.run(t, `{"action":"reset"}`)
	h.store.Update()
	assert.Equal(t, phase.Initial(), h.store.State())
}

func TestHandlersValidatePayloads(t *testing.T) {
	h := newHarness(t)
	summary := h.run(t, `{"actions":[
		{"action":"select_variant","id":"boxster"},
		{"action":"select_variant"},
		{"action":"set_option","kind":"spoiler","value":"big"},
		{"action":"set_option","kind":"color"},
		{"action":"set_step","step":"trunk"},
		{"action":"advance","phase":"garage"},
		{"action":"run_cmd","args":[]},
		{"action":"run_cmd","args":["fps",1]}]}`)
	for _, want := range []string{
		`unknown variant "boxster"`, "missing id", `unknown option kind "spoiler"`, "missing value",
		`unknown step "trunk"`, `unknown phase "garage"`, "missing or empty args", "args must be strings",
	} {
		assert.Contains(t, summary, want)
	}
	h.store.Update()
	assert.Equal(t, phase.Initial(), h.store.State())
}

func TestRefusedTransitionsAreLogged(t *testing.T) {
	h := newHarness(t)
	h.run(t, `{"actions":[
		{"action":"advance","phase":"summary"},
		{"action":"set_option","kind":"color","value":"chalk"}]}`)
	h.store.Update()
	assert.Equal(t, phase.Intro, h.store.Phase())

	lines := h.log.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "warn: assistant action refused action=advance summary")
	assert.Contains(t, lines[1], "set_option color=chalk")
}

func TestRunCmdDispatches(t *testing.T) {
	h := newHarness(t)
	var ran int
	h.reg.Register("ping", "ping", commands.NewFlagSet("ping"), func() error { ran++; return nil })

	h.run(t, `{"actions":[{"action":"run_cmd","args":["ping"]},{"action":"run_cmd","args":["nope"]}]}`)
	assert.Zero(t, ran)
	h.store.Update()
	assert.Equal(t, 1, ran)
	assert.Contains(t, h.log.Lines()[0], "error: assistant command failed cmd=nope")
}

func TestPromptAndViewContext(t *testing.T) {
	cat, err := catalog.Embedded()
	require.NoError(t, err)
	prompt := BuildPrompt(cat)
	for _, id := range cat.IDs() {
		assert.Contains(t, prompt, "- "+string(id)+": ")
	}
	assert.Contains(t, prompt, "guards-red (Guards Red)")
	assert.Contains(t, prompt, "230.700 €")

	st := phase.Initial()
	assert.Equal(t, "phase=intro", ViewContext(st, cat))

	st.Phase = phase.Configure
	st.Selected = "911"
	st.Step = phase.StepWheels
	st.Options = phase.Options{Color: "#C0111F", Wheels: "sport-design", Interior: "black-leather", Packages: []string{"chrono"}}
	got := ViewContext(st, cat)
	assert.Contains(t, got, "selected=911 step=wheels color=#C0111F wheels=sport-design")
	assert.Contains(t, got, "packages=chrono")
	assert.Contains(t, got, "total=235.460 €")
}
