package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/catalog"
	"configurator/internal/paint"
	"configurator/internal/phase"
)

// Status is the scene-side information the overlay shows next to the store state.
type Status struct {
	Loading bool   // the selected vehicle's model is still loading
	Failed  string // non-empty when the model fell back to a placeholder
}

const (
	margin   = 24
	rowH     = 44
	rowGap   = 8
	sideW    = 340
	buttonW  = 160
	buttonH  = 44
	tabW     = 120
	navGap   = 12
	barH     = 10
	barGap   = 42
	sumRowH  = 30
	sumWidth = 520
)

// Overlay builds the node list for each phase.
type Overlay struct{}

// Build returns the nodes for st on a screen of w×h pixels.
func (Overlay) Build(st phase.State, cat *catalog.Catalog, w, h float32, status Status) []*Node {
	v, hasVariant := cat.Variant(st.Selected)
	var nodes []*Node
	switch st.Phase {
	case phase.Intro:
		nodes = intro(w, h)
	case phase.Selection:
		nodes = selection(st, cat, w, h)
	case phase.Configure:
		if hasVariant {
			nodes = configure(st, &v, w, h)
		}
	case phase.Performance:
		if hasVariant {
			nodes = performance(&v, w, h)
		}
	case phase.AR:
		if hasVariant {
			nodes = ar(&v, w, h)
		}
	case phase.Summary:
		if hasVariant {
			nodes = summary(st, &v, w, h)
		}
	}
	if st.Phase > phase.Selection && hasVariant {
		if status.Loading {
			nodes = append(nodes, NewNode("label", "status", "status", "Loading "+v.Name+"...").At(margin, h-margin-24, 400, 24))
		} else if status.Failed != "" {
			nodes = append(nodes, NewNode("label", "error", "status", "Model unavailable, showing placeholder").At(margin, h-margin-24, 400, 24))
		}
	}
	return nodes
}

func button(class, id, text string, onClick func(*phase.Store)) *Node {
	n := NewNode("button", "button "+class, id, text)
	n.OnClick = onClick
	return n
}

func advanceTo(p phase.Phase) func(*phase.Store) {
	return func(s *phase.Store) { s.Advance(p) }
}

// navRow lays buttons right-aligned along the bottom edge.
func navRow(w, h float32, buttons ...*Node) []*Node {
	x := w - margin - float32(len(buttons))*(buttonW+navGap) + navGap
	for _, b := range buttons {
		b.At(x, h-margin-buttonH, buttonW, buttonH)
		x += buttonW + navGap
	}
	return buttons
}

func intro(w, h float32) []*Node {
	return []*Node{
		NewNode("label", "title", "intro-title", "Configurator").At(0, h*0.3, w, 70),
		NewNode("label", "subtitle", "intro-sub", "Build your vehicle in 3D").At(0, h*0.3+76, w, 28),
		button("primary", "start", "Start", func(s *phase.Store) { s.CompleteIntro() }).
			At((w-buttonW)/2, h*0.3+140, buttonW, buttonH),
	}
}

func selection(st phase.State, cat *catalog.Catalog, w, h float32) []*Node {
	nodes := []*Node{
		NewNode("label", "title", "heading", "Choose your vehicle").At(margin, margin, w-2*margin, 44),
	}
	hint := "Click a vehicle to configure it"
	if v, ok := cat.Variant(st.Hovered); ok {
		hint = v.FullName + ". " + v.Tagline
	}
	if st.Selecting {
		if v, ok := cat.Variant(st.Selected); ok {
			hint = "Preparing " + v.FullName + "..."
		}
	}
	nodes = append(nodes, NewNode("label", "subtitle", "hint", hint).At(margin, margin+48, w-2*margin, 26))

	ids := cat.IDs()
	slotW := (w - 2*margin - float32(len(ids)-1)*navGap) / float32(max(len(ids), 1))
	for i, id := range ids {
		v, _ := cat.Variant(id)
		class := "option"
		if id == st.Hovered || id == st.Selected {
			class += " selected"
		}
		n := NewNode("button", class, "pick-"+string(id), v.Name+"  "+catalog.FormatPrice(v.BasePrice))
		n.OnClick = func(s *phase.Store) { s.SelectVariant(id) }
		nodes = append(nodes, n.At(margin+float32(i)*(slotW+navGap), h-margin-buttonH, slotW, buttonH))
	}
	return nodes
}

func configure(st phase.State, v *catalog.Variant, w, h float32) []*Node {
	nodes := []*Node{
		NewNode("label", "title", "name", v.FullName).At(margin, margin, sideW*1.5, 40),
		NewNode("label", "subtitle", "tagline", v.Tagline).At(margin, margin+42, sideW*1.5, 24),
	}

	tabsX := (w - float32(len(phase.Steps))*tabW) / 2
	for i, step := range phase.Steps {
		class := "tab"
		if st.Step == step {
			class += " active"
		}
		n := NewNode("button", class, "tab-"+step.String(), tabLabel(step))
		n.OnClick = func(s *phase.Store) { s.SetStep(step) }
		nodes = append(nodes, n.At(tabsX+float32(i)*tabW, margin, tabW, 36))
	}

	panelX := w - margin - sideW
	panelY := float32(margin + 56)
	rows := optionRows(st, v)
	panelH := float32(len(rows))*(rowH+rowGap) + 2*rowGap
	nodes = append(nodes, NewNode("panel", "panel", "options", "").At(panelX, panelY, sideW, panelH))
	y := panelY + rowGap
	for _, r := range rows {
		nodes = append(nodes, r.node.At(panelX+rowGap, y, sideW-2*rowGap, rowH))
		if r.delta != "" {
			nodes = append(nodes, NewNode("label", "delta", "", r.delta).At(panelX+rowGap, y, sideW-2*rowGap, rowH))
		}
		y += rowH + rowGap
	}

	total := NewNode("label", "price", "total", "Total "+catalog.FormatPrice(totalFor(st, v))).
		At(w-margin-sideW, h-margin-buttonH-40, sideW, 30)
	nodes = append(nodes, total)
	nodes = append(nodes, navRow(w, h,
		button("", "back", "Back", advanceTo(phase.Selection)),
		button("", "performance", "Performance", advanceTo(phase.Performance)),
		button("primary", "summary", "Summary", advanceTo(phase.Summary)),
	)...)
	return nodes
}

func tabLabel(step phase.Step) string {
	name := step.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

type optionRow struct {
	node  *Node
	delta string
}

func optionRows(st phase.State, v *catalog.Variant) []optionRow {
	var rows []optionRow
	add := func(id, text string, selected bool, delta string, onClick func(*phase.Store)) *Node {
		class := "option"
		if selected {
			class += " selected"
		}
		n := NewNode("button", class, id, text)
		n.OnClick = onClick
		rows = append(rows, optionRow{node: n, delta: delta})
		return n
	}
	o := st.Options
	switch st.Step {
	case phase.StepColor:
		for _, c := range v.Colors {
			hex := paint.MustHex(c.Hex).Hex()
			n := add("color-"+c.Key, c.Label, hex == o.Color, "", setOption(phase.OptColor, c.Key))
			n.Swatch, n.HasSwatch = swatch(hex), true
		}
		if _, ok := v.ColorByHex(o.Color); !ok && o.Color != "" {
			n := add("color-custom", "Custom "+o.Color, true, "", nil)
			n.Swatch, n.HasSwatch = swatch(o.Color), true
		}
	case phase.StepWheels:
		for _, wh := range v.Wheels {
			add("wheels-"+wh.Key, wh.Label, wh.Key == o.Wheels, catalog.FormatDelta(wh.Price), setOption(phase.OptWheels, wh.Key))
		}
	case phase.StepInterior:
		for _, in := range v.Interiors {
			n := add("interior-"+in.Key, in.Label, in.Key == o.Interior, "", setOption(phase.OptInterior, in.Key))
			n.Swatch, n.HasSwatch = swatch(in.Hex), true
		}
	case phase.StepPackages:
		for _, p := range v.Packages {
			selected := false
			for _, k := range o.Packages {
				selected = selected || k == p.Key
			}
			add("package-"+p.Key, p.Label, selected, catalog.FormatDelta(p.Price), setOption(phase.OptPackage, p.Key))
		}
	}
	return rows
}

func setOption(kind phase.OptionKind, key string) func(*phase.Store) {
	return func(s *phase.Store) { s.SetOption(kind, key) }
}

func swatch(hex string) rl.Color {
	c, _ := paint.ParseHex(hex)
	r, g, b := c.RGBA8()
	return rl.NewColor(r, g, b, 255)
}

func performance(v *catalog.Variant, w, h float32) []*Node {
	nodes := []*Node{
		NewNode("label", "title", "name", v.FullName).At(margin, margin, w-2*margin, 40),
		NewNode("label", "subtitle", "tagline", "Performance").At(margin, margin+42, w-2*margin, 24),
	}
	panelH := float32(len(v.Performance))*barGap + 2*rowGap
	panelY := h - margin - buttonH - 24 - panelH
	nodes = append(nodes, NewNode("panel", "panel", "stats", "").At(margin, panelY, sideW+80, panelH))
	y := panelY + rowGap
	for i, s := range v.Performance {
		label := NewNode("label", "label", fmt.Sprintf("stat-%d", i), s.Label).At(margin+12, y, sideW/2, 22)
		value := NewNode("label", "price", fmt.Sprintf("stat-value-%d", i), s.Value).At(margin+12, y, sideW+56, 22)
		bar := NewNode("bar", "bar", fmt.Sprintf("stat-bar-%d", i), "").At(margin+12, y+24, sideW+56, barH)
		bar.Fill = float32(s.Bar) / 100
		nodes = append(nodes, label, value, bar)
		y += barGap
	}
	return append(nodes, navRow(w, h,
		button("", "back", "Back", advanceTo(phase.Configure)),
		button("", "ar", "View in AR", advanceTo(phase.AR)),
		button("primary", "summary", "Summary", advanceTo(phase.Summary)),
	)...)
}

// ar is the simulated AR preview: the live vehicle on a floor grid, orbitable.
func ar(v *catalog.Variant, w, h float32) []*Node {
	name := v.FullName
	if name == "" {
		name = v.Name
	}
	return append([]*Node{
		NewNode("label", "title", "heading", "AR simulation").At(margin, margin, w-2*margin, 44),
		NewNode("label", "subtitle", "vehicle", name).At(margin, margin+48, w-2*margin, 26),
		NewNode("label", "status", "hint", "Drag to rotate, scroll to zoom. Surface detection is simulated.").At(margin, margin+78, w-2*margin, 22),
	}, navRow(w, h,
		button("", "back", "Back", advanceTo(phase.Performance)),
		button("primary", "summary", "Summary", advanceTo(phase.Summary)),
	)...)
}

// summaryLines lists the configuration with prices; interior trims are shown unpriced.
func summaryLines(st phase.State, v *catalog.Variant) [][2]string {
	o := st.Options
	color := "Custom " + o.Color
	if c, ok := v.ColorByHex(o.Color); ok {
		color = c.Label
	}
	lines := [][2]string{
		{v.FullName, catalog.FormatPrice(v.BasePrice)},
		{"Paint: " + color, catalog.FormatDelta(0)},
	}
	if wh, ok := v.Wheel(o.Wheels); ok {
		lines = append(lines, [2]string{"Wheels: " + wh.Label, catalog.FormatDelta(wh.Price)})
	}
	if in, ok := v.Interior(o.Interior); ok {
		lines = append(lines, [2]string{"Interior: " + in.Label, ""})
	}
	for _, k := range o.Packages {
		if p, ok := v.Package(k); ok {
			lines = append(lines, [2]string{p.Label, catalog.FormatDelta(p.Price)})
		}
	}
	return append(lines, [2]string{"Total", catalog.FormatPrice(totalFor(st, v))})
}

func totalFor(st phase.State, v *catalog.Variant) int64 {
	return v.TotalPrice(st.Options.Wheels, st.Options.Packages)
}

func summary(st phase.State, v *catalog.Variant, w, h float32) []*Node {
	lines := summaryLines(st, v)
	panelH := float32(len(lines))*sumRowH + 60
	x := (w - sumWidth) / 2
	y := (h - panelH - buttonH) / 2
	nodes := []*Node{
		NewNode("panel", "panel", "summary", "").At(x, y, sumWidth, panelH),
		NewNode("label", "title", "heading", "Your configuration").At(x+16, y+8, sumWidth-32, 40),
	}
	rowY := y + 52
	for i, l := range lines {
		nodes = append(nodes,
			NewNode("label", "label", fmt.Sprintf("line-%d", i), l[0]).At(x+16, rowY, sumWidth-32, sumRowH),
			NewNode("label", "price", fmt.Sprintf("line-price-%d", i), l[1]).At(x+16, rowY, sumWidth-32, sumRowH),
		)
		rowY += sumRowH
	}
	return append(nodes, navRow(w, h,
		button("", "edit", "Edit", advanceTo(phase.Configure)),
		button("primary", "restart", "Start over", func(s *phase.Store) { s.Reset() }),
	)...)
}
