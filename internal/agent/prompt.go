package agent

import (
	"fmt"
	"strings"

	"configurator/internal/catalog"
	"configurator/internal/phase"
)

// BuildPrompt returns the system prompt listing the catalog and the action schema.
func BuildPrompt(cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("You drive a 3D vehicle configurator. The user types natural language; reply with exactly one JSON object {\"actions\":[...]} and nothing else. No markdown.\n\n")
	b.WriteString("Actions:\n")
	b.WriteString("- select_variant: {\"action\":\"select_variant\",\"id\":\"<variant id>\"} picks a vehicle on the selection screen.\n")
	b.WriteString("- set_option: {\"action\":\"set_option\",\"kind\":\"color|wheels|interior|package\",\"value\":\"<key>\"}; color also accepts \"#RRGGBB\"; package toggles.\n")
	b.WriteString("- set_step: {\"action\":\"set_step\",\"step\":\"color|wheels|interior|packages\"} switches the configure tab and camera.\n")
	b.WriteString("- advance: {\"action\":\"advance\",\"phase\":\"selection|configure|performance|ar|summary\"} navigates.\n")
	b.WriteString("- reset: {\"action\":\"reset\"} starts over.\n")
	b.WriteString("- run_cmd: {\"action\":\"run_cmd\",\"args\":[\"fps\",\"--show\"]} runs a console command (tokens after \"cmd \"): fps/memalloc/camera --show|--hide, camera --reset, window --fullscreen|--windowed, model <name>, price.\n\n")
	b.WriteString("Catalog:\n")
	for _, id := range cat.IDs() {
		v, _ := cat.Variant(id)
		fmt.Fprintf(&b, "- %s: %s, %s, from %s\n", v.ID, v.FullName, v.Tagline, catalog.FormatPrice(v.BasePrice))
		fmt.Fprintf(&b, "  colors: %s\n", keys(len(v.Colors), func(i int) string { return v.Colors[i].Key + " (" + v.Colors[i].Label + ")" }))
		fmt.Fprintf(&b, "  wheels: %s\n", keys(len(v.Wheels), func(i int) string { return v.Wheels[i].Key }))
		fmt.Fprintf(&b, "  interior: %s\n", keys(len(v.Interiors), func(i int) string { return v.Interiors[i].Key }))
		fmt.Fprintf(&b, "  packages: %s\n", keys(len(v.Packages), func(i int) string { return v.Packages[i].Key }))
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- A vehicle must be selected before options, steps, or phases after selection. To configure a vehicle from the start, emit select_variant first; it enters configure on its own.\n")
	b.WriteString("- For \"show me the wheels\" use set_step wheels. For \"paint it red\" pick the closest color key of the selected vehicle.\n")
	b.WriteString("- Only use keys from the catalog. Reply with only the JSON object.")
	return b.String()
}

func keys(n int, key func(int) string) string {
	out := make([]string, n)
	for i := range out {
		out[i] = key(i)
	}
	return strings.Join(out, ", ")
}

// ViewContext summarizes st for the model. Call it on the render thread.
func ViewContext(st phase.State, cat *catalog.Catalog) string {
	parts := []string{"phase=" + st.Phase.String()}
	if st.Hovered != "" {
		parts = append(parts, "hovered="+string(st.Hovered))
	}
	if v, ok := cat.Variant(st.Selected); ok {
		parts = append(parts,
			"selected="+string(v.ID),
			"step="+st.Step.String(),
			"color="+st.Options.Color,
			"wheels="+st.Options.Wheels,
			"interior="+st.Options.Interior,
		)
		if len(st.Options.Packages) > 0 {
			parts = append(parts, "packages="+strings.Join(st.Options.Packages, ","))
		}
		parts = append(parts, "total="+catalog.FormatPrice(v.TotalPrice(st.Options.Wheels, st.Options.Packages)))
	}
	if st.Selecting {
		parts = append(parts, "selection settling")
	}
	return strings.Join(parts, " ")
}
