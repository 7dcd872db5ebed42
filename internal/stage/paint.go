package stage

import (
	"configurator/internal/catalog"
	"configurator/internal/classifier"
	"configurator/internal/paint"
	"configurator/internal/phase"
)

// PaintFor returns the paint job for v under st, and a key that changes whenever the job
// does. The selected vehicle wears the chosen options; every other vehicle its defaults.
func PaintFor(st phase.State, v *catalog.Variant) (classifier.Request, string) {
	body := v.BodyColor()
	interiorKey := v.DefaultInterior()
	if st.Selected == v.ID {
		if c, ok := paint.ParseHex(st.Options.Color); ok {
			body = c
		}
		if st.Options.Interior != "" {
			interiorKey = st.Options.Interior
		}
	}
	req := classifier.Request{Body: body}
	key := body.Hex()
	if in, ok := v.Interior(interiorKey); ok {
		if c, ok := paint.ParseHex(in.Hex); ok {
			req.Interior = &c
			key += "/" + c.Hex()
		}
	}
	return req, key
}
