package catalog

import (
	"strings"

	"configurator/internal/paint"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Wheel looks up a wheel option by key.
func (v *Variant) Wheel(key string) (WheelOption, bool) {
	for _, w := range v.Wheels {
		if w.Key == key {
			return w, true
		}
	}
	return WheelOption{}, false
}

// Interior looks up an interior option by key.
func (v *Variant) Interior(key string) (InteriorOption, bool) {
	for _, in := range v.Interiors {
		if in.Key == key {
			return in, true
		}
	}
	return InteriorOption{}, false
}

// Package looks up a package by key.
func (v *Variant) Package(key string) (Package, bool) {
	for _, p := range v.Packages {
		if p.Key == key {
			return p, true
		}
	}
	return Package{}, false
}

// ColorByKey looks up a paint option by key.
func (v *Variant) ColorByKey(key string) (ColorOption, bool) {
	for _, c := range v.Colors {
		if c.Key == key {
			return c, true
		}
	}
	return ColorOption{}, false
}

// ColorByHex finds the paint option whose hex matches (case-insensitive).
func (v *Variant) ColorByHex(hex string) (ColorOption, bool) {
	for _, c := range v.Colors {
		if strings.EqualFold(c.Hex, hex) {
			return c, true
		}
	}
	return ColorOption{}, false
}

// BodyColor returns the parsed default paint.
func (v *Variant) BodyColor() paint.Color {
	c, _ := paint.ParseHex(v.DefaultColor)
	return c
}

// DefaultWheels is the first wheel option, the one included in the base price.
func (v *Variant) DefaultWheels() string {
	if len(v.Wheels) == 0 {
		return ""
	}
	return v.Wheels[0].Key
}

// DefaultInterior is the first interior option.
func (v *Variant) DefaultInterior() string {
	if len(v.Interiors) == 0 {
		return ""
	}
	return v.Interiors[0].Key
}

// TotalPrice is base price + selected wheel delta + the sum of selected package deltas.
// Unknown keys contribute nothing.
func (v *Variant) TotalPrice(wheels string, packages []string) int64 {
	total := v.BasePrice
	if w, ok := v.Wheel(wheels); ok {
		total += w.Price
	}
	for _, key := range packages {
		if p, ok := v.Package(key); ok {
			total += p.Price
		}
	}
	return total
}

var pricePrinter = message.NewPrinter(language.German)

// FormatPrice renders whole euros the way the showroom does, e.g. "230.700 €".
func FormatPrice(eur int64) string {
	return pricePrinter.Sprintf("%v €", number.Decimal(eur, number.MaxFractionDigits(0)))
}

// FormatDelta renders an option surcharge: "Included" for zero, "+ 1.800 €" otherwise.
func FormatDelta(eur int64) string {
	if eur == 0 {
		return "Included"
	}
	return "+ " + FormatPrice(eur)
}
