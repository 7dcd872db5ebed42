package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEmbedded(t *testing.T) *Catalog {
	t.Helper()
	c, err := Embedded()
	require.NoError(t, err)
	return c
}

func TestEmbeddedCatalog(t *testing.T) {
	c := mustEmbedded(t)
	assert.Equal(t, []ID{"911", "taycan", "cayenne"}, c.IDs())
	assert.Equal(t, 3, c.Len())

	v, ok := c.Variant("cayenne")
	require.True(t, ok)
	assert.InDelta(t, 0.92, v.Scale, 1e-6)
	assert.Equal(t, "standard", v.DefaultWheels())
	assert.Equal(t, "black-leather", v.DefaultInterior())
	assert.True(t, v.Presets.Wheels.Defined())
	assert.Equal(t, [3]float32{5, 2, 5}, v.Presets.Exterior.Position)
	assert.Equal(t, `GT 22" Standard`, v.Wheels[0].Label)

	_, ok = c.Variant("boxster")
	assert.False(t, ok)
	assert.False(t, c.Has("boxster"))
}

func TestVariantIsACopy(t *testing.T) {
	c := mustEmbedded(t)
	v, _ := c.Variant("911")
	v.Wheels[0].Price = 999999
	v.BasePrice = 1

	again, _ := c.Variant("911")
	assert.Equal(t, int64(0), again.Wheels[0].Price)
	assert.Equal(t, int64(230700), again.BasePrice)
}

func TestTotalPrice(t *testing.T) {
	c := mustEmbedded(t)
	v, _ := c.Variant("911")

	tests := []struct {
		name     string
		wheels   string
		packages []string
		want     int64
	}{
		{"base only", "standard", nil, 230700},
		{"wheels and two packages", "sport-design", []string{"chrono", "pccb"}, 244595},
		{"unknown keys ignored", "no-such-wheel", []string{"no-such-package"}, 230700},
		{"interior is not priced", "standard", []string{}, 230700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.TotalPrice(tt.wheels, tt.packages))
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "230.700 €", FormatPrice(230700))
	assert.Equal(t, "Included", FormatDelta(0))
	assert.Equal(t, "+ 1.800 €", FormatDelta(1800))
}

func TestParseRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "variants: []"},
		{"not yaml", "variants: [: :"},
		{"zero scale", `variants: [{id: a, scale: 0, default_color: "#000000", wheels: [{key: s}], interiors: [{key: i, hex: "#000"}]}]`},
		{"bad color", `variants: [{id: a, scale: 1, default_color: "red", wheels: [{key: s}], interiors: [{key: i, hex: "#000"}]}]`},
		{"no wheels", `variants: [{id: a, scale: 1, default_color: "#000000", interiors: [{key: i, hex: "#000"}]}]`},
		{"duplicate", `variants: [{id: a, scale: 1, default_color: "#000", wheels: [{key: s}], interiors: [{key: i, hex: "#000"}]}, {id: a, scale: 1, default_color: "#000", wheels: [{key: s}], interiors: [{key: i, hex: "#000"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLookups(t *testing.T) {
	c := mustEmbedded(t)
	v, _ := c.Variant("taycan")

	col, ok := v.ColorByHex("#d8d4c8")
	require.True(t, ok)
	assert.Equal(t, "chalk", col.Key)

	col, ok = v.ColorByKey("carmine-red")
	require.True(t, ok)
	assert.Equal(t, "#7B1528", col.Hex)

	in, ok := v.Interior("cognac-leather")
	require.True(t, ok)
	assert.Equal(t, "#7A4A2A", in.Hex)

	assert.Equal(t, "#1A1A2E", v.BodyColor().Hex())
}
