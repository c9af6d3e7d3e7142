package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitsFor(t *testing.T) {
	tests := []struct {
		description string
		want        []string
	}{
		{"Apple juice, canned", []string{"ml", "fl oz", "cup"}},
		{"Milk, whole", []string{"ml", "fl oz", "cup"}},
		{"Cereals, oats, dry", []string{"g", "tbsp", "tsp"}},
		{"Cocoa powder", []string{"g", "tbsp", "tsp"}},
		{"Fruit salad", []string{"g", "oz", "piece", "slice"}},
		{"Mixed vegetables, frozen", []string{"g", "oz", "piece", "slice"}},
		{"Babyfood, carrots, strained", []string{"g", "jar", "tbsp"}},
		{"Babyfood, juice, apple", []string{"ml", "fl oz", "cup"}},
		{"Chicken, breast, roasted", []string{"g", "oz", "tbsp", "tsp"}},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitsFor(tt.description))
		})
	}
}

func TestUnitsForReturnsFreshSlice(t *testing.T) {
	units := UnitsFor("water")
	units[0] = "changed"
	assert.Equal(t, "ml", UnitsFor("water")[0])
}

func TestDefaultServing(t *testing.T) {
	size := func(v float64) *float64 { return &v }

	tests := []struct {
		name        string
		description string
		serving     *float64
		unit        string
		wantSize    float64
		wantUnit    string
	}{
		{"baby food jar", "Babyfood, peas", nil, "", 113, "g"},
		{"baby keyword", "Baby cereal, rice", size(15), "g", 113, "g"},
		{"juice cup", "Orange juice", nil, "", 240, "ml"},
		{"cereal spoon", "Cereal, oat", nil, "", 15, "g"},
		{"fruit ounce", "Fruit cocktail", nil, "", 28, "g"},
		{"reported serving", "Chicken, thigh", size(85), "GRM", 85, "GRM"},
		{"fallback", "Chicken, thigh", nil, "", 100, "g"},
		{"zero serving falls back", "Tofu", size(0), "", 100, "g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSize, gotUnit := DefaultServing(tt.description, tt.serving, tt.unit)
			assert.Equal(t, tt.wantSize, gotSize)
			assert.Equal(t, tt.wantUnit, gotUnit)
		})
	}
}
