package nutrition

import "strings"

type unitRule struct {
	keywords []string
	units    []string
}

// unitRules are checked in order; the first rule with a matching keyword wins
var unitRules = []unitRule{
	{keywords: []string{"juice", "milk", "water"}, units: []string{"ml", "fl oz", "cup"}},
	{keywords: []string{"cereal", "powder"}, units: []string{"g", "tbsp", "tsp"}},
	{keywords: []string{"fruit", "vegetable"}, units: []string{"g", "oz", "piece", "slice"}},
	{keywords: []string{"babyfood"}, units: []string{"g", "jar", "tbsp"}},
}

var defaultUnits = []string{"g", "oz", "tbsp", "tsp"}

type servingRule struct {
	keywords []string
	size     float64
	unit     string
}

// servingRules override the reported serving for common infant foods
var servingRules = []servingRule{
	{keywords: []string{"babyfood", "baby"}, size: 113, unit: "g"},
	{keywords: []string{"juice"}, size: 240, unit: "ml"},
	{keywords: []string{"cereal"}, size: 15, unit: "g"},
	{keywords: []string{"fruit"}, size: 28, unit: "g"},
}

const (
	fallbackServingSize = 100
	fallbackServingUnit = "g"
)

// UnitsFor suggests plausible measuring units for a food description
func UnitsFor(description string) []string {
	desc := strings.ToLower(description)
	for _, rule := range unitRules {
		if containsAny(desc, rule.keywords) {
			return append([]string(nil), rule.units...)
		}
	}
	return append([]string(nil), defaultUnits...)
}

// DefaultServing picks the serving shown first for a remote food. Keyword
// rules win over the reported serving, which falls back to 100 g.
func DefaultServing(description string, servingSize *float64, servingUnit string) (float64, string) {
	desc := strings.ToLower(description)
	for _, rule := range servingRules {
		if containsAny(desc, rule.keywords) {
			return rule.size, rule.unit
		}
	}

	size := float64(fallbackServingSize)
	if servingSize != nil && *servingSize > 0 {
		size = *servingSize
	}
	unit := strings.TrimSpace(servingUnit)
	if unit == "" {
		unit = fallbackServingUnit
	}
	return size, unit
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
