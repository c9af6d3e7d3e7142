package digestion

import (
	"sort"
	"strings"
)

// DefaultRankLimit applies when a caller passes a non-positive limit
const DefaultRankLimit = 3

// Nutrients per reference serving. Nil means the dataset has no value.
type Nutrients struct {
	Fiber    *float64 `json:"fiber"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Sugar    *float64 `json:"sugar"`
}

// Food is one reference-dataset item
type Food struct {
	Name      string
	Category  Category
	Nutrients Nutrients
	Quantity  *float64
	Unit      *string
}

// Meal is a prepared meal template with an age window and texture tag
type Meal struct {
	Name         string
	MealType     string
	Description  string
	MinAgeMonths int
	MaxAgeMonths int
	Texture      Texture
	Nutrients    Nutrients
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// RankFoods orders foods by fiber for the given need and returns the top limit.
// Loose stools get the gentlest (lowest fiber) items first; every other need
// gets the richest first. Equal fiber falls back to name ascending.
// The input slice is left untouched.
func RankFoods(items []Food, need Need, limit int) []Food {
	ranked := make([]Food, len(items))
	copy(ranked, items)

	ascending := need == NeedDecreaseFiber
	sort.SliceStable(ranked, func(i, j int) bool {
		return lessByKey(valueOrZero(ranked[i].Nutrients.Fiber), valueOrZero(ranked[j].Nutrients.Fiber),
			ranked[i].Name, ranked[j].Name, ascending)
	})

	return truncate(ranked, limit)
}

// RankMeals orders meal templates like RankFoods, except a balanced need
// favors protein (descending) over fiber.
func RankMeals(meals []Meal, need Need, limit int) []Meal {
	ranked := make([]Meal, len(meals))
	copy(ranked, meals)

	key := func(m Meal) float64 { return valueOrZero(m.Nutrients.Fiber) }
	if need == NeedBalanced {
		key = func(m Meal) float64 { return valueOrZero(m.Nutrients.Protein) }
	}
	ascending := need == NeedDecreaseFiber

	sort.SliceStable(ranked, func(i, j int) bool {
		return lessByKey(key(ranked[i]), key(ranked[j]), ranked[i].Name, ranked[j].Name, ascending)
	})

	return truncate(ranked, limit)
}

// TopFiber returns the highest-fiber foods across all categories, keeping one
// entry per case-insensitive name (the one with the most fiber).
func TopFiber(items []Food, limit int) []Food {
	if limit <= 0 {
		limit = 5
	}

	best := make(map[string]Food, len(items))
	var order []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if key == "" {
			continue
		}
		current, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = item
			continue
		}
		if valueOrZero(item.Nutrients.Fiber) > valueOrZero(current.Nutrients.Fiber) {
			best[key] = item
		}
	}

	deduped := make([]Food, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, best[key])
	}
	return RankFoods(deduped, NeedIncreaseFiber, limit)
}

func lessByKey(a, b float64, nameA, nameB string, ascending bool) bool {
	if a != b {
		if ascending {
			return a < b
		}
		return a > b
	}
	if la, lb := strings.ToLower(nameA), strings.ToLower(nameB); la != lb {
		return la < lb
	}
	return nameA < nameB
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 {
		limit = DefaultRankLimit
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
