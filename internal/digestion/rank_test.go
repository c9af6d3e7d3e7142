package digestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func food(name string, fiber *float64) Food {
	return Food{Name: name, Category: CategoryFruit, Nutrients: Nutrients{Fiber: fiber}}
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, name(item))
	}
	return out
}

func foodNames(items []Food) []string { return names(items, func(f Food) string { return f.Name }) }
func mealNames(items []Meal) []string { return names(items, func(m Meal) string { return m.Name }) }

func TestRankFoods(t *testing.T) {
	items := []Food{
		food("Pear", f64(3.1)),
		food("Banana", f64(2.0)),
		food("Prune", f64(7.1)),
		food("Apple", f64(2.0)),
		food("Melon", nil),
	}

	tests := []struct {
		name  string
		need  Need
		limit int
		want  []string
	}{
		{"increase fiber richest first", NeedIncreaseFiber, 3, []string{"Prune", "Pear", "Apple"}},
		{"balanced richest first", NeedBalanced, 5, []string{"Prune", "Pear", "Apple", "Banana", "Melon"}},
		{"decrease fiber gentlest first", NeedDecreaseFiber, 3, []string{"Melon", "Apple", "Banana"}},
		{"non-positive limit defaults to three", NeedIncreaseFiber, 0, []string{"Prune", "Pear", "Apple"}},
		{"limit larger than input", NeedDecreaseFiber, 10, []string{"Melon", "Apple", "Banana", "Pear", "Prune"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, foodNames(RankFoods(items, tt.need, tt.limit)))
		})
	}
}

func TestRankFoodsOrdering(t *testing.T) {
	items := []Food{
		food("Kiwi", f64(3.0)), food("Fig", f64(2.9)), food("Date", f64(8.0)),
		food("Plum", f64(1.4)), food("Grape", f64(0.9)), food("Lime", f64(2.8)),
	}

	asc := RankFoods(items, NeedDecreaseFiber, len(items))
	for i := 1; i < len(asc); i++ {
		assert.LessOrEqual(t, *asc[i-1].Nutrients.Fiber, *asc[i].Nutrients.Fiber)
	}

	for _, need := range []Need{NeedIncreaseFiber, NeedBalanced} {
		desc := RankFoods(items, need, len(items))
		for i := 1; i < len(desc); i++ {
			assert.GreaterOrEqual(t, *desc[i-1].Nutrients.Fiber, *desc[i].Nutrients.Fiber)
		}
	}
}

func TestRankFoodsTieBreakByName(t *testing.T) {
	items := []Food{food("Banana", f64(2.0)), food("Apple", f64(2.0))}

	for _, need := range []Need{NeedIncreaseFiber, NeedDecreaseFiber, NeedBalanced} {
		ranked := RankFoods(items, need, 3)
		require.Len(t, ranked, 2)
		assert.Equal(t, "Apple", ranked[0].Name, "need %s", need)
	}
}

func TestRankFoodsDoesNotMutateInput(t *testing.T) {
	items := []Food{food("Banana", f64(1)), food("Apple", f64(5))}
	_ = RankFoods(items, NeedIncreaseFiber, 3)
	assert.Equal(t, []string{"Banana", "Apple"}, foodNames(items))
}

func TestRankMeals(t *testing.T) {
	meals := []Meal{
		{Name: "Lentil Stew", Nutrients: Nutrients{Fiber: f64(6.5), Protein: f64(8)}},
		{Name: "Chicken Rice", Nutrients: Nutrients{Fiber: f64(0.6), Protein: f64(18)}},
		{Name: "Oat Porridge", Nutrients: Nutrients{Fiber: f64(3.5), Protein: f64(4)}},
		{Name: "Apple Puree", Nutrients: Nutrients{Fiber: f64(2.4)}},
	}

	tests := []struct {
		name string
		need Need
		want []string
	}{
		{"balanced favors protein", NeedBalanced, []string{"Chicken Rice", "Lentil Stew", "Oat Porridge"}},
		{"increase fiber favors fiber", NeedIncreaseFiber, []string{"Lentil Stew", "Oat Porridge", "Apple Puree"}},
		{"decrease fiber gentlest first", NeedDecreaseFiber, []string{"Chicken Rice", "Apple Puree", "Oat Porridge"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mealNames(RankMeals(meals, tt.need, 0)))
		})
	}
}

func TestRankMealsTieBreakByName(t *testing.T) {
	meals := []Meal{
		{Name: "Zucchini Pasta", Nutrients: Nutrients{Protein: f64(6)}},
		{Name: "Bean Tacos", Nutrients: Nutrients{Protein: f64(6)}},
	}
	assert.Equal(t, []string{"Bean Tacos", "Zucchini Pasta"}, mealNames(RankMeals(meals, NeedBalanced, 2)))
}

func TestTopFiber(t *testing.T) {
	items := []Food{
		food("Apple", f64(2.4)),
		food("apple", f64(3.0)),
		food("Prune", f64(7.1)),
		food("Lentils", f64(7.9)),
		food("Rice", f64(0.4)),
		food("Peas", f64(5.1)),
		food("Pear", f64(3.1)),
		food("", f64(99)),
	}

	top := TopFiber(items, 0)
	assert.Equal(t, []string{"Lentils", "Prune", "Peas", "Pear", "apple"}, foodNames(top))
	assert.Equal(t, 3.0, *top[4].Nutrients.Fiber)

	assert.Len(t, TopFiber(items, 2), 2)
}
