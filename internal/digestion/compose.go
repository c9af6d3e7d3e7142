package digestion

import "strings"

// Category tags the reference dataset groups foods by
type Category string

const (
	CategoryFruit      Category = "fruit"
	CategoryVegetable  Category = "vegetable"
	CategoryCarb       Category = "carb"
	CategoryProtein    Category = "protein"
	CategoryMilkStage1 Category = "milk_stage1"
	CategoryMilkStage2 Category = "milk_stage2"
)

// Categories lists every dataset category in bucket order
var Categories = []Category{
	CategoryFruit, CategoryVegetable, CategoryCarb, CategoryProtein, CategoryMilkStage1, CategoryMilkStage2,
}

// Label is the caregiver-facing bucket name
func (c Category) Label() string {
	switch c {
	case CategoryFruit:
		return "Fruit"
	case CategoryVegetable:
		return "Vegetable"
	case CategoryCarb:
		return "Carb"
	case CategoryProtein:
		return "Protein"
	case CategoryMilkStage1:
		return "Milk (Stage 1)"
	case CategoryMilkStage2:
		return "Milk (Stage 2)"
	}
	return string(c)
}

// IsMilk reports whether c is one of the milk-stage buckets
func (c Category) IsMilk() bool {
	return c == CategoryMilkStage1 || c == CategoryMilkStage2
}

// ValidCategory reports whether s names a known category
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

const (
	// MaxMealSuggestions caps the meal list
	MaxMealSuggestions = 2

	ReasonIncreaseFiber = "softens stool, aids regularity"
	ReasonDecreaseFiber = "gentler on loose stools"
	ReasonBalanced      = "supports steady digestion"
	ReasonLowHydration  = "; offer extra fluids since hydration is low"
	ReasonMilk          = "age-appropriate milk source for this stage"

	MealReasonAgeOnly       = "Matched by age profile"
	MealReasonAgeAndReading = "Matched by age and current digestion pattern"
)

// Child is the profile data the composer reads
type Child struct {
	ID        int64
	Name      string
	AgeMonths int
	Allergies []string
}

// Reading is one recorded digestion observation
type Reading struct {
	StoolType      *int
	StoolFrequency *int
	Hydration      string
}

// ComposeInput bundles everything one recommendation is built from.
// Latest is nil when the child has no readings yet.
type ComposeInput struct {
	Child  Child
	Latest *Reading
	Foods  map[Category][]Food
	Meals  []Meal
}

// Recommendation is the payload returned to caregivers
type Recommendation struct {
	Child                     ChildSummary      `json:"child"`
	Condition                 Condition         `json:"condition"`
	Need                      Need              `json:"need"`
	FeedingGuidance           FeedingGuidance   `json:"feedingGuidance"`
	MealRecommendations       []MealSuggestion  `json:"mealRecommendations"`
	IngredientRecommendations []IngredientGroup `json:"ingredientRecommendations"`
}

type ChildSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

type Condition struct {
	StoolType *int    `json:"stoolType"`
	Hydration *string `json:"hydration"`
}

type FeedingGuidance struct {
	RecommendedType FeedingStyle `json:"recommendedType"`
	Message         string       `json:"message"`
	AllowedTextures []Texture    `json:"allowedTextures"`
}

type AgeRange struct {
	MinMonths int `json:"minMonths"`
	MaxMonths int `json:"maxMonths"`
}

type MealSuggestion struct {
	Name        string    `json:"name"`
	MealType    string    `json:"mealType"`
	Description string    `json:"description"`
	Texture     Texture   `json:"texture"`
	AgeRange    AgeRange  `json:"ageRange"`
	Reason      string    `json:"reason"`
	Nutrients   Nutrients `json:"nutrients"`
}

type IngredientGroup struct {
	Category string           `json:"category"`
	Reason   string           `json:"reason"`
	Items    []IngredientItem `json:"items"`
}

type IngredientItem struct {
	Name      string    `json:"name"`
	Nutrients Nutrients `json:"nutrients"`
	Quantity  *float64  `json:"quantity"`
	Unit      *string   `json:"unit"`
}

// Rationale explains a non-milk bucket for the given need and hydration label
func Rationale(need Need, hydration string) string {
	var reason string
	switch need {
	case NeedIncreaseFiber:
		reason = ReasonIncreaseFiber
	case NeedDecreaseFiber:
		reason = ReasonDecreaseFiber
	default:
		reason = ReasonBalanced
	}
	if strings.EqualFold(strings.TrimSpace(hydration), "low") {
		reason += ReasonLowHydration
	}
	return reason
}

// Compose builds the recommendation for one child. It never fails: missing
// readings fall back to age-only guidance and an empty meal match yields an
// empty list.
func Compose(in ComposeInput) Recommendation {
	var stoolType *int
	var hydration string
	if in.Latest != nil {
		stoolType = in.Latest.StoolType
		hydration = in.Latest.Hydration
	}

	need := ClassifyNeed(stoolType)
	advice := AdviseTexture(in.Child.AgeMonths, stoolType, need)
	allergies := normalizeAllergies(in.Child.Allergies)

	rec := Recommendation{
		Child: ChildSummary{ID: in.Child.ID, Name: in.Child.Name, Age: in.Child.AgeMonths},
		Condition: Condition{
			StoolType: stoolType,
		},
		Need: need,
		FeedingGuidance: FeedingGuidance{
			RecommendedType: advice.FeedingStyle,
			Message:         advice.Message,
			AllowedTextures: advice.AllowedTextures,
		},
	}
	if hydration != "" {
		h := hydration
		rec.Condition.Hydration = &h
	}

	rationale := Rationale(need, hydration)
	rec.IngredientRecommendations = make([]IngredientGroup, 0, len(Categories))
	for _, category := range Categories {
		reason := rationale
		if category.IsMilk() {
			reason = ReasonMilk
		}

		candidates := make([]Food, 0, len(in.Foods[category]))
		for _, food := range in.Foods[category] {
			if !matchesAllergy(food.Name, allergies) {
				candidates = append(candidates, food)
			}
		}

		ranked := RankFoods(candidates, need, DefaultRankLimit)
		items := make([]IngredientItem, 0, len(ranked))
		for _, food := range ranked {
			items = append(items, IngredientItem{
				Name:      food.Name,
				Nutrients: food.Nutrients,
				Quantity:  food.Quantity,
				Unit:      food.Unit,
			})
		}

		rec.IngredientRecommendations = append(rec.IngredientRecommendations, IngredientGroup{
			Category: category.Label(),
			Reason:   reason,
			Items:    items,
		})
	}

	mealReason := MealReasonAgeOnly
	if in.Latest != nil {
		mealReason = MealReasonAgeAndReading
	}

	var eligible []Meal
	for _, meal := range in.Meals {
		if in.Child.AgeMonths < meal.MinAgeMonths || in.Child.AgeMonths > meal.MaxAgeMonths {
			continue
		}
		if !advice.Allows(meal.Texture) || matchesAllergy(meal.Name, allergies) {
			continue
		}
		eligible = append(eligible, meal)
	}

	rec.MealRecommendations = make([]MealSuggestion, 0, MaxMealSuggestions)
	for _, meal := range RankMeals(eligible, need, MaxMealSuggestions) {
		rec.MealRecommendations = append(rec.MealRecommendations, MealSuggestion{
			Name:        meal.Name,
			MealType:    meal.MealType,
			Description: meal.Description,
			Texture:     meal.Texture,
			AgeRange:    AgeRange{MinMonths: meal.MinAgeMonths, MaxMonths: meal.MaxAgeMonths},
			Reason:      mealReason,
			Nutrients:   meal.Nutrients,
		})
	}

	return rec
}

func normalizeAllergies(raw []string) []string {
	var terms []string
	for _, term := range raw {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

func matchesAllergy(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
