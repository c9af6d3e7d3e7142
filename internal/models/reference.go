package models

// ReferenceFood is an item of the local nutrition reference dataset.
// Nutrient values are per Quantity of Unit; milk categories carry no unit.
type ReferenceFood struct {
	ID       int64    `json:"id"`
	Category string   `json:"category"`
	Name     string   `json:"name"`
	Fiber    *float64 `json:"fiber"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Sugar    *float64 `json:"sugar"`
	Water    *float64 `json:"water"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

// MealTemplate is a prepared meal suitable for an age window
type MealTemplate struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	MealType      string   `json:"mealType"`
	Description   string   `json:"description"`
	MinAgeMonths  int      `json:"minAgeMonths"`
	MaxAgeMonths  int      `json:"maxAgeMonths"`
	Texture       string   `json:"texture"`
	TotalFiber    *float64 `json:"totalFiber"`
	TotalCalories *float64 `json:"totalCalories"`
	TotalProtein  *float64 `json:"totalProtein"`
	TotalSugar    *float64 `json:"totalSugar"`
}
