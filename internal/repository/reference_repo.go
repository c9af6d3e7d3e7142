package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"happytummy/internal/database"
	"happytummy/internal/models"
)

// ReferenceRepository reads the baseline food dataset and meal templates
type ReferenceRepository struct {
	db *database.DB
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *database.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

const referenceFoodColumns = "id, category, name, fiber, calories, protein, sugar, water, quantity, unit"

// likeEscaper escapes LIKE metacharacters with '!', which no dialect treats specially
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// MatchFoods returns reference foods whose name contains query, case-insensitively, in dataset order.
// SQLite only folds ASCII in LOWER and LIKE, so a non-ASCII query is matched in Go against the whole dataset.
func (r *ReferenceRepository) MatchFoods(ctx context.Context, query string, limit int) ([]models.ReferenceFood, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	sqlQuery := "SELECT " + referenceFoodColumns + " FROM reference_foods"

	var args []any
	if isASCII(needle) {
		sqlQuery += " WHERE LOWER(name) LIKE ? ESCAPE '!' ORDER BY id"
		args = append(args, "%"+likeEscaper.Replace(needle)+"%")
		if limit > 0 {
			sqlQuery += " LIMIT ?"
			args = append(args, limit)
		}
	} else {
		sqlQuery += " ORDER BY id"
	}

	foods, err := r.listFoods(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}

	matched := foods[:0]
	for _, food := range foods {
		if strings.Contains(strings.ToLower(food.Name), needle) {
			matched = append(matched, food)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// ListFoods returns the whole dataset
func (r *ReferenceRepository) ListFoods(ctx context.Context) ([]models.ReferenceFood, error) {
	return r.listFoods(ctx, "SELECT "+referenceFoodColumns+" FROM reference_foods ORDER BY id")
}

// ListFoodsByCategory groups the dataset by category
func (r *ReferenceRepository) ListFoodsByCategory(ctx context.Context) (map[string][]models.ReferenceFood, error) {
	foods, err := r.ListFoods(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]models.ReferenceFood)
	for _, food := range foods {
		grouped[food.Category] = append(grouped[food.Category], food)
	}
	return grouped, nil
}

// ListFoodsMissingNutrients returns foods with any nutrient column unset
func (r *ReferenceRepository) ListFoodsMissingNutrients(ctx context.Context) ([]models.ReferenceFood, error) {
	query := "SELECT " + referenceFoodColumns + ` FROM reference_foods
		WHERE fiber IS NULL OR calories IS NULL OR protein IS NULL OR sugar IS NULL OR water IS NULL
		ORDER BY id`
	return r.listFoods(ctx, query)
}

// UpdateFoodNutrients fills nutrient columns that are still NULL, keeping existing values
func (r *ReferenceRepository) UpdateFoodNutrients(ctx context.Context, id int64, fiber, calories, protein, sugar, water *float64) error {
	query := `
		UPDATE reference_foods SET
			fiber = COALESCE(fiber, ?),
			calories = COALESCE(calories, ?),
			protein = COALESCE(protein, ?),
			sugar = COALESCE(sugar, ?),
			water = COALESCE(water, ?)
		WHERE id = ?
	`
	if _, err := r.db.ExecContext(ctx, query,
		nullable(fiber), nullable(calories), nullable(protein), nullable(sugar), nullable(water), id); err != nil {
		return fmt.Errorf("failed to update food nutrients: %w", err)
	}
	return nil
}

func (r *ReferenceRepository) listFoods(ctx context.Context, query string, args ...any) ([]models.ReferenceFood, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference foods: %w", err)
	}
	defer rows.Close()

	foods := []models.ReferenceFood{}
	for rows.Next() {
		var food models.ReferenceFood
		var fiber, calories, protein, sugar, water, quantity sql.NullFloat64
		var unit sql.NullString
		if err := rows.Scan(&food.ID, &food.Category, &food.Name,
			&fiber, &calories, &protein, &sugar, &water, &quantity, &unit); err != nil {
			return nil, fmt.Errorf("failed to scan reference food: %w", err)
		}
		food.Fiber = floatPtr(fiber)
		food.Calories = floatPtr(calories)
		food.Protein = floatPtr(protein)
		food.Sugar = floatPtr(sugar)
		food.Water = floatPtr(water)
		food.Quantity = floatPtr(quantity)
		food.Unit = stringPtr(unit)
		foods = append(foods, food)
	}
	return foods, rows.Err()
}

// ListMealTemplates returns all meal templates
func (r *ReferenceRepository) ListMealTemplates(ctx context.Context) ([]models.MealTemplate, error) {
	query := `
		SELECT id, name, meal_type, description, min_age_months, max_age_months, texture,
			total_fiber, total_calories, total_protein, total_sugar
		FROM meal_templates
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal templates: %w", err)
	}
	defer rows.Close()

	meals := []models.MealTemplate{}
	for rows.Next() {
		var meal models.MealTemplate
		var fiber, calories, protein, sugar sql.NullFloat64
		if err := rows.Scan(&meal.ID, &meal.Name, &meal.MealType, &meal.Description,
			&meal.MinAgeMonths, &meal.MaxAgeMonths, &meal.Texture,
			&fiber, &calories, &protein, &sugar); err != nil {
			return nil, fmt.Errorf("failed to scan meal template: %w", err)
		}
		meal.TotalFiber = floatPtr(fiber)
		meal.TotalCalories = floatPtr(calories)
		meal.TotalProtein = floatPtr(protein)
		meal.TotalSugar = floatPtr(sugar)
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}
