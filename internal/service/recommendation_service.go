package service

import (
	"context"
	"fmt"

	"happytummy/internal/digestion"
	"happytummy/internal/models"
	"happytummy/internal/repository"
)

// RecommendationService builds feeding recommendations from a child's latest log
type RecommendationService struct {
	logRepo  *repository.LogRepository
	refRepo  *repository.ReferenceRepository
	families *FamilyService
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(logRepo *repository.LogRepository, refRepo *repository.ReferenceRepository, families *FamilyService) *RecommendationService {
	return &RecommendationService{logRepo: logRepo, refRepo: refRepo, families: families}
}

// Recommend composes texture guidance, meals and ingredients for a child
func (s *RecommendationService) Recommend(ctx context.Context, userID, childID int64) (*digestion.Recommendation, error) {
	child, err := s.families.GetChild(ctx, userID, childID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListLogs(ctx, childID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest log: %w", err)
	}
	var latest *digestion.Reading
	if len(logs) > 0 {
		reading := readingFromLog(logs[0])
		latest = &reading
	}

	grouped, err := s.refRepo.ListFoodsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference foods: %w", err)
	}
	foods := make(map[digestion.Category][]digestion.Food, len(grouped))
	for category, refs := range grouped {
		if !digestion.ValidCategory(category) {
			continue
		}
		foods[digestion.Category(category)] = foodsFromReferences(refs)
	}

	templates, err := s.refRepo.ListMealTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal templates: %w", err)
	}

	rec := digestion.Compose(digestion.ComposeInput{
		Child: digestion.Child{
			ID:        child.ID,
			Name:      child.Name,
			AgeMonths: child.AgeMonths,
			Allergies: child.Allergies,
		},
		Latest: latest,
		Foods:  foods,
		Meals:  mealsFromTemplates(templates),
	})
	return &rec, nil
}

func mealsFromTemplates(templates []models.MealTemplate) []digestion.Meal {
	meals := make([]digestion.Meal, 0, len(templates))
	for _, t := range templates {
		meals = append(meals, digestion.Meal{
			Name:         t.Name,
			MealType:     t.MealType,
			Description:  t.Description,
			MinAgeMonths: t.MinAgeMonths,
			MaxAgeMonths: t.MaxAgeMonths,
			Texture:      digestion.Texture(t.Texture),
			Nutrients: digestion.Nutrients{
				Fiber:    t.TotalFiber,
				Calories: t.TotalCalories,
				Protein:  t.TotalProtein,
				Sugar:    t.TotalSugar,
			},
		})
	}
	return meals
}
