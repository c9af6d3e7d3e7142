package service

import (
	"context"
	"fmt"

	"happytummy/internal/digestion"
	"happytummy/internal/models"
	"happytummy/internal/repository"
)

// SummaryWindow is how many recent logs the summary covers
const SummaryWindow = 7

// Summary describes a child's recent logs
type Summary struct {
	ChildID        int64                    `json:"childId"`
	Summary        string                   `json:"summary"`
	LogsCount      int                      `json:"logsCount"`
	NutrientTotals digestion.NutrientTotals `json:"nutrientTotals"`
}

// TopFiberFood is one entry of the top-fiber list
type TopFiberFood struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Fiber    *float64 `json:"fiber"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

// InsightService derives trend views from logs and the reference dataset
type InsightService struct {
	logRepo  *repository.LogRepository
	refRepo  *repository.ReferenceRepository
	families *FamilyService
}

// NewInsightService creates a new insight service
func NewInsightService(logRepo *repository.LogRepository, refRepo *repository.ReferenceRepository, families *FamilyService) *InsightService {
	return &InsightService{logRepo: logRepo, refRepo: refRepo, families: families}
}

// Summary totals the nutrients of the last week of logs and describes the latest one
func (s *InsightService) Summary(ctx context.Context, userID, childID int64) (*Summary, error) {
	if _, err := s.families.GetChild(ctx, userID, childID); err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListLogs(ctx, childID, SummaryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}

	totals := sumNutrients(logs).Rounded()
	var latest *digestion.Reading
	if len(logs) > 0 {
		reading := readingFromLog(logs[0])
		latest = &reading
	}

	return &Summary{
		ChildID:        childID,
		Summary:        digestion.SummaryText(len(logs), latest, totals),
		LogsCount:      len(logs),
		NutrientTotals: totals,
	}, nil
}

// DailyInsight compares the two most recent logs
func (s *InsightService) DailyInsight(ctx context.Context, userID, childID int64) (digestion.DailyInsight, error) {
	if _, err := s.families.GetChild(ctx, userID, childID); err != nil {
		return digestion.DailyInsight{}, err
	}
	logs, err := s.logRepo.ListLogs(ctx, childID, 2)
	if err != nil {
		return digestion.DailyInsight{}, fmt.Errorf("failed to load logs: %w", err)
	}
	return digestion.AssessDailyInsight(readingsFromLogs(logs)), nil
}

// TopFiber lists the reference foods with the most fiber
func (s *InsightService) TopFiber(ctx context.Context, limit int) ([]TopFiberFood, error) {
	refs, err := s.refRepo.ListFoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference foods: %w", err)
	}

	ranked := digestion.TopFiber(foodsFromReferences(refs), limit)
	out := make([]TopFiberFood, 0, len(ranked))
	for _, f := range ranked {
		out = append(out, TopFiberFood{
			Name:     f.Name,
			Category: string(f.Category),
			Fiber:    f.Nutrients.Fiber,
			Quantity: f.Quantity,
			Unit:     f.Unit,
		})
	}
	return out, nil
}

func sumNutrients(logs []models.DigestionLog) digestion.NutrientTotals {
	var totals digestion.NutrientTotals
	add := func(dst *float64, v *float64) {
		if v != nil {
			*dst += *v
		}
	}
	for _, log := range logs {
		for _, food := range log.Foods {
			add(&totals.Calories, food.Calories)
			add(&totals.Fiber, food.Fiber)
			add(&totals.Sugar, food.Sugar)
			add(&totals.Protein, food.Protein)
			add(&totals.Water, food.Water)
		}
	}
	return totals
}

func foodFromReference(ref models.ReferenceFood) digestion.Food {
	return digestion.Food{
		Name:     ref.Name,
		Category: digestion.Category(ref.Category),
		Nutrients: digestion.Nutrients{
			Fiber:    ref.Fiber,
			Calories: ref.Calories,
			Protein:  ref.Protein,
			Sugar:    ref.Sugar,
		},
		Quantity: ref.Quantity,
		Unit:     ref.Unit,
	}
}

func foodsFromReferences(refs []models.ReferenceFood) []digestion.Food {
	foods := make([]digestion.Food, 0, len(refs))
	for _, ref := range refs {
		foods = append(foods, foodFromReference(ref))
	}
	return foods
}
