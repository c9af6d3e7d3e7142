package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"happytummy/internal/nutrition"
	"happytummy/internal/repository"
)

// FoodSearcher looks foods up in the remote nutrition database
type FoodSearcher interface {
	SearchFoods(ctx context.Context, query string) ([]nutrition.FoodMatch, error)
}

// SyncOptions controls a nutrient sync run
type SyncOptions struct {
	DryRun bool
	// Delay is the pause between remote requests
	Delay time.Duration
}

// SyncReport counts what a sync run did
type SyncReport struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	NoMatch int `json:"noMatch"`
	Failed  int `json:"failed"`
}

// NutrientSyncService fills missing reference nutrients from the remote database
type NutrientSyncService struct {
	refRepo  *repository.ReferenceRepository
	searcher FoodSearcher
}

// NewNutrientSyncService creates a new sync service
func NewNutrientSyncService(refRepo *repository.ReferenceRepository, searcher FoodSearcher) *NutrientSyncService {
	return &NutrientSyncService{refRepo: refRepo, searcher: searcher}
}

// Sync looks up every reference food with a missing nutrient and fills the gaps from the
// first remote match. Existing values are never overwritten. Lookup failures are counted
// and the run continues; a cancelled context stops it.
func (s *NutrientSyncService) Sync(ctx context.Context, opts SyncOptions) (SyncReport, error) {
	var report SyncReport

	foods, err := s.refRepo.ListFoodsMissingNutrients(ctx)
	if err != nil {
		return report, err
	}

	for i, food := range foods {
		if i > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Checked++
		matches, err := s.searcher.SearchFoods(ctx, food.Name)
		if err != nil {
			report.Failed++
			slog.WarnContext(ctx, "nutrient lookup failed", "food", food.Name, "error", err)
			continue
		}
		if len(matches) == 0 {
			report.NoMatch++
			slog.InfoContext(ctx, "no remote match", "food", food.Name)
			continue
		}

		match := matches[0]
		slog.InfoContext(ctx, "nutrient match", "food", food.Name, "fdc_id", match.FDCID, "match", match.Result.Name, "dry_run", opts.DryRun)
		if opts.DryRun {
			report.Updated++
			continue
		}

		r := match.Result
		if err := s.refRepo.UpdateFoodNutrients(ctx, food.ID, r.Fiber, r.Calories, r.Protein, r.Sugar, r.Water); err != nil {
			return report, fmt.Errorf("failed to update %s: %w", food.Name, err)
		}
		report.Updated++
	}

	return report, nil
}
