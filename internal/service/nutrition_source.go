package service

import (
	"context"

	"happytummy/internal/nutrition"
	"happytummy/internal/repository"
)

// ReferenceFoodSource serves the local side of nutrition search from the reference dataset
type ReferenceFoodSource struct {
	refRepo *repository.ReferenceRepository
}

// NewReferenceFoodSource creates a local nutrition source
func NewReferenceFoodSource(refRepo *repository.ReferenceRepository) *ReferenceFoodSource {
	return &ReferenceFoodSource{refRepo: refRepo}
}

// SearchLocal implements nutrition.LocalSource
func (s *ReferenceFoodSource) SearchLocal(ctx context.Context, query string, limit int) ([]nutrition.LocalFood, error) {
	refs, err := s.refRepo.MatchFoods(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	foods := make([]nutrition.LocalFood, 0, len(refs))
	for _, ref := range refs {
		foods = append(foods, nutrition.LocalFood{
			Name:     ref.Name,
			Category: ref.Category,
			Calories: ref.Calories,
			Fiber:    ref.Fiber,
			Sugar:    ref.Sugar,
			Protein:  ref.Protein,
			Water:    ref.Water,
			Quantity: ref.Quantity,
			Unit:     ref.Unit,
		})
	}
	return foods, nil
}
