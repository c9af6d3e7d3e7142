package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"happytummy/internal/models"
	"happytummy/internal/repository"
	"happytummy/internal/validation"
)

var (
	ErrFamilyNotFound  = errors.New("family not found")
	ErrNotFamilyMember = errors.New("user is not a member of this family")
	ErrChildNotFound   = errors.New("child not found")
	ErrNoFamily        = errors.New("user does not belong to a family")
)

// ChildInput carries the editable fields of a child profile.
// FamilyID is optional; the caller's first family is used when it is zero.
type ChildInput struct {
	FamilyID  int64    `json:"familyId"`
	Name      string   `json:"name"`
	AgeMonths int      `json:"ageMonths"`
	Gender    string   `json:"gender"`
	Allergies []string `json:"allergies"`
}

// FamilyService handles family and child business logic
type FamilyService struct {
	familyRepo *repository.FamilyRepository
	childRepo  *repository.ChildRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, childRepo *repository.ChildRepository) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		childRepo:  childRepo,
	}
}

// GetUserFamilies retrieves all families a user belongs to
func (s *FamilyService) GetUserFamilies(ctx context.Context, userID int64) ([]models.Family, error) {
	families, err := s.familyRepo.GetUserFamilies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user families: %w", err)
	}
	return families, nil
}

// GetFamilyWithMembers returns a family the user belongs to, with its members
func (s *FamilyService) GetFamilyWithMembers(ctx context.Context, userID, familyID int64) (*models.FamilyWithMembers, error) {
	if err := s.VerifyFamilyAccess(ctx, userID, familyID); err != nil {
		return nil, err
	}
	family, err := s.familyRepo.GetFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	members, users, err := s.familyRepo.GetFamilyMembers(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}
	return &models.FamilyWithMembers{Family: *family, Members: members, Users: users}, nil
}

// Caregivers returns every user in a family, for alerts
func (s *FamilyService) Caregivers(ctx context.Context, familyID int64) ([]models.User, error) {
	_, users, err := s.familyRepo.GetFamilyMembers(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}
	return users, nil
}

// VerifyFamilyAccess checks if a user has access to a family
func (s *FamilyService) VerifyFamilyAccess(ctx context.Context, userID, familyID int64) error {
	isMember, err := s.familyRepo.IsFamilyMember(ctx, userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to verify family access: %w", err)
	}
	if !isMember {
		return ErrNotFamilyMember
	}
	return nil
}

// ListChildren returns the children the user can see
func (s *FamilyService) ListChildren(ctx context.Context, userID int64) ([]models.Child, error) {
	children, err := s.childRepo.ListChildrenForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return children, nil
}

// GetChild returns a child after checking the user shares its family
func (s *FamilyService) GetChild(ctx context.Context, userID, childID int64) (*models.Child, error) {
	child, err := s.childRepo.GetChildByID(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	if err := s.VerifyFamilyAccess(ctx, userID, child.FamilyID); err != nil {
		// Children of other families are reported as missing
		if errors.Is(err, ErrNotFamilyMember) {
			return nil, ErrChildNotFound
		}
		return nil, err
	}
	return child, nil
}

// CreateChild adds a child to one of the user's families
func (s *FamilyService) CreateChild(ctx context.Context, userID int64, input ChildInput) (*models.Child, error) {
	if err := validateChildInput(input); err != nil {
		return nil, err
	}

	familyID := input.FamilyID
	if familyID == 0 {
		families, err := s.GetUserFamilies(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(families) == 0 {
			return nil, ErrNoFamily
		}
		familyID = families[0].ID
	} else if err := s.VerifyFamilyAccess(ctx, userID, familyID); err != nil {
		return nil, err
	}

	child := &models.Child{
		FamilyID:  familyID,
		Name:      strings.TrimSpace(input.Name),
		AgeMonths: input.AgeMonths,
		Gender:    strings.TrimSpace(input.Gender),
		Allergies: input.Allergies,
	}
	if err := s.childRepo.CreateChild(ctx, child); err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	return child, nil
}

// UpdateChild replaces a child's profile fields; the family cannot change
func (s *FamilyService) UpdateChild(ctx context.Context, userID, childID int64, input ChildInput) (*models.Child, error) {
	if err := validateChildInput(input); err != nil {
		return nil, err
	}
	child, err := s.GetChild(ctx, userID, childID)
	if err != nil {
		return nil, err
	}

	child.Name = strings.TrimSpace(input.Name)
	child.AgeMonths = input.AgeMonths
	child.Gender = strings.TrimSpace(input.Gender)
	child.Allergies = input.Allergies
	if err := s.childRepo.UpdateChild(ctx, child); err != nil {
		return nil, fmt.Errorf("failed to update child: %w", err)
	}
	return child, nil
}

// DeleteChild removes a child and its logs
func (s *FamilyService) DeleteChild(ctx context.Context, userID, childID int64) error {
	if _, err := s.GetChild(ctx, userID, childID); err != nil {
		return err
	}
	if err := s.childRepo.DeleteChild(ctx, childID); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}

func validateChildInput(input ChildInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return validation.ValidationError{Field: "name", Message: "name is required"}
	}
	if len(input.Name) > validation.MaxNameLength {
		return validation.ValidationError{Field: "name", Message: "name is too long"}
	}
	return validation.ValidateAgeMonths(input.AgeMonths)
}
