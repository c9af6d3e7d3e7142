package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"happytummy/internal/digestion"
	"happytummy/internal/models"
	"happytummy/internal/repository"
	"happytummy/internal/validation"
)

// LogInput is a new daily digestion log
type LogInput struct {
	ChildID        int64            `json:"childId"`
	LogDate        string           `json:"logDate"`
	StoolType      *int             `json:"stoolType"`
	StoolFrequency *int             `json:"stoolFrequency"`
	Hydration      *string          `json:"hydration"`
	Notes          string           `json:"notes"`
	Foods          []models.LogFood `json:"foodIntake"`
}

// LogResult is a stored log with the insight computed right after saving it
type LogResult struct {
	Log     *models.DigestionLog   `json:"log"`
	Insight digestion.DailyInsight `json:"insight"`
}

// CautionNotifier alerts caregivers when a log needs attention
type CautionNotifier interface {
	SendCautionAlert(ctx context.Context, recipients []models.User, child *models.Child, insight digestion.DailyInsight) error
}

// LogService records digestion logs
type LogService struct {
	logRepo  *repository.LogRepository
	families *FamilyService
	notifier CautionNotifier
	now      func() time.Time
}

// NewLogService creates a new log service. notifier may be nil.
func NewLogService(logRepo *repository.LogRepository, families *FamilyService, notifier CautionNotifier) *LogService {
	return &LogService{
		logRepo:  logRepo,
		families: families,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateLog validates and stores a log, then assesses it against the previous one
func (s *LogService) CreateLog(ctx context.Context, userID int64, input LogInput) (*LogResult, error) {
	child, err := s.families.GetChild(ctx, userID, input.ChildID)
	if err != nil {
		return nil, err
	}

	if input.LogDate == "" {
		input.LogDate = s.now().UTC().Format(validation.LogDateLayout)
	}
	if input.Hydration != nil {
		h := strings.ToLower(strings.TrimSpace(*input.Hydration))
		input.Hydration = &h
	}
	if err := validateLogInput(input); err != nil {
		return nil, err
	}

	log := &models.DigestionLog{
		ChildID:        child.ID,
		LogDate:        input.LogDate,
		StoolType:      input.StoolType,
		StoolFrequency: input.StoolFrequency,
		Hydration:      input.Hydration,
		Notes:          strings.TrimSpace(input.Notes),
		CreatedBy:      &userID,
		CreatedAt:      s.now().UTC(),
		Foods:          make([]models.LogFood, 0, len(input.Foods)),
	}
	for _, food := range input.Foods {
		food.ID = 0
		food.FoodName = strings.TrimSpace(food.FoodName)
		log.Foods = append(log.Foods, food)
	}

	if err := s.logRepo.CreateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to save log: %w", err)
	}

	recent, err := s.logRepo.ListLogs(ctx, child.ID, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent logs: %w", err)
	}
	insight := digestion.AssessDailyInsight(readingsFromLogs(recent))

	if insight.Status == digestion.StatusCaution {
		s.notifyCaution(ctx, child, insight)
	}

	return &LogResult{Log: log, Insight: insight}, nil
}

// notifyCaution sends the caution alert; failures are logged and never fail the request
func (s *LogService) notifyCaution(ctx context.Context, child *models.Child, insight digestion.DailyInsight) {
	if s.notifier == nil {
		return
	}
	recipients, err := s.families.Caregivers(ctx, child.FamilyID)
	if err != nil {
		slog.WarnContext(ctx, "caution alert skipped", "child_id", child.ID, "error", err)
		return
	}
	if err := s.notifier.SendCautionAlert(ctx, recipients, child, insight); err != nil {
		slog.WarnContext(ctx, "caution alert failed", "child_id", child.ID, "error", err)
	}
}

// ListLogs returns a child's logs newest first
func (s *LogService) ListLogs(ctx context.Context, userID, childID int64, limit int) ([]models.DigestionLog, error) {
	if _, err := s.families.GetChild(ctx, userID, childID); err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListLogs(ctx, childID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}

func validateLogInput(input LogInput) error {
	checks := []error{
		validation.ValidateLogDate(input.LogDate),
		validation.ValidateStoolType(input.StoolType),
		validation.ValidateStoolFrequency(input.StoolFrequency),
		validation.ValidateHydration(input.Hydration),
		validation.ValidateNotes(input.Notes),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if len(input.Foods) > validation.MaxFoodsPerLog {
		return validation.ValidationError{Field: "foodIntake", Message: "too many food entries"}
	}
	for _, food := range input.Foods {
		if err := validation.ValidateFoodName(food.FoodName); err != nil {
			return err
		}
	}
	return nil
}

// readingFromLog maps a stored log onto the digestion rules' input
func readingFromLog(log models.DigestionLog) digestion.Reading {
	reading := digestion.Reading{
		StoolType:      log.StoolType,
		StoolFrequency: log.StoolFrequency,
	}
	if log.Hydration != nil {
		reading.Hydration = *log.Hydration
	}
	return reading
}

func readingsFromLogs(logs []models.DigestionLog) []digestion.Reading {
	readings := make([]digestion.Reading, 0, len(logs))
	for _, log := range logs {
		readings = append(readings, readingFromLog(log))
	}
	return readings
}
