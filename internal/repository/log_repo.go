package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"happytummy/internal/database"
	"happytummy/internal/models"
)

// LogRepository handles database operations for digestion logs
type LogRepository struct {
	db *database.DB
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *database.DB) *LogRepository {
	return &LogRepository{db: db}
}

const logColumns = "id, child_id, log_date, stool_type, stool_frequency, hydration, notes, created_by, created_at"

// CreateLog inserts a log and its food intake in one transaction
func (r *LogRepository) CreateLog(ctx context.Context, log *models.DigestionLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		id, err := tx.ExecReturningID(ctx, `
			INSERT INTO digestion_logs (child_id, log_date, stool_type, stool_frequency, hydration, notes, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, log.ChildID, log.LogDate, nullable(log.StoolType), nullable(log.StoolFrequency), nullable(log.Hydration),
			log.Notes, nullable(log.CreatedBy), database.FormatTime(log.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to create log: %w", err)
		}
		log.ID = id

		for i := range log.Foods {
			food := &log.Foods[i]
			food.LogID = id
			foodID, err := tx.ExecReturningID(ctx, `
				INSERT INTO digestion_log_foods (log_id, food_name, quantity, unit, calories, fiber, sugar, protein, water)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, id, food.FoodName, nullable(food.Quantity), nullable(food.Unit), nullable(food.Calories),
				nullable(food.Fiber), nullable(food.Sugar), nullable(food.Protein), nullable(food.Water))
			if err != nil {
				return fmt.Errorf("failed to add log food: %w", err)
			}
			food.ID = foodID
		}
		return nil
	})
}

// ListLogs returns a child's logs newest first with their foods; limit <= 0 returns all
func (r *LogRepository) ListLogs(ctx context.Context, childID int64, limit int) ([]models.DigestionLog, error) {
	query := "SELECT " + logColumns + " FROM digestion_logs WHERE child_id = ? ORDER BY created_at DESC, id DESC"
	args := []any{childID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

// ListAllLogs returns every log oldest first, for backups
func (r *LogRepository) ListAllLogs(ctx context.Context) ([]models.DigestionLog, error) {
	return r.list(ctx, "SELECT "+logColumns+" FROM digestion_logs ORDER BY id")
}

func (r *LogRepository) list(ctx context.Context, query string, args ...any) ([]models.DigestionLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}

	logs := []models.DigestionLog{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := r.attachFoods(ctx, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// attachFoods loads foods for all logs with one query
func (r *LogRepository) attachFoods(ctx context.Context, logs []models.DigestionLog) error {
	if len(logs) == 0 {
		return nil
	}

	ids := make([]any, len(logs))
	index := make(map[int64]int, len(logs))
	for i := range logs {
		ids[i] = logs[i].ID
		index[logs[i].ID] = i
		logs[i].Foods = []models.LogFood{}
	}

	query := `
		SELECT id, log_id, food_name, quantity, unit, calories, fiber, sugar, protein, water
		FROM digestion_log_foods
		WHERE log_id IN (` + inPlaceholders(len(ids)) + `)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return fmt.Errorf("failed to query log foods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var food models.LogFood
		var quantity, calories, fiber, sugar, protein, water sql.NullFloat64
		var unit sql.NullString
		if err := rows.Scan(&food.ID, &food.LogID, &food.FoodName, &quantity, &unit,
			&calories, &fiber, &sugar, &protein, &water); err != nil {
			return fmt.Errorf("failed to scan log food: %w", err)
		}
		food.Quantity = floatPtr(quantity)
		food.Unit = stringPtr(unit)
		food.Calories = floatPtr(calories)
		food.Fiber = floatPtr(fiber)
		food.Sugar = floatPtr(sugar)
		food.Protein = floatPtr(protein)
		food.Water = floatPtr(water)

		if i, ok := index[food.LogID]; ok {
			logs[i].Foods = append(logs[i].Foods, food)
		}
	}
	return rows.Err()
}

func scanLog(row rowScanner) (*models.DigestionLog, error) {
	log := &models.DigestionLog{}
	var stoolType, stoolFrequency, createdBy sql.NullInt64
	var hydration sql.NullString
	var createdAt string
	if err := row.Scan(
		&log.ID,
		&log.ChildID,
		&log.LogDate,
		&stoolType,
		&stoolFrequency,
		&hydration,
		&log.Notes,
		&createdBy,
		&createdAt,
	); err != nil {
		return nil, err
	}
	log.StoolType = intPtr(stoolType)
	log.StoolFrequency = intPtr(stoolFrequency)
	log.Hydration = stringPtr(hydration)
	log.CreatedBy = int64Ptr(createdBy)
	log.CreatedAt = database.ParseTime(createdAt)
	return log, nil
}
