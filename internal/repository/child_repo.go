package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happytummy/internal/database"
	"happytummy/internal/models"
)

// ChildRepository handles database operations for children
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

const childColumns = "c.id, c.family_id, c.name, c.age_months, c.gender, c.allergies, c.created_at, c.updated_at"

// CreateChild inserts a child into a family
func (r *ChildRepository) CreateChild(ctx context.Context, child *models.Child) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO children (family_id, name, age_months, gender, allergies, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		child.FamilyID, child.Name, child.AgeMonths, child.Gender, models.JoinAllergies(child.Allergies),
		database.FormatTime(now), database.FormatTime(now))
	if err != nil {
		return fmt.Errorf("failed to create child: %w", err)
	}

	child.ID = id
	child.Allergies = models.CleanAllergies(child.Allergies)
	child.CreatedAt = now
	child.UpdatedAt = now
	return nil
}

// GetChildByID retrieves a child by ID
func (r *ChildRepository) GetChildByID(ctx context.Context, id int64) (*models.Child, error) {
	query := "SELECT " + childColumns + " FROM children c WHERE c.id = ?"
	child, err := scanChild(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return child, nil
}

// ListChildrenForUser returns the children of every family the user belongs to
func (r *ChildRepository) ListChildrenForUser(ctx context.Context, userID int64) ([]models.Child, error) {
	query := `
		SELECT ` + childColumns + `
		FROM children c
		INNER JOIN family_members fm ON c.family_id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY c.name ASC, c.id ASC
	`
	return r.list(ctx, query, userID)
}

// ListChildren returns every child, for backups
func (r *ChildRepository) ListChildren(ctx context.Context) ([]models.Child, error) {
	return r.list(ctx, "SELECT "+childColumns+" FROM children c ORDER BY c.id")
}

func (r *ChildRepository) list(ctx context.Context, query string, args ...any) ([]models.Child, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	children := []models.Child{}
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, *child)
	}
	return children, rows.Err()
}

// UpdateChild saves a child's profile fields
func (r *ChildRepository) UpdateChild(ctx context.Context, child *models.Child) error {
	now := time.Now().UTC()
	query := "UPDATE children SET name = ?, age_months = ?, gender = ?, allergies = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query,
		child.Name, child.AgeMonths, child.Gender, models.JoinAllergies(child.Allergies), database.FormatTime(now), child.ID); err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	child.Allergies = models.CleanAllergies(child.Allergies)
	child.UpdatedAt = now
	return nil
}

// DeleteChild removes a child together with its logs
func (r *ChildRepository) DeleteChild(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		statements := []string{
			"DELETE FROM digestion_log_foods WHERE log_id IN (SELECT id FROM digestion_logs WHERE child_id = ?)",
			"DELETE FROM digestion_logs WHERE child_id = ?",
			"DELETE FROM children WHERE id = ?",
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to delete child: %w", err)
			}
		}
		return nil
	})
}

func scanChild(row rowScanner) (*models.Child, error) {
	child := &models.Child{}
	var allergies, createdAt, updatedAt string
	if err := row.Scan(
		&child.ID,
		&child.FamilyID,
		&child.Name,
		&child.AgeMonths,
		&child.Gender,
		&allergies,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	child.Allergies = models.SplitAllergies(allergies)
	child.CreatedAt = database.ParseTime(createdAt)
	child.UpdatedAt = database.ParseTime(updatedAt)
	return child, nil
}
