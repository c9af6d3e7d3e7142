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

// FamilyRepository handles database operations for families
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a new family and adds the creator as its owner
func (r *FamilyRepository) CreateFamily(ctx context.Context, name, familyCode string, creatorUserID int64) (*models.Family, error) {
	now := time.Now().UTC()
	stamp := database.FormatTime(now)

	var familyID int64
	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		familyID, err = tx.ExecReturningID(ctx,
			"INSERT INTO families (name, family_code, created_at, updated_at) VALUES (?, ?, ?, ?)",
			name, familyCode, stamp, stamp)
		if err != nil {
			return fmt.Errorf("failed to create family: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO family_members (family_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
			familyID, creatorUserID, models.RoleOwner, stamp)
		if err != nil {
			return fmt.Errorf("failed to add family member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.Family{
		ID:         familyID,
		Name:       name,
		FamilyCode: familyCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, familyID int64) (*models.Family, error) {
	query := "SELECT id, name, family_code, created_at, updated_at FROM families WHERE id = ?"
	return r.getOne(ctx, query, familyID)
}

// GetFamilyByCode retrieves a family by its join code
func (r *FamilyRepository) GetFamilyByCode(ctx context.Context, familyCode string) (*models.Family, error) {
	query := "SELECT id, name, family_code, created_at, updated_at FROM families WHERE family_code = ?"
	return r.getOne(ctx, query, familyCode)
}

func (r *FamilyRepository) getOne(ctx context.Context, query string, args ...any) (*models.Family, error) {
	family, err := scanFamily(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// GetUserFamilies retrieves all families a user belongs to
func (r *FamilyRepository) GetUserFamilies(ctx context.Context, userID int64) ([]models.Family, error) {
	query := `
		SELECT f.id, f.name, f.family_code, f.created_at, f.updated_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at ASC, f.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		family, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, *family)
	}
	return families, rows.Err()
}

// ListFamilies returns every family, oldest first
func (r *FamilyRepository) ListFamilies(ctx context.Context) ([]models.Family, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, family_code, created_at, updated_at FROM families ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		family, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, *family)
	}
	return families, rows.Err()
}

// AddFamilyMember adds a user to a family
func (r *FamilyRepository) AddFamilyMember(ctx context.Context, familyID, userID int64, role string) error {
	query := "INSERT INTO family_members (family_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, familyID, userID, role, database.FormatTime(time.Now())); err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// IsFamilyMember checks if a user is a member of a family
func (r *FamilyRepository) IsFamilyMember(ctx context.Context, userID, familyID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM family_members WHERE user_id = ? AND family_id = ?"
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, familyID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check family membership: %w", err)
	}
	return count > 0, nil
}

// GetFamilyMembers retrieves all members of a family with their accounts
func (r *FamilyRepository) GetFamilyMembers(ctx context.Context, familyID int64) ([]models.FamilyMember, []models.User, error) {
	query := `
		SELECT fm.id, fm.family_id, fm.user_id, fm.role, fm.joined_at,
		       u.id, u.email, u.name, u.created_at
		FROM family_members fm
		INNER JOIN users u ON fm.user_id = u.id
		WHERE fm.family_id = ?
		ORDER BY fm.joined_at ASC, fm.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	var users []models.User
	for rows.Next() {
		var member models.FamilyMember
		var user models.User
		var joinedAt, createdAt string
		if err := rows.Scan(
			&member.ID, &member.FamilyID, &member.UserID, &member.Role, &joinedAt,
			&user.ID, &user.Email, &user.Name, &createdAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		member.JoinedAt = database.ParseTime(joinedAt)
		user.CreatedAt = database.ParseTime(createdAt)
		members = append(members, member)
		users = append(users, user)
	}
	return members, users, rows.Err()
}

// ListMemberships returns every membership row, for backups
func (r *FamilyRepository) ListMemberships(ctx context.Context) ([]models.FamilyMember, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, family_id, user_id, role, joined_at FROM family_members ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	for rows.Next() {
		var member models.FamilyMember
		var joinedAt string
		if err := rows.Scan(&member.ID, &member.FamilyID, &member.UserID, &member.Role, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		member.JoinedAt = database.ParseTime(joinedAt)
		members = append(members, member)
	}
	return members, rows.Err()
}

func scanFamily(row rowScanner) (*models.Family, error) {
	family := &models.Family{}
	var createdAt, updatedAt string
	if err := row.Scan(&family.ID, &family.Name, &family.FamilyCode, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	family.CreatedAt = database.ParseTime(createdAt)
	family.UpdatedAt = database.ParseTime(updatedAt)
	return family, nil
}
