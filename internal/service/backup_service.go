package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"happytummy/internal/database"
	"happytummy/internal/models"
	"happytummy/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure.
// Reference foods and meal templates come from migrations and are not included.
type BackupData struct {
	Version      string                `json:"version"`
	ExportedAt   time.Time             `json:"exported_at"`
	DatabaseType string                `json:"database_type"`
	Users        []UserBackup          `json:"users"`
	Families     []FamilyBackup        `json:"families"`
	Children     []models.Child        `json:"children"`
	Logs         []models.DigestionLog `json:"logs"`
}

// UserBackup represents a user record for backup, credentials included
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FamilyBackup represents a family record with its members
type FamilyBackup struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	FamilyCode string               `json:"family_code"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
	Members    []FamilyMemberBackup `json:"members"`
}

// FamilyMemberBackup represents a family member record
type FamilyMemberBackup struct {
	UserID   int64     `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db         *database.DB
	userRepo   *repository.UserRepository
	familyRepo *repository.FamilyRepository
	childRepo  *repository.ChildRepository
	logRepo    *repository.LogRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:         db,
		userRepo:   repository.NewUserRepository(db),
		familyRepo: repository.NewFamilyRepository(db),
		childRepo:  repository.NewChildRepository(db),
		logRepo:    repository.NewLogRepository(db),
	}
}

// Collect reads all account data into a backup structure
func (s *BackupService) Collect(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.MigrationsSubdir(),
	}

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			ID:            u.ID,
			Email:         u.Email,
			PasswordHash:  u.PasswordHash,
			Name:          u.Name,
			OAuthProvider: u.OAuthProvider,
			OAuthSubject:  u.OAuthSubject,
			CreatedAt:     u.CreatedAt,
			UpdatedAt:     u.UpdatedAt,
		})
	}

	families, err := s.familyRepo.ListFamilies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export families: %w", err)
	}
	memberships, err := s.familyRepo.ListMemberships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export family members: %w", err)
	}
	byFamily := make(map[int64][]FamilyMemberBackup)
	for _, m := range memberships {
		byFamily[m.FamilyID] = append(byFamily[m.FamilyID], FamilyMemberBackup{UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt})
	}
	for _, f := range families {
		backup.Families = append(backup.Families, FamilyBackup{
			ID:         f.ID,
			Name:       f.Name,
			FamilyCode: f.FamilyCode,
			CreatedAt:  f.CreatedAt,
			UpdatedAt:  f.UpdatedAt,
			Members:    byFamily[f.ID],
		})
	}

	if backup.Children, err = s.childRepo.ListChildren(ctx); err != nil {
		return nil, fmt.Errorf("failed to export children: %w", err)
	}
	if backup.Logs, err = s.logRepo.ListAllLogs(ctx); err != nil {
		return nil, fmt.Errorf("failed to export logs: %w", err)
	}
	return backup, nil
}

// ExportToWriter writes a JSON backup to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup, err := s.Collect(ctx)
	if err != nil {
		return nil, err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	slog.InfoContext(ctx, "starting database export", "path", outputPath)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "database exported",
		"path", outputPath,
		"users", len(backup.Users),
		"families", len(backup.Families),
		"children", len(backup.Children),
		"logs", len(backup.Logs))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(ctx, file, clear)
}

// ImportFromReader restores a backup in one transaction, preserving record ids.
// With clear set, existing account data is removed first.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	slog.InfoContext(ctx, "starting database import", "version", backup.Version, "exported_at", backup.ExportedAt)

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if clear {
			if err := clearAccountData(ctx, tx); err != nil {
				return err
			}
		}

		steps := []struct {
			name string
			fn   func(context.Context, *database.Tx, *BackupData) error
		}{
			{"users", importUsers},
			{"families", importFamilies},
			{"children", importChildren},
			{"logs", importLogs},
		}
		for _, step := range steps {
			if err := step.fn(ctx, tx, &backup); err != nil {
				return fmt.Errorf("failed to import %s: %w", step.name, err)
			}
		}

		if tx.GetDialect().MigrationsSubdir() == "postgres" {
			return resetSequences(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "database import completed",
		"users", len(backup.Users),
		"families", len(backup.Families),
		"children", len(backup.Children),
		"logs", len(backup.Logs))
	return nil
}

// importTables lists account tables children first
var importTables = []string{"digestion_log_foods", "digestion_logs", "children", "family_members", "families", "users"}

func clearAccountData(ctx context.Context, tx *database.Tx) error {
	for _, table := range importTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func importUsers(ctx context.Context, tx *database.Tx, backup *BackupData) error {
	for _, u := range backup.Users {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			u.ID, u.Email, u.PasswordHash, u.Name, u.OAuthProvider, u.OAuthSubject,
			database.FormatTime(u.CreatedAt), database.FormatTime(u.UpdatedAt))
		if err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
	}
	return nil
}

func importFamilies(ctx context.Context, tx *database.Tx, backup *BackupData) error {
	for _, f := range backup.Families {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO families (id, name, family_code, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			f.ID, f.Name, f.FamilyCode, database.FormatTime(f.CreatedAt), database.FormatTime(f.UpdatedAt))
		if err != nil {
			return fmt.Errorf("family %s: %w", f.FamilyCode, err)
		}

		for _, m := range f.Members {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO family_members (family_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
				f.ID, m.UserID, m.Role, database.FormatTime(m.JoinedAt))
			if err != nil {
				return fmt.Errorf("member %d of family %s: %w", m.UserID, f.FamilyCode, err)
			}
		}
	}
	return nil
}

func importChildren(ctx context.Context, tx *database.Tx, backup *BackupData) error {
	for _, c := range backup.Children {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO children (id, family_id, name, age_months, gender, allergies, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			c.ID, c.FamilyID, c.Name, c.AgeMonths, c.Gender, models.JoinAllergies(c.Allergies),
			database.FormatTime(c.CreatedAt), database.FormatTime(c.UpdatedAt))
		if err != nil {
			return fmt.Errorf("child %d: %w", c.ID, err)
		}
	}
	return nil
}

func importLogs(ctx context.Context, tx *database.Tx, backup *BackupData) error {
	for _, l := range backup.Logs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO digestion_logs (id, child_id, log_date, stool_type, stool_frequency, hydration, notes, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			l.ID, l.ChildID, l.LogDate, optional(l.StoolType), optional(l.StoolFrequency), optional(l.Hydration),
			l.Notes, optional(l.CreatedBy), database.FormatTime(l.CreatedAt))
		if err != nil {
			return fmt.Errorf("log %d: %w", l.ID, err)
		}

		for _, f := range l.Foods {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO digestion_log_foods (log_id, food_name, quantity, unit, calories, fiber, sugar, protein, water) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				l.ID, f.FoodName, optional(f.Quantity), optional(f.Unit), optional(f.Calories),
				optional(f.Fiber), optional(f.Sugar), optional(f.Protein), optional(f.Water))
			if err != nil {
				return fmt.Errorf("food %q of log %d: %w", f.FoodName, l.ID, err)
			}
		}
	}
	return nil
}

// resetSequences moves postgres serial sequences past imported ids
func resetSequences(ctx context.Context, tx *database.Tx) error {
	for _, table := range importTables {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

// optional converts a pointer into a driver value, nil staying NULL
func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
