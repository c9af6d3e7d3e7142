package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"happytummy/internal/database"
	"happytummy/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at"

// CreateUser inserts a new password account
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	return r.insert(ctx, &models.User{Email: email, PasswordHash: passwordHash, Name: name})
}

// CreateOAuthUser inserts an account that logs in through an external provider
func (r *UserRepository) CreateOAuthUser(ctx context.Context, email, name, provider, subject string) (*models.User, error) {
	return r.insert(ctx, &models.User{Email: email, Name: name, OAuthProvider: provider, OAuthSubject: subject})
}

func (r *UserRepository) insert(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO users (email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		strings.ToLower(user.Email), user.PasswordHash, user.Name, user.OAuthProvider, user.OAuthSubject,
		database.FormatTime(now), database.FormatTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = id
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return r.getOne(ctx, query, strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.getOne(ctx, query, id)
}

// GetUserByOAuth retrieves the user linked to a provider subject
func (r *UserRepository) GetUserByOAuth(ctx context.Context, provider, subject string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE oauth_provider = ? AND oauth_subject = ?"
	return r.getOne(ctx, query, provider, subject)
}

// LinkOAuth attaches a provider identity to an existing account
func (r *UserRepository) LinkOAuth(ctx context.Context, userID int64, provider, subject string) error {
	query := "UPDATE users SET oauth_provider = ?, oauth_subject = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, provider, subject, database.FormatTime(time.Now()), userID); err != nil {
		return fmt.Errorf("failed to link oauth identity: %w", err)
	}
	return nil
}

// ListUsers returns every account, oldest first
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var createdAt, updatedAt string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	user.CreatedAt = database.ParseTime(createdAt)
	user.UpdatedAt = database.ParseTime(updatedAt)
	return user, nil
}
