package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"happytummy/internal/credentials"
	"happytummy/internal/models"
	"happytummy/internal/repository"
	"happytummy/internal/security"
	"happytummy/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidFamilyCode  = errors.New("invalid family code")
	ErrUnauthenticated    = errors.New("authentication required")
)

const familyCodeAttempts = 3

// AuthResult is a successful login
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// OAuthIdentity is a verified identity returned by an external provider
type OAuthIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// WelcomeSender sends the registration greeting
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// AuthService handles authentication business logic
type AuthService struct {
	userRepo   *repository.UserRepository
	familyRepo *repository.FamilyRepository
	tokens     *security.TokenIssuer
	welcome    WelcomeSender
}

// NewAuthService creates a new auth service. welcome may be nil.
func NewAuthService(userRepo *repository.UserRepository, familyRepo *repository.FamilyRepository, tokens *security.TokenIssuer, welcome WelcomeSender) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		familyRepo: familyRepo,
		tokens:     tokens,
		welcome:    welcome,
	}
}

// Register creates a new user account and either joins an existing family or creates a new one
func (s *AuthService) Register(ctx context.Context, email, password, name, familyCode string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	// Resolve the family before creating the account so a bad code leaves nothing behind
	var family *models.Family
	if code := credentials.NormalizeFamilyCode(familyCode); code != "" {
		family, err = s.familyRepo.GetFamilyByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check family code: %w", err)
		}
		if family == nil {
			return nil, ErrInvalidFamilyCode
		}
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, strings.TrimSpace(email), passwordHash, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.attachFamily(ctx, user, family); err != nil {
		return nil, err
	}

	if s.welcome != nil {
		if err := s.welcome.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			slog.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// attachFamily joins family, or creates a new family owned by user when family is nil
func (s *AuthService) attachFamily(ctx context.Context, user *models.User, family *models.Family) error {
	if family != nil {
		if err := s.familyRepo.AddFamilyMember(ctx, family.ID, user.ID, models.RoleCaregiver); err != nil {
			return fmt.Errorf("failed to join family: %w", err)
		}
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < familyCodeAttempts; attempt++ {
		code, err := credentials.GenerateFamilyCode()
		if err != nil {
			return fmt.Errorf("failed to generate family code: %w", err)
		}
		if _, lastErr = s.familyRepo.CreateFamily(ctx, user.Name+"'s Family", code, user.ID); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to create family: %w", lastErr)
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// OAuthLogin signs in a provider identity, linking it to an account with the same email
// or creating a new account and family
func (s *AuthService) OAuthLogin(ctx context.Context, identity OAuthIdentity) (*AuthResult, error) {
	if identity.Subject == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByOAuth(ctx, identity.Provider, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return s.issue(user)
	}

	if err := validation.ValidateEmail(identity.Email); err != nil {
		return nil, err
	}
	user, err = s.userRepo.GetUserByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		if err := s.userRepo.LinkOAuth(ctx, user.ID, identity.Provider, identity.Subject); err != nil {
			return nil, err
		}
		user.OAuthProvider = identity.Provider
		user.OAuthSubject = identity.Subject
		return s.issue(user)
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(identity.Email, "@")
	}
	user, err = s.userRepo.CreateOAuthUser(ctx, identity.Email, name, identity.Provider, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.attachFamily(ctx, user, nil); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate resolves a bearer token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
