package handlers

import (
	"net/http"

	"happytummy/internal/models"
	"happytummy/internal/security"
	"happytummy/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	familyService        *service.FamilyService
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	stateSigner          *security.StateSigner
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, familyService *service.FamilyService, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string, stateSigner *security.StateSigner) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		familyService:        familyService,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		stateSigner:          stateSigner,
	}
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	FamilyCode string `json:"familyCode"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	User     *models.User    `json:"user"`
	Families []models.Family `json:"families"`
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name, req.FamilyCode); err != nil {
		respondWithServiceError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// Login exchanges email and password for an access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Me returns the signed-in user and their families
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	families, err := h.familyService.GetUserFamilies(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, meResponse{User: user, Families: families})
}
