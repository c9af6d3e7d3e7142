package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"happytummy/internal/nutrition"
	"happytummy/internal/security"
	"happytummy/internal/service"
	"happytummy/internal/validation"
)

// errorResponse is the JSON body of every error reply
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

const maxBodyBytes = 1 << 20

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		slog.Error(logMsg, "status", status, "error", err)
	}
	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a size-limited JSON request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		msg := ErrInvalidJSON
		if errors.Is(err, io.EOF) {
			msg = ErrEmptyBody
		}
		respondWithError(w, http.StatusBadRequest, msg, "", nil)
		return false
	}
	return true
}

// respondWithServiceError maps service and validation errors onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
	case errors.Is(err, service.ErrChildNotFound), errors.Is(err, service.ErrFamilyNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrNotFamilyMember):
		respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
	case errors.Is(err, service.ErrNoFamily), errors.Is(err, service.ErrInvalidFamilyCode):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, security.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "request failed", err)
	}
}

// respondWithLookupError maps nutrition lookup failures onto HTTP statuses
func respondWithLookupError(w http.ResponseWriter, err error) {
	failure, ok := nutrition.AsFailure(err)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "nutrition lookup failed", err)
		return
	}

	slog.Warn("nutrition lookup failed", "kind", failure.Kind, "status_code", failure.StatusCode, "error", failure.Err)
	switch failure.Kind {
	case nutrition.KindUnavailable:
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: ErrNutritionUnavailable})
	case nutrition.KindTimeout:
		respondJSON(w, http.StatusGatewayTimeout, errorResponse{Error: ErrNutritionTimeout})
	case nutrition.KindUpstream:
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: ErrNutritionUpstream, Details: failure.Body})
	case nutrition.KindRequest:
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: ErrNutritionRequest})
	case nutrition.KindCanceled:
		respondJSON(w, http.StatusRequestTimeout, errorResponse{Error: ErrNutritionCanceled})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: ErrInternalServerError})
	}
}
