package handlers

import (
	"net/http"
	"strconv"

	"happytummy/internal/service"
)

// ChildHandler serves a family's children and the views derived from their logs
type ChildHandler struct {
	familyService         *service.FamilyService
	logService            *service.LogService
	insightService        *service.InsightService
	recommendationService *service.RecommendationService
}

// NewChildHandler creates a new child handler
func NewChildHandler(familyService *service.FamilyService, logService *service.LogService, insightService *service.InsightService, recommendationService *service.RecommendationService) *ChildHandler {
	return &ChildHandler{
		familyService:         familyService,
		logService:            logService,
		insightService:        insightService,
		recommendationService: recommendationService,
	}
}

// pathID parses the {id} path value, answering 400 when it is not a positive integer
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return 0, false
	}
	return id, true
}

// queryLimit reads an optional positive ?limit= value
func queryLimit(r *http.Request, fallback, max int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return fallback
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

// ListChildren returns every child the user can see
func (h *ChildHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	children, err := h.familyService.ListChildren(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, children)
}

// CreateChild adds a child to one of the user's families
func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	var input service.ChildInput
	if !decodeJSON(w, r, &input) {
		return
	}

	child, err := h.familyService.CreateChild(r.Context(), user.ID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, child)
}

// GetChild returns one child
func (h *ChildHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, ok := pathID(w, r)
	if !ok {
		return
	}

	child, err := h.familyService.GetChild(r.Context(), user.ID, childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// UpdateChild replaces a child's profile
func (h *ChildHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.ChildInput
	if !decodeJSON(w, r, &input) {
		return
	}

	child, err := h.familyService.UpdateChild(r.Context(), user.ID, childID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// DeleteChild removes a child and its logs
func (h *ChildHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.familyService.DeleteChild(r.Context(), user.ID, childID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLogs returns a child's logs newest first
func (h *ChildHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, ok := pathID(w, r)
	if !ok {
		return
	}

	logs, err := h.logService.ListLogs(r.Context(), user.ID, childID, queryLimit(r, 0, 0))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

// Summary returns the weekly nutrient summary
func (h *ChildHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, ok := pathID(w, r)
	if !ok {
		return
	}

	summary, err := h.insightService.Summary(r.Context(), user.ID, childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// DailyInsight compares the two latest logs
func (h *ChildHandler) DailyInsight(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, ok := pathID(w, r)
	if !ok {
		return
	}

	insight, err := h.insightService.DailyInsight(r.Context(), user.ID, childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

// Recommendations returns feeding recommendations for the child's latest state
func (h *ChildHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	childID, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := h.recommendationService.Recommend(r.Context(), user.ID, childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
