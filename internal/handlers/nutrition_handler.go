package handlers

import (
	"log/slog"
	"net/http"

	"happytummy/internal/nutrition"
	"happytummy/internal/service"
)

const (
	defaultTopFiberLimit = 5
	maxTopFiberLimit     = 50
)

// NutritionHandler serves nutrition search and the fiber ranking
type NutritionHandler struct {
	resolver       *nutrition.Resolver
	insightService *service.InsightService
}

// NewNutritionHandler creates a new nutrition handler
func NewNutritionHandler(resolver *nutrition.Resolver, insightService *service.InsightService) *NutritionHandler {
	return &NutritionHandler{resolver: resolver, insightService: insightService}
}

type searchResponse struct {
	Results []nutrition.Result `json:"results"`
}

// Search resolves ?query= against the local dataset and the remote service
func (h *NutritionHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	resolution, err := h.resolver.Resolve(r.Context(), query)
	if err != nil {
		respondWithLookupError(w, err)
		return
	}

	slog.Debug("nutrition search", "query", query, "origin", resolution.Origin, "results", len(resolution.Results))
	respondJSON(w, http.StatusOK, searchResponse{Results: resolution.Results})
}

// TopFiber lists the reference foods richest in fiber
func (h *NutritionHandler) TopFiber(w http.ResponseWriter, r *http.Request) {
	foods, err := h.insightService.TopFiber(r.Context(), queryLimit(r, defaultTopFiberLimit, maxTopFiberLimit))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, foods)
}
