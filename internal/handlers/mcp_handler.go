package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"happytummy/internal/nutrition"
	"happytummy/internal/service"
)

// Tool names served on /mcp
const (
	ToolNutritionSearch        = "nutrition_search"
	ToolFeedingRecommendations = "feeding_recommendations"
)

var errInvalidToolParams = errors.New("invalid tool parameters")

// NutritionSearchParams are the arguments of nutrition_search
type NutritionSearchParams struct {
	Query string `json:"query" description:"Food to look up, at least two characters"`
}

// FeedingRecommendationsParams are the arguments of feeding_recommendations
type FeedingRecommendationsParams struct {
	ChildID int64 `json:"childId" description:"Child to build recommendations for"`
}

// MCPHandler exposes nutrition lookups and recommendations as agent tools
type MCPHandler struct {
	resolver              *nutrition.Resolver
	recommendationService *service.RecommendationService
}

// NewMCPHandler creates a new MCP tool handler
func NewMCPHandler(resolver *nutrition.Resolver, recommendationService *service.RecommendationService) *MCPHandler {
	return &MCPHandler{resolver: resolver, recommendationService: recommendationService}
}

// CallTool decodes a CallToolRequest and dispatches it by tool name
func (h *MCPHandler) CallTool(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	var result *protocol.CallToolResult
	var err error

	switch request.Name {
	case ToolNutritionSearch:
		result, err = h.handleNutritionSearch(r.Context(), &request)
	case ToolFeedingRecommendations:
		result, err = h.handleFeedingRecommendations(r.Context(), &request)
	default:
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Unknown tool: %s", request.Name), "", nil)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, errInvalidToolParams):
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		case isLookupFailure(err):
			respondWithLookupError(w, err)
		default:
			respondWithServiceError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func isLookupFailure(err error) bool {
	_, ok := nutrition.AsFailure(err)
	return ok
}

func (h *MCPHandler) handleNutritionSearch(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params NutritionSearchParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	resolution, err := h.resolver.Resolve(ctx, params.Query)
	if err != nil {
		return nil, err
	}
	return createJSONResult(searchResponse{Results: resolution.Results})
}

func (h *MCPHandler) handleFeedingRecommendations(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params FeedingRecommendationsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ChildID <= 0 {
		return nil, fmt.Errorf("%w: childId is required", errInvalidToolParams)
	}

	user := GetUserFromContext(ctx)
	if user == nil {
		return nil, service.ErrUnauthenticated
	}

	rec, err := h.recommendationService.Recommend(ctx, user.ID, params.ChildID)
	if err != nil {
		return nil, err
	}
	return createJSONResult(rec)
}

// extractParams round-trips the request arguments through JSON into target
func extractParams(req *protocol.CallToolRequest, target any) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidToolParams, err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidToolParams, strings.TrimPrefix(err.Error(), "json: "))
	}
	return nil
}

func createJSONResult(data any) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
