package handlers

import (
	"net/http"

	"happytummy/internal/service"
)

// LogHandler records digestion logs
type LogHandler struct {
	logService *service.LogService
}

// NewLogHandler creates a new log handler
func NewLogHandler(logService *service.LogService) *LogHandler {
	return &LogHandler{logService: logService}
}

// CreateLog stores a log and answers with the log and its daily insight
func (h *LogHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	var input service.LogInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.logService.CreateLog(r.Context(), user.ID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}
