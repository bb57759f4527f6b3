package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Warn("failed to encode response body")
	}
}

// respondError переводит доменную ошибку в HTTP-статус:
// конфликт — 409, ошибка валидации — 400, отсутствие сущности — 404,
// всё остальное — 500 без деталей внутренней ошибки.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsConflict(err):
		h.respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case domain.IsInvalid(err):
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case domain.IsNotFound(err):
		h.respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.logger.WithError(err).Error("internal error while handling request")
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (h *Handler) respondBadRequest(w http.ResponseWriter, message string) {
	h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
