package history

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/services/history"
	"gitlab.com/codepad.net/internal/domain"
	"gitlab.com/codepad.net/internal/handlers/response"
)

// Handler serves the run history
type Handler struct {
	historySvc history.IHistoryService
	logger     primary.Logger
}

func NewHandler(historySvc history.IHistoryService, logger primary.Logger) *Handler {
	return &Handler{
		historySvc: historySvc,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/history", h.ListHistory).Methods("GET")
}

// ListHistory returns every snippet in append order
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.historySvc.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list history", "error", err)
		response.Error(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	response.WriteSuccess(w, map[string][]*domain.HistorySnippet{"snippets": snippets})
}
