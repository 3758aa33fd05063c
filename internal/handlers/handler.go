package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/codepad.net/internal/domain"
	"gitlab.com/codepad.net/internal/handlers/response"
)

// LanguageHandler lists the languages callers may run
type LanguageHandler struct {
	languages []domain.Language
}

// NewLanguageHandler creates a new language handler
func NewLanguageHandler(languages []domain.Language) *LanguageHandler {
	return &LanguageHandler{languages: languages}
}

// RegisterRoutes registers the API routes for LanguageHandler
func (h *LanguageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/languages", h.GetLanguages).Methods("GET")
}

// GetLanguages handles language list requests
func (h *LanguageHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, map[string][]domain.Language{"languages": h.languages})
}
