package runs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/services/execution"
	"gitlab.com/codepad.net/internal/handlers"
	"gitlab.com/codepad.net/internal/handlers/response"
	"gitlab.com/codepad.net/internal/static/errs"
)

// LanguageResolver maps a requested language id to the one to run
type LanguageResolver interface {
	ResolveLanguage(requested int) (int, bool)
}

// RunHandler handles run API requests
type RunHandler struct {
	executionSvc execution.IExecutionService
	languages    LanguageResolver
	logger       primary.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(executionSvc execution.IExecutionService, languages LanguageResolver, logger primary.Logger) *RunHandler {
	return &RunHandler{
		executionSvc: executionSvc,
		languages:    languages,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for RunHandler
func (h *RunHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/run", h.RunOnce).Methods("POST")
	router.HandleFunc("/api/runs", h.RunSuite).Methods("POST")
	router.HandleFunc("/api/runs/{runId}", h.GetRun).Methods("GET")
	router.HandleFunc("/api/runs/{runId}/cancel", h.CancelRun).Methods("POST")
}

// RunOnce handles editor-mode run requests
func (h *RunHandler) RunOnce(w http.ResponseWriter, r *http.Request) {
	var req RunOnceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	languageID, ok := h.languages.ResolveLanguage(req.LanguageID)
	if !ok {
		response.Error(w, http.StatusBadRequest, errs.ErrLanguageNotAllowed.Error())
		return
	}

	result, err := h.executionSvc.RunOnce(r.Context(), execution.RunOnceRequest{
		SourceCode: req.SourceCode,
		LanguageID: languageID,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.WriteSuccess(w, result)
}

// RunSuite handles custom-question run requests. With ?async=true the run
// continues in the background and only its ID is returned.
func (h *RunHandler) RunSuite(w http.ResponseWriter, r *http.Request) {
	var req RunSuiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	languageID, ok := h.languages.ResolveLanguage(req.LanguageID)
	if !ok {
		response.Error(w, http.StatusBadRequest, errs.ErrLanguageNotAllowed.Error())
		return
	}

	suite := execution.SuiteRequest{
		Owner:      handlers.OwnerFromContext(r.Context()),
		SourceCode: req.SourceCode,
		LanguageID: languageID,
		TestCases:  req.TestCases,
	}

	if r.URL.Query().Get("async") == "true" {
		runID, err := h.executionSvc.StartTestSuite(r.Context(), suite)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusAccepted, StartRunResponse{RunID: runID})
		return
	}

	state, err := h.executionSvc.RunTestSuite(r.Context(), suite)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.WriteSuccess(w, RunSuiteResponse{RunState: state, Summary: state.Summary()})
}

// GetRun handles run polling requests
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.parseRunID(w, r)
	if !ok {
		return
	}

	state, err := h.executionSvc.GetRun(r.Context(), handlers.OwnerFromContext(r.Context()), runID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.WriteSuccess(w, RunSuiteResponse{RunState: state, Summary: state.Summary()})
}

// CancelRun handles run cancellation requests
func (h *RunHandler) CancelRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := h.parseRunID(w, r)
	if !ok {
		return
	}

	if err := h.executionSvc.CancelRun(r.Context(), handlers.OwnerFromContext(r.Context()), runID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RunHandler) parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	runIDStr := mux.Vars(r)["runId"]
	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		h.logger.Error("Invalid run ID", "id", runIDStr)
		response.Error(w, http.StatusBadRequest, "Invalid run ID")
		return uuid.Nil, false
	}
	return runID, true
}

func (h *RunHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrEmptySourceCode):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrRunInProgress):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrRunNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("Run request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal error")
	}
}
