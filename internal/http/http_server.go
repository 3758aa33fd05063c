package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/services/execution"
	"gitlab.com/codepad.net/internal/core/services/history"
	"gitlab.com/codepad.net/internal/domain"
	"gitlab.com/codepad.net/internal/handlers"
	historyhdl "gitlab.com/codepad.net/internal/handlers/history"
	"gitlab.com/codepad.net/internal/handlers/runs"
)

type ServiceProvider struct {
	executionService execution.IExecutionService
	historyService   history.IHistoryService
	languages        runs.LanguageResolver
	allowedLanguages []domain.Language
	// middleware is nil when authentication is disabled
	middleware *handlers.MiddlewareProvider
}

func NewServiceProvider(
	executionService execution.IExecutionService,
	historyService history.IHistoryService,
	languages runs.LanguageResolver,
	allowedLanguages []domain.Language,
	middleware *handlers.MiddlewareProvider,
) *ServiceProvider {
	return &ServiceProvider{
		executionService: executionService,
		historyService:   historyService,
		languages:        languages,
		allowedLanguages: allowedLanguages,
		middleware:       middleware,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// api routes carry their full path; the subrouter only scopes the middleware
	api := r.NewRoute().Subrouter()
	if s.ServiceProvider.middleware != nil {
		api.Use(s.ServiceProvider.middleware.JWTMiddleware)
	}

	runs.NewRunHandler(s.ServiceProvider.executionService, s.ServiceProvider.languages, s.logger).RegisterRoutes(api)
	historyhdl.NewHandler(s.ServiceProvider.historyService, s.logger).RegisterRoutes(api)
	handlers.NewLanguageHandler(s.ServiceProvider.allowedLanguages).RegisterRoutes(api)

	s.router = r
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return nil
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving requests until Stop is called
func (s *Server) Start() error {
	s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server error", "error", err)
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	return s.srv.Shutdown(ctx)
}
