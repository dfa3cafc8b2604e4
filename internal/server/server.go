// Package server provides the HTTP REST API for the application tracker.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/application-tracker/internal/attribution"
	"github.com/jonathan/application-tracker/internal/config"
	"github.com/jonathan/application-tracker/internal/db"
	"github.com/jonathan/application-tracker/internal/funnel"
	"github.com/jonathan/application-tracker/internal/generate"
	"github.com/jonathan/application-tracker/internal/llm"
	"github.com/jonathan/application-tracker/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	machine    *funnel.Machine
	resolver   *attribution.Resolver
	llmClient  llm.Client          // nil when no API key is configured
	generator  *generate.Generator // nil when no API key is configured
	jwtService *JWTService
	useBrowser bool
	verbose    bool
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	UseBrowser  bool
	Verbose     bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:         database,
		machine:    funnel.NewMachine(database),
		resolver:   attribution.NewResolver(database),
		useBrowser: cfg.UseBrowser,
		verbose:    cfg.Verbose,
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	// Generation endpoints stay disabled without an API key; everything else
	// works without one.
	if cfg.APIKey != "" {
		client, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create generation client: %w", err)
		}
		s.llmClient = client
		s.generator = generate.NewGenerator(client)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // ingestion and generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Everything except /health requires a valid
// bearer token.
func (s *Server) routes() http.Handler {
	api := http.NewServeMux()

	// Applications
	api.HandleFunc("POST /applications", s.handleCreateApplication)
	api.HandleFunc("GET /applications", s.handleListApplications)
	api.HandleFunc("GET /applications/{id}", s.handleGetApplication)
	api.HandleFunc("PUT /applications/{id}", s.handleUpdateApplication)
	api.HandleFunc("DELETE /applications/{id}", s.handleDeleteApplication)
	api.HandleFunc("POST /applications/{id}/transition", s.handleTransition)

	// Resume attribution
	api.HandleFunc("GET /applications/{id}/resume-suggestion", s.handleResumeSuggestion)
	api.HandleFunc("POST /applications/{id}/resume-version", s.handleLinkResumeVersion)
	api.HandleFunc("GET /resume-versions", s.handleListResumeVersions)
	api.HandleFunc("POST /resume-versions", s.handleCreateResumeVersion)

	// Analytics
	api.HandleFunc("GET /analytics", s.handleAnalytics)
	api.HandleFunc("GET /insights", s.handleInsights)

	// Job postings
	api.HandleFunc("POST /job-postings/ingest", s.handleIngestPosting)
	api.HandleFunc("GET /job-postings/{id}", s.handleGetJobPosting)

	// Generation
	api.HandleFunc("POST /applications/{id}/cover-letter", s.handleCoverLetter)
	api.HandleFunc("POST /applications/{id}/interview-questions", s.handleInterviewQuestions)

	authMW := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/", authMW(api))
	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFor maps a domain error onto an HTTP response.
func (s *Server) errorFor(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
