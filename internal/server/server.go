package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/staffdesk/internal/config"
	"github.com/jonathan/staffdesk/internal/db"
	"github.com/jonathan/staffdesk/internal/events"
	"github.com/jonathan/staffdesk/internal/server/middleware"
	"github.com/jonathan/staffdesk/internal/server/ratelimit"
	"github.com/jonathan/staffdesk/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	resources   map[string]resourceHandler
	employees   *EmployeeService
	attachments AttachmentStore
	timesheets  TimesheetStore
	files       storage.FileStorage
	publisher   events.Publisher
	hub         *events.Hub
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	health      func(context.Context) error
	closers     []func()
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	RabbitMQURL string
	EventsQueue string
	Storage     storage.Config
}

// Deps are the collaborators of a Server. New builds them from Config; tests supply
// in-memory versions.
type Deps struct {
	Resources   []resourceHandler
	Employees   EmployeeStore
	Attachments AttachmentStore
	Timesheets  TimesheetStore
	Files       storage.FileStorage
	Events      events.Publisher
	JWT         *JWTService
	Passwords   *config.PasswordConfig
	RateLimit   *ratelimit.Config
	// Health, when set, is checked by GET /health.
	Health func(context.Context) error
}

// New connects to the database, the file store and the event broker and creates a
// server listening on cfg.Port.
func New(cfg Config) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open file storage: %w", err)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		mq, err := events.Dial(cfg.RabbitMQURL, cfg.EventsQueue)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to connect to event broker: %w", err)
		}
		publisher = mq
	} else {
		log.Printf("[events] RABBITMQ_URL not set, lifecycle events are dropped")
	}

	employees := NewEmployeeService(database, passwordConfig)
	s := newServer(Deps{
		Resources:   DBResources(database, employees),
		Employees:   database,
		Attachments: database,
		Timesheets:  database,
		Files:       files,
		Events:      publisher,
		JWT:         NewJWTService(jwtConfig),
		Passwords:   passwordConfig,
		RateLimit:   ratelimit.LoadConfig(),
		Health:      database.Ping,
	})
	s.closers = append(s.closers, database.Close)
	if c, ok := files.(io.Closer); ok {
		s.closers = append(s.closers, func() { _ = c.Close() })
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires handlers over deps.
func newServer(deps Deps) *Server {
	s := &Server{
		resources:   make(map[string]resourceHandler, len(deps.Resources)),
		employees:   NewEmployeeService(deps.Employees, deps.Passwords),
		attachments: deps.Attachments,
		timesheets:  deps.Timesheets,
		files:       deps.Files,
		hub:         events.NewHub(),
		jwtService:  deps.JWT,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		health:      deps.Health,
	}
	s.publisher = events.Multi{s.hub}
	if deps.Events != nil {
		s.publisher = events.Multi{deps.Events, s.hub}
	}
	for _, res := range deps.Resources {
		s.resources[res.name()] = res
	}

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", protect(s.handleMe))
	mux.Handle("PUT /api/auth/password", protect(s.handleUpdatePassword))
	mux.Handle("GET /api/events", protect(s.handleEvents))

	// Literal segments take precedence over the {resource} routes below.
	mux.Handle("POST /api/attachments", protect(s.handleUploadAttachment))
	mux.Handle("GET /api/attachments", protect(s.handleListAttachments))
	mux.Handle("GET /api/attachments/{id}/download", protect(s.handleDownloadAttachment))
	mux.Handle("POST /api/submissions/{id}/resume", protect(s.handleUploadResume))
	mux.Handle("POST /api/timesheets/import", protect(s.handleImportTimesheets))

	mux.Handle("GET /api/{resource}", protect(s.handleList))
	mux.Handle("POST /api/{resource}", protect(s.handleCreate))
	mux.Handle("GET /api/{resource}/export", protect(s.handleExport))
	mux.Handle("GET /api/{resource}/{id}", protect(s.handleGet))
	mux.Handle("PUT /api/{resource}/{id}", protect(s.handleUpdate))
	mux.Handle("DELETE /api/{resource}/{id}", protect(s.handleDelete))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close releases the rate limiter, the event publisher and the connections opened by New.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if err := s.publisher.Close(); err != nil {
		log.Printf("[events] close failed: %v", err)
	}
	for _, c := range s.closers {
		c()
	}
}

// resource resolves the {resource} path value, writing a 404 when unknown.
func (s *Server) resource(w http.ResponseWriter, r *http.Request) (resourceHandler, bool) {
	name := r.PathValue("resource")
	res, ok := s.resources[name]
	if !ok {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("unknown resource %q", name))
		return nil, false
	}
	return res, true
}

// pathID parses the {id} path value, writing a 400 when malformed.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.resource(w, r); ok {
		res.list(s, w, r)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.resource(w, r); ok {
		res.create(s, w, r)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.resource(w, r); ok {
		res.export(s, w, r)
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	if id, ok := s.pathID(w, r); ok {
		res.get(s, w, r, id)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	if id, ok := s.pathID(w, r); ok {
		res.update(s, w, r, id)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	if id, ok := s.pathID(w, r); ok {
		res.remove(s, w, r, id)
	}
}

// publish sends a lifecycle event. Failures are logged and never fail the request.
func (s *Server) publish(r *http.Request, resource, action string, id uuid.UUID, record any) {
	e, err := events.New(resource, action, id, middleware.Actor(r), record)
	if err != nil {
		log.Printf("[events] %s.%s %s: %v", resource, action, id, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.Printf("[events] publish %s %s failed: %v", e.Type, id, err)
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d %v %s", r.Method, r.URL.Path, rec.status, time.Since(start), r.RemoteAddr)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			log.Printf("[server] health check failed: %v", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, errorBody{Error: message})
}

// fail maps err to a status and writes it. Server errors are logged.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %v", err)
	}
	s.jsonResponse(w, status, errorPayload(err, status))
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] exceeded: limit=%d remaining=%d", info.Limit, info.Remaining)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
