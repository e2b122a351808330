// Package http exposes the Toria backend over a JSON REST API built on chi.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/toria"
	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/internal/validator"
	"github.com/aretw0/toria/pkg/discovery"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/notify"
	"github.com/aretw0/toria/pkg/planner"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Assistant is the conversation core served under /api/chatbot.
type Assistant interface {
	ChatFromProfileDayPlans(ctx context.Context, userID, message string, itineraryID *string) domain.ChatResponse
	ChatFromStartMyDay(ctx context.Context, userID, message, itineraryID string) (domain.ChatResponse, error)
	GeneralTravelChat(ctx context.Context, userID, message string) domain.ChatResponse
	History(ctx context.Context, userID string, mode domain.Mode) ([]domain.Message, error)
}

var _ Assistant = (*toria.Assistant)(nil)

// Config lists the services behind the API. Assistant and Store are required;
// Metrics, when set, is mounted at /metrics.
type Config struct {
	Assistant Assistant
	Store     ports.DocumentStore
	Discovery *discovery.Service
	Planner   *planner.Planner
	Notifier  *notify.Service
	Metrics   http.Handler
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Server holds the handlers of the REST API.
type Server struct {
	assistant Assistant
	store     ports.DocumentStore
	discovery *discovery.Service
	planner   *planner.Planner
	notifier  *notify.Service
	validate  *validator.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates the HTTP handler for the API.
func NewHandler(cfg Config) http.Handler {
	s := &Server{
		assistant: cfg.Assistant,
		store:     cfg.Store,
		discovery: cfg.Discovery,
		planner:   cfg.Planner,
		notifier:  cfg.Notifier,
		validate:  validator.New(),
		logger:    cfg.Logger,
		now:       cfg.Clock,
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.discovery == nil {
		s.discovery = discovery.NewService(cfg.Store, discovery.WithLogger(s.logger))
	}
	if s.planner == nil {
		s.planner = planner.New(nil, cfg.Store, planner.WithLogger(s.logger))
	}
	if s.notifier == nil {
		s.notifier = notify.NewService(cfg.Store, notify.WithLogger(s.logger))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.root)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/chatbot", func(r chi.Router) {
			r.Post("/profile-dayplans", s.chatProfileDayPlans)
			r.Post("/start-my-day", s.chatStartMyDay)
			r.Post("/general", s.chatGeneral)
			r.Get("/history/{user_id}/{mode}", s.chatHistory)
		})

		r.Post("/users", s.createUser)
		r.Get("/users/{user_id}", s.getUser)

		r.Route("/day-plans", func(r chi.Router) {
			r.Post("/", s.createDayPlan)
			r.Get("/{id}", s.listDayPlans)
			r.Get("/{id}/{status}", s.listDayPlansByStatus)
			r.Get("/{id}/calendar.ics", s.exportDayPlan)
			r.Put("/{id}/status", s.updateDayPlanStatus)
		})

		r.Get("/reels", s.listReels)
		r.Post("/reels/{reel_id}/upvote", s.upvoteReel)
		r.Post("/reels/{reel_id}/save", s.saveReel)
		r.Get("/saved-reels/{user_id}", s.listSavedReels)

		r.Post("/plan-my-trip", s.planMyTrip)
		r.Post("/top-places", s.topPlaces)

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", s.sendNotification)
			r.Get("/{user_id}", s.listNotifications)
			r.Post("/location-suggestions", s.notifyLocationSuggestions)
			r.Post("/feedback-reminder", s.notifyFeedbackReminder)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
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

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Toria Travel API",
		"version": toria.Version,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("Health check: store unreachable", "err", err)
		database = "disconnected"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"database":  database,
		"services": map[string]string{
			"chatbot":       "active",
			"notifications": "active",
			"ai_planning":   "active",
		},
	})
}

// -- Helpers --

// decode reads a JSON body into dst and validates it. On failure it writes a
// 400 response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// storeError maps store errors to responses: ErrNotFound → 404, anything else → 500.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, domain.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, notFound)
		return
	}
	s.logger.Error("Request failed", "path", r.URL.Path, "err", err)
	s.writeError(w, http.StatusInternalServerError, "Internal server error")
}

