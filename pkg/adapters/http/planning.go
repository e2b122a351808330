package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aretw0/toria/pkg/planner"
	"github.com/go-chi/chi/v5"
)

// NotificationRequest sends an arbitrary notification.
type NotificationRequest struct {
	UserID string         `json:"user_id" validate:"required"`
	Title  string         `json:"title" validate:"required"`
	Body   string         `json:"body" validate:"required"`
	Data   map[string]any `json:"data"`
}

// LocationSuggestionsRequest offers nearby alternatives.
type LocationSuggestionsRequest struct {
	UserID      string           `json:"user_id" validate:"required"`
	Location    string           `json:"location" validate:"required"`
	Suggestions []map[string]any `json:"suggestions"`
}

// FeedbackReminderRequest asks for a review of a stop.
type FeedbackReminderRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	StopName string `json:"stop_name" validate:"required"`
}

func (s *Server) planMyTrip(w http.ResponseWriter, r *http.Request) {
	var req planner.TripRequest
	if !s.decode(w, r, &req) {
		return
	}

	plan, err := s.planner.PlanMyTrip(r.Context(), req)
	if errors.Is(err, planner.ErrNoPlaces) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) topPlaces(w http.ResponseWriter, r *http.Request) {
	var req planner.TopPlacesRequest
	if !s.decode(w, r, &req) {
		return
	}
	places := s.planner.TopPlaces(r.Context(), req)
	s.writeJSON(w, http.StatusOK, map[string]any{"places": places, "total": len(places)})
}

func (s *Server) sendNotification(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.notifier.Send(r.Context(), req.UserID, req.Title, req.Body, req.Data)
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := s.notifier.List(r.Context(), chi.URLParam(r, "user_id"), limit)
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) notifyLocationSuggestions(w http.ResponseWriter, r *http.Request) {
	var req LocationSuggestionsRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.notifier.SendLocationSuggestions(r.Context(), req.UserID, req.Location, req.Suggestions)
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) notifyFeedbackReminder(w http.ResponseWriter, r *http.Request) {
	var req FeedbackReminderRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.notifier.SendFeedbackReminder(r.Context(), req.UserID, req.StopName)
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}
