package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// ChatRequest is the body of every /api/chatbot call.
type ChatRequest struct {
	UserID      string  `json:"user_id" validate:"required"`
	Message     string  `json:"message" validate:"required"`
	ItineraryID *string `json:"itinerary_id"`
}

// HistoryResponse is the stored thread of a user in a mode.
type HistoryResponse struct {
	ThreadKey string           `json:"thread_key"`
	Mode      domain.Mode      `json:"mode"`
	Messages  []domain.Message `json:"messages"`
}

func (s *Server) chatProfileDayPlans(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp := s.assistant.ChatFromProfileDayPlans(r.Context(), req.UserID, req.Message, emptyToNil(req.ItineraryID))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) chatStartMyDay(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := ""
	if req.ItineraryID != nil {
		id = *req.ItineraryID
	}

	resp, err := s.assistant.ChatFromStartMyDay(r.Context(), req.UserID, req.Message, id)
	if errors.Is(err, domain.ErrItineraryRequired) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("start_my_day chat failed", "user_id", req.UserID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) chatGeneral(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp := s.assistant.GeneralTravelChat(r.Context(), req.UserID, req.Message)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	mode := domain.ParseMode(chi.URLParam(r, "mode"))

	msgs, err := s.assistant.History(r.Context(), userID, mode)
	if errors.Is(err, domain.ErrSessionNotFound) {
		msgs = []domain.Message{}
	} else if err != nil {
		s.logger.Error("Loading history failed", "user_id", userID, "mode", mode, "err", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, HistoryResponse{
		ThreadKey: domain.ThreadKey(userID, mode),
		Mode:      mode,
		Messages:  msgs,
	})
}

func emptyToNil(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
