package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/toria/pkg/calendar"
	"github.com/aretw0/toria/pkg/discovery"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateUserRequest registers a traveller.
type CreateUserRequest struct {
	ID          string             `json:"id"`
	DisplayName string             `json:"display_name" validate:"required"`
	Email       string             `json:"email" validate:"omitempty,email"`
	FirebaseUID string             `json:"firebase_uid"`
	Preferences domain.Preferences `json:"preferences"`
}

// CreateDayPlanRequest stores a hand-built day plan.
type CreateDayPlanRequest struct {
	UserID    string        `json:"user_id" validate:"required"`
	Title     string        `json:"title" validate:"required"`
	City      string        `json:"city" validate:"required"`
	GoingWith string        `json:"going_with"`
	Focus     string        `json:"focus" validate:"omitempty,oneof=food attractions both"`
	Date      time.Time     `json:"date"`
	Duration  string        `json:"duration"`
	Status    string        `json:"status" validate:"plan_status"`
	Stops     []domain.Stop `json:"stops"`
}

// UpdateStatusRequest moves a plan along the timeline.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,plan_status"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !s.decode(w, r, &req) {
		return
	}

	user := &domain.User{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		FirebaseUID: req.FirebaseUID,
		Preferences: req.Preferences,
		CreatedAt:   s.now().UTC(),
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Preferences == nil {
		user.Preferences = domain.Preferences{}
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		s.storeError(w, r, err, "User not found")
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) createDayPlan(w http.ResponseWriter, r *http.Request) {
	var req CreateDayPlanRequest
	if !s.decode(w, r, &req) {
		return
	}

	now := s.now().UTC()
	plan := &domain.Itinerary{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Title:     req.Title,
		City:      req.City,
		GoingWith: req.GoingWith,
		Focus:     req.Focus,
		Date:      req.Date,
		Duration:  req.Duration,
		Status:    domain.PlanUpcoming,
		Stops:     req.Stops,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Status != "" {
		plan.Status = domain.PlanStatus(req.Status)
	}
	if plan.Stops == nil {
		plan.Stops = []domain.Stop{}
	}
	for i := range plan.Stops {
		if plan.Stops[i].ID == "" {
			plan.Stops[i].ID = "stop_" + strconv.Itoa(i)
		}
	}

	if err := s.store.CreateDayPlan(r.Context(), plan); err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) listDayPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListDayPlans(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, plans)
}

func (s *Server) listDayPlansByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParsePlanStatus(chi.URLParam(r, "status"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plans, err := s.store.ListDayPlansByStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, plans)
}

func (s *Server) updateDayPlanStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !s.decode(w, r, &req) {
		return
	}

	planID := chi.URLParam(r, "id")
	if err := s.store.UpdateDayPlanStatus(r.Context(), planID, domain.PlanStatus(req.Status)); err != nil {
		s.storeError(w, r, err, "Day plan not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "plan_id": planID, "status": req.Status})
}

func (s *Server) exportDayPlan(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	plan, err := s.store.GetItinerary(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		s.storeError(w, r, err, "Day plan not found")
		return
	}

	doc, err := calendar.Export(plan, s.now())
	if errors.Is(err, calendar.ErrNoStops) {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+plan.ID+`.ics"`)
	_, _ = w.Write([]byte(doc))
}

func (s *Server) listReels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reelType := domain.ReelType(q.Get("type"))
	if reelType != "" && reelType != domain.ReelFood && reelType != domain.ReelPlace {
		s.writeError(w, http.StatusBadRequest, "type must be Food or Place")
		return
	}

	reels, err := s.discovery.Feed(r.Context(), discovery.Query{
		Location: q.Get("location"),
		Type:     reelType,
		Limit:    limit,
	})
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, reels)
}

func (s *Server) upvoteReel(w http.ResponseWriter, r *http.Request) {
	reelID := chi.URLParam(r, "reel_id")
	if err := s.discovery.Upvote(r.Context(), reelID); err != nil {
		s.storeError(w, r, err, "Reel not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Reel upvoted successfully",
		"reel_id": reelID,
	})
}

func (s *Server) saveReel(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	saved, err := s.discovery.Save(r.Context(), userID, chi.URLParam(r, "reel_id"))
	if err != nil {
		s.storeError(w, r, err, "Reel not found")
		return
	}
	msg := "Reel saved successfully"
	if !saved {
		msg = "Already saved"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

func (s *Server) listSavedReels(w http.ResponseWriter, r *http.Request) {
	reels, err := s.discovery.Saved(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		s.storeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, reels)
}
