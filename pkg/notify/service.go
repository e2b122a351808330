// Package notify records travel notifications and schedules trip reminders.
//
// Delivery to a push gateway is out of scope: a persisted record with status
// "sent" is the notification.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultListLimit is used by List when no positive limit is given.
	DefaultListLimit = 20

	// tripBatchSize caps how many trips a single scheduling pass handles.
	tripBatchSize = 100
)

// Trip windows, in whole hours until the trip date.
const (
	preparationFrom = 20
	preparationTo   = 28
	reminderFrom    = 10
	reminderTo      = 14

	scanFrom = reminderFrom * time.Hour
	scanTo   = 48 * time.Hour
)

// Result reports a persisted notification.
type Result struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notification_id"`
}

// Store is the persistence the Service needs.
type Store interface {
	ports.NotificationStore
	ListUpcomingTrips(ctx context.Context, from, to time.Time, limit int) ([]domain.Itinerary, error)
}

// Service creates notification records.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a notification Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send persists a push notification for a user.
func (s *Service) Send(ctx context.Context, userID, title, body string, data map[string]any) (Result, error) {
	if data == nil {
		data = map[string]any{}
	}
	kind, _ := data["type"].(string)

	n := &domain.Notification{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   data,
		Type:   "push",
		Status: "sent",
		SentAt: s.now().UTC(),
	}
	if err := s.store.InsertNotification(ctx, n); err != nil {
		s.logger.Error("Failed to store notification", "user_id", userID, "err", err)
		return Result{}, fmt.Errorf("insert notification: %w", err)
	}

	s.logger.Info("Notification sent", "user_id", userID, "type", kind, "title", title)
	return Result{Success: true, NotificationID: n.ID}, nil
}

// SendTripPreparation tells the traveller their trip is tomorrow.
func (s *Service) SendTripPreparation(ctx context.Context, trip domain.Itinerary) (Result, error) {
	city := s.city(trip)
	focus := trip.Focus
	if focus == "" {
		focus = "adventure"
	}
	return s.Send(ctx, trip.UserID,
		fmt.Sprintf("Trip to %s Tomorrow!", city),
		fmt.Sprintf("Get ready for your %s trip. Check the weather and pack accordingly!", focus),
		map[string]any{
			"type":    domain.NotificationTripPreparation,
			"trip_id": trip.ID,
			"city":    city,
			"actions": []string{"Check weather forecast", "Plan your route", "Charge your devices"},
		})
}

// SendTripReminder tells the traveller their trip starts in a few hours.
func (s *Service) SendTripReminder(ctx context.Context, trip domain.Itinerary) (Result, error) {
	city := s.city(trip)
	return s.Send(ctx, trip.UserID,
		fmt.Sprintf("%s Trip Starting Soon!", city),
		"Your trip starts in a few hours. You're all set!",
		map[string]any{
			"type":    domain.NotificationTripReminder,
			"trip_id": trip.ID,
			"city":    city,
			"actions": []string{"Start My Day", "Check directions", "View itinerary"},
		})
}

// SendLocationSuggestions offers nearby alternatives when a stop ends early.
func (s *Service) SendLocationSuggestions(ctx context.Context, userID, location string, suggestions []map[string]any) (Result, error) {
	if suggestions == nil {
		suggestions = []map[string]any{}
	}
	return s.Send(ctx, userID,
		"Finished Early? Great Options Nearby!",
		fmt.Sprintf("Found %d amazing places near %s", len(suggestions), location),
		map[string]any{
			"type":             domain.NotificationLocationSuggestions,
			"current_location": location,
			"suggestions":      suggestions,
		})
}

// SendFeedbackReminder asks for a review of a completed stop.
func (s *Service) SendFeedbackReminder(ctx context.Context, userID, stopName string) (Result, error) {
	return s.Send(ctx, userID,
		fmt.Sprintf("How was %s?", stopName),
		"Share your experience to help other travelers!",
		map[string]any{
			"type":      domain.NotificationFeedbackRequest,
			"stop_name": stopName,
			"actions":   []string{"Rate experience", "Add photos", "Write review"},
		})
}

// List returns a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.store.ListNotifications(ctx, userID, limit)
}

// ScheduleTripNotifications scans upcoming trips and sends the notice that
// matches how far away each one is. Each trip gets at most one notice of each
// kind, however often the scan runs. It returns how many were sent.
func (s *Service) ScheduleTripNotifications(ctx context.Context) (int, error) {
	now := s.now().UTC()
	trips, err := s.store.ListUpcomingTrips(ctx, now.Add(scanFrom), now.Add(scanTo), tripBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list upcoming trips: %w", err)
	}

	sent := 0
	for _, trip := range trips {
		hours := int(trip.Date.Sub(now).Hours())

		var (
			kind string
			send func(context.Context, domain.Itinerary) (Result, error)
		)
		switch {
		case hours >= preparationFrom && hours <= preparationTo:
			kind, send = domain.NotificationTripPreparation, s.SendTripPreparation
		case hours >= reminderFrom && hours <= reminderTo:
			kind, send = domain.NotificationTripReminder, s.SendTripReminder
		default:
			continue
		}

		done, err := s.store.HasTripNotification(ctx, trip.UserID, trip.ID, kind)
		if err != nil {
			s.logger.Warn("Skipping trip notification", "trip_id", trip.ID, "err", err)
			continue
		}
		if done {
			continue
		}
		if _, err := send(ctx, trip); err != nil {
			s.logger.Warn("Skipping trip notification", "trip_id", trip.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) city(trip domain.Itinerary) string {
	if strings.TrimSpace(trip.City) == "" {
		return "your destination"
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.TrimSpace(trip.City))
}
