package domain

import "time"

// Notification types.
const (
	NotificationTripPreparation     = "trip_preparation"
	NotificationTripReminder        = "trip_reminder"
	NotificationLocationSuggestions = "location_suggestions"
	NotificationFeedbackRequest     = "feedback_request"
)

// Notification is a persisted push notification.
// Delivery to a push gateway is not performed; the record is the source of truth.
type Notification struct {
	ID     string         `json:"id" bson:"id"`
	UserID string         `json:"user_id" bson:"user_id"`
	Title  string         `json:"title" bson:"title"`
	Body   string         `json:"body" bson:"body"`
	Data   map[string]any `json:"data" bson:"data"`
	Type   string         `json:"type" bson:"type"`
	Status string         `json:"status" bson:"status"`
	SentAt time.Time      `json:"sent_at" bson:"sent_at"`
}
