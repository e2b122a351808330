package domain

import "time"

// PlanStatus tracks where a day plan sits in the user's timeline.
type PlanStatus string

const (
	PlanCurrent  PlanStatus = "current"
	PlanUpcoming PlanStatus = "upcoming"
	PlanPast     PlanStatus = "past"
)

// ParsePlanStatus validates a raw status string.
func ParsePlanStatus(raw string) (PlanStatus, error) {
	switch s := PlanStatus(raw); s {
	case PlanCurrent, PlanUpcoming, PlanPast:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Preferences holds free-form user preferences (diet, budget, vibe...).
type Preferences map[string]any

// User is a registered traveller.
type User struct {
	ID          string      `json:"id" bson:"id"`
	DisplayName string      `json:"display_name" bson:"display_name"`
	Email       string      `json:"email,omitempty" bson:"email,omitempty"`
	FirebaseUID string      `json:"firebase_uid,omitempty" bson:"firebase_uid,omitempty"`
	Preferences Preferences `json:"preferences" bson:"preferences"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
}

// Stop is a single place visited during a day plan.
type Stop struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Type        string `json:"type,omitempty" bson:"type,omitempty"` // food / place
	Address     string `json:"address,omitempty" bson:"address,omitempty"`
	Time        string `json:"time,omitempty" bson:"time,omitempty"` // HH:MM local
	Duration    string `json:"duration,omitempty" bson:"duration,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Done        bool   `json:"done" bson:"done"`
}

// Itinerary is a user-owned day plan.
type Itinerary struct {
	ID            string     `json:"id" bson:"id"`
	UserID        string     `json:"user_id" bson:"user_id"`
	Title         string     `json:"title" bson:"title"`
	City          string     `json:"city" bson:"city"`
	GoingWith     string     `json:"going_with" bson:"going_with"` // friends/family/partner/business/solo
	Focus         string     `json:"focus" bson:"focus"`           // food/attractions/both
	Date          time.Time  `json:"date" bson:"date"`
	Duration      string     `json:"duration,omitempty" bson:"duration,omitempty"`
	Status        PlanStatus `json:"status" bson:"status"`
	Stops         []Stop     `json:"stops" bson:"stops"`
	GeneratedByAI bool       `json:"generated_by_ai" bson:"generated_by_ai"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

// ItemsCount returns the number of stops in the plan.
func (i *Itinerary) ItemsCount() int {
	return len(i.Stops)
}
