package domain

import (
	"context"
	"time"
)

// Stage names the steps of a chat turn.
type Stage string

const (
	StageRouteContext       Stage = "route_context"
	StageProfileDayPlans    Stage = "profile_dayplans_chat"
	StageStartMyDay         Stage = "start_my_day_chat"
	StageGeneralTravel      Stage = "general_travel_chat"
	StageProvideSuggestions Stage = "provide_suggestions"
)

// StageEvent represents entry into or exit from a pipeline stage.
type StageEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Stage     Stage         `json:"stage"`
	Mode      Mode          `json:"mode"`
	ThreadKey string        `json:"thread_key"`
	Elapsed   time.Duration `json:"elapsed,omitempty"` // set on leave
}

// FallbackEvent is emitted whenever a failure is silently downgraded.
type FallbackEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     Stage     `json:"stage"`
	Mode      Mode      `json:"mode"`
	ThreadKey string    `json:"thread_key"`
	Reason    string    `json:"reason"` // preferences, itinerary, generation, pipeline
	Err       error     `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStageEnter func(context.Context, *StageEvent)
	OnStageLeave func(context.Context, *StageEvent)
	OnFallback   func(context.Context, *FallbackEvent)
}
