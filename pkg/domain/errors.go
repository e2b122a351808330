package domain

import "errors"

// ErrNotFound is returned by stores when a document does not exist
// (or is not owned by the requesting user).
var ErrNotFound = errors.New("not found")

// ErrSessionNotFound is returned when a thread key has no history.
var ErrSessionNotFound = errors.New("session not found")

// ErrItineraryRequired is returned when start_my_day is called without an itinerary ID.
var ErrItineraryRequired = errors.New("itinerary_id is required for start_my_day")

// ErrGeneration is the generic language-model failure.
var ErrGeneration = errors.New("generation failed")

// ErrInvalidStatus is returned for an unknown day plan status.
var ErrInvalidStatus = errors.New("invalid status, must be one of: current, upcoming, past")
