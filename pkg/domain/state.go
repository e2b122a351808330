package domain

// ConversationState represents the snapshot of one chat turn.
// It is rebuilt for every inbound call; only Messages outlive the turn.
type ConversationState struct {
	// Messages holds the thread history followed by the new human turn.
	// It only grows: entries are appended, never removed or rewritten.
	Messages []Message

	UserID string
	Mode   Mode

	// ItineraryID is optional except for ModeStartMyDay, where the entry point requires it.
	ItineraryID *string

	// CurrentItinerary and UserPreferences are read-only copies loaded by the router.
	CurrentItinerary *Itinerary
	UserPreferences  Preferences

	// SuggestedActions is recomputed each turn and never persisted.
	SuggestedActions []SuggestedAction
}

// NewConversationState creates a clean state for a turn.
func NewConversationState(userID string, mode Mode, itineraryID *string) *ConversationState {
	return &ConversationState{
		Messages:         []Message{},
		UserID:           userID,
		Mode:             mode,
		ItineraryID:      itineraryID,
		UserPreferences:  Preferences{},
		SuggestedActions: []SuggestedAction{},
	}
}

// ThreadKey returns the history key of the state.
func (s *ConversationState) ThreadKey() string {
	return ThreadKey(s.UserID, s.Mode)
}

// LastAssistantMessage returns the content of the most recent assistant turn.
func (s *ConversationState) LastAssistantMessage() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}

// ChatContext echoes the identifiers of a turn back to the caller.
type ChatContext struct {
	ItineraryID *string `json:"itinerary_id"`
	Mode        Mode    `json:"mode"`
	UserID      string  `json:"user_id"`
	Error       string  `json:"error,omitempty"`
}

// ChatResponse is the result of a chat turn.
type ChatResponse struct {
	Message string            `json:"message"`
	Actions []SuggestedAction `json:"actions"`
	Context ChatContext       `json:"context"`
}
