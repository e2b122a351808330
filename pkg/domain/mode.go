package domain

import "strings"

// Mode is the conversational context a chat turn runs in.
// It decides the persona, the contextual data loaded and the follow-up actions.
type Mode string

const (
	ModeProfileDayPlans Mode = "profile_dayplans" // Profile → My Day Plans
	ModeStartMyDay      Mode = "start_my_day"     // Active itinerary execution
	ModeGeneral         Mode = "general"          // Open-ended travel advice
)

// Modes lists every supported mode in a stable order.
var Modes = []Mode{ModeProfileDayPlans, ModeStartMyDay, ModeGeneral}

// ParseMode normalizes a raw mode string.
// Unrecognized values fall back to ModeGeneral; it never fails.
func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeProfileDayPlans:
		return ModeProfileDayPlans
	case ModeStartMyDay:
		return ModeStartMyDay
	default:
		return ModeGeneral
	}
}

// ThreadKey identifies the history shared by every chat of a user in a mode.
// Itinerary IDs are deliberately not part of the key.
func ThreadKey(userID string, mode Mode) string {
	return userID + "_" + string(mode)
}
