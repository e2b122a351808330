package domain

// Suggested action types.
const (
	ActionNearbySuggestions = "nearby_suggestions"
	ActionCheckDone         = "check_done"
	ActionGetDirections     = "get_directions"
	ActionCreateNewPlan     = "create_new_plan"
	ActionModifyExisting    = "modify_existing"
)

// SuggestedAction is a follow-up affordance returned alongside a chat reply.
// Actions are derived from rules, never generated by the model.
type SuggestedAction struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
	Label   string         `json:"label"`
}
