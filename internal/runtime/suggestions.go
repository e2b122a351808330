package runtime

import "github.com/aretw0/toria/pkg/domain"

// DeriveActions returns the follow-up actions of a turn.
// The output depends only on the mode and on whether an itinerary was loaded.
func DeriveActions(mode domain.Mode, itinerary *domain.Itinerary, itineraryID *string) []domain.SuggestedAction {
	switch mode {
	case domain.ModeStartMyDay:
		if itinerary == nil {
			return []domain.SuggestedAction{}
		}
		return []domain.SuggestedAction{
			{
				Type:    domain.ActionNearbySuggestions,
				Payload: map[string]any{"location": "current_location"},
				Label:   "Find nearby alternatives",
			},
			{
				Type:    domain.ActionCheckDone,
				Payload: map[string]any{"stop_id": "current_stop"},
				Label:   "Mark location as visited",
			},
			{
				Type:    domain.ActionGetDirections,
				Payload: map[string]any{"destination": "next_stop"},
				Label:   "Get directions to next stop",
			},
		}

	case domain.ModeProfileDayPlans:
		var id any
		if itineraryID != nil {
			id = *itineraryID
		}
		return []domain.SuggestedAction{
			{
				Type:    domain.ActionCreateNewPlan,
				Payload: map[string]any{},
				Label:   "Create new day plan",
			},
			{
				Type:    domain.ActionModifyExisting,
				Payload: map[string]any{"itinerary_id": id},
				Label:   "Modify this plan",
			},
		}

	default:
		return []domain.SuggestedAction{}
	}
}
