package runtime

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/toria/pkg/domain"
)

// NoItineraryPlaceholder replaces the itinerary block when no single plan is selected.
const NoItineraryPlaceholder = "No single itinerary selected; answer in the general day-plans context."

const profileDayPlansTemplate = `You are Toria, a friendly and knowledgeable travel assistant.
The user is chatting from their Profile → My Day Plans section.

You can help with:
- Questions about their existing day plans
- Suggestions for improving itineraries
- Travel tips for specific destinations
- Recommendations for places, food, and activities
- Planning new trips

Always be helpful, enthusiastic, and provide actionable advice.
Keep responses concise but informative.

User's current context: %s
%sUser preferences: %s
`

const startMyDayTemplate = `You are Toria, helping the user during their active day trip.
You're in "Start My Day" mode: the user is actively executing their itinerary.

You can help with:
- Real-time suggestions for their current location
- Nearby alternatives if they finish early or need changes
- Quick tips about the places they're visiting
- Handling "Check Done" feedback and suggesting next steps
- Traffic and timing advice
- Emergency assistance or directions

Be proactive, location-aware, and time-sensitive in your responses.

Current itinerary: %s
User preferences: %s
`

const generalTemplate = `You are Toria, a knowledgeable and friendly travel assistant.
Help users with general travel questions, planning, and recommendations.

You can help with:
- Travel planning and itinerary suggestions
- Destination recommendations
- Food and activity suggestions
- Travel tips and advice
- Cultural information
- Safety and practical travel information

Be enthusiastic, helpful, and provide specific actionable advice.
Focus on Indian destinations and experiences.

User preferences: %s
`

// ProfileDayPlansPrompt builds the system prompt for the Profile → My Day Plans mode.
func ProfileDayPlansPrompt(itinerary *domain.Itinerary, prefs domain.Preferences) string {
	block := map[string]any{
		"itinerary":   itinerary,
		"total_plans": "multiple plans available",
	}
	placeholder := ""
	if itinerary == nil {
		placeholder = NoItineraryPlaceholder + "\n"
	}
	return fmt.Sprintf(profileDayPlansTemplate, jsonBlock(block), placeholder, preferencesBlock(prefs))
}

// StartMyDayPrompt builds the system prompt for an in-progress day trip.
func StartMyDayPrompt(itinerary *domain.Itinerary, prefs domain.Preferences) string {
	block := "{}"
	if itinerary != nil {
		block = jsonBlock(itinerary)
	}
	return fmt.Sprintf(startMyDayTemplate, block, preferencesBlock(prefs))
}

// GeneralPrompt builds the system prompt for open-ended travel advice.
// Itinerary data is never embedded in this mode.
func GeneralPrompt(prefs domain.Preferences) string {
	return fmt.Sprintf(generalTemplate, preferencesBlock(prefs))
}

func preferencesBlock(prefs domain.Preferences) string {
	if prefs == nil {
		return "{}"
	}
	return jsonBlock(prefs)
}

// jsonBlock renders v as indented JSON. Map keys are sorted by encoding/json,
// which keeps prompts stable across calls.
func jsonBlock(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
