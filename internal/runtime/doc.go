/*
Package runtime implements the context-routing conversation engine.

A chat turn is a fixed, linear pipeline:

	START → route_context → {profile_dayplans_chat | start_my_day_chat | general_travel_chat} → provide_suggestions → END

The router hydrates the turn with preferences and the referenced itinerary,
exactly one mode handler (picked from a lookup table) builds the prompt and
calls the Generator, and the suggestion deriver attaches rule-based actions.
Failures degrade instead of propagating: missing data means no
personalization, a failed generation means a fixed fallback reply, and
anything unexpected yields a degraded ChatResponse carrying the error text.
*/
package runtime
