/*
Package domain contains the core domain models of the Toria travel assistant.

It defines the conversational entities (Mode, Message, ConversationState,
SuggestedAction) and the travel data they reference (Itinerary, Stop, Reel,
Notification). This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Mode: One of the three conversational contexts (profile_dayplans, start_my_day, general).
  - ConversationState: The unit of work threaded through routing, generation and suggestions.
  - SuggestedAction: A rule-derived follow-up affordance returned with every reply.
  - Itinerary: A user-owned day plan made of ordered stops.
*/
package domain
