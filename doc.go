/*
Package toria is the conversational core of the Toria travel-planning backend.

An Assistant classifies every inbound chat message into one of three modes,
loads the user's preferences and the referenced itinerary, builds a
mode-specific prompt for a language model, and attaches rule-based follow-up
actions to the reply. History is kept per thread, where a thread is a user in
a mode.

# Modes

  - profile_dayplans: chatting from Profile → My Day Plans, about existing or new plans.
  - start_my_day: accompanying a day plan that is being executed; requires an itinerary.
  - general: open-ended travel advice.

# Failure Policy

A chat turn never fails. Storage errors degrade to "no personalization", a
failed model call yields a fixed fallback reply, and anything unexpected yields
a degraded response whose context carries the error text. The single hard
error is a start_my_day call without an itinerary ID.

# Usage

	store := memory.NewDocumentStore()
	assistant, err := toria.New(store, store, llm.NewEcho())
	if err != nil {
		log.Fatal(err)
	}

	resp := assistant.GeneralTravelChat(ctx, "u1", "Where should I eat in Jaipur?")
	fmt.Println(resp.Message)

The HTTP server (pkg/adapters/http), the MCP server (pkg/adapters/mcp) and the
interactive CLI (cmd/toria) are thin wrappers over these entry points.
*/
package toria
