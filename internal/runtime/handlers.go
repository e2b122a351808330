package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/toria/pkg/domain"
)

// GenerationFallback is the reply used whenever the Generator fails.
const GenerationFallback = "I'm having trouble answering right now. Could you try asking again?"

// modeHandler builds the system prompt of one mode.
type modeHandler struct {
	stage  domain.Stage
	prompt func(state *domain.ConversationState) string
}

// handlers is the mode → handler dispatch table.
var handlers = map[domain.Mode]modeHandler{
	domain.ModeProfileDayPlans: {
		stage: domain.StageProfileDayPlans,
		prompt: func(s *domain.ConversationState) string {
			return ProfileDayPlansPrompt(s.CurrentItinerary, s.UserPreferences)
		},
	},
	domain.ModeStartMyDay: {
		stage: domain.StageStartMyDay,
		prompt: func(s *domain.ConversationState) string {
			return StartMyDayPrompt(s.CurrentItinerary, s.UserPreferences)
		},
	},
	domain.ModeGeneral: {
		stage: domain.StageGeneralTravel,
		prompt: func(s *domain.ConversationState) string {
			return GeneralPrompt(s.UserPreferences)
		},
	},
}

// handlerFor returns the handler of mode, defaulting to general.
func handlerFor(mode domain.Mode) modeHandler {
	if h, ok := handlers[mode]; ok {
		return h
	}
	return handlers[domain.ModeGeneral]
}

// respond runs a mode handler and returns exactly one assistant message.
// Generation failures never escape: they become GenerationFallback.
func (e *Engine) respond(ctx context.Context, h modeHandler, state *domain.ConversationState) domain.Message {
	prompt := h.prompt(state)

	genCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	text, err := e.generator.Generate(genCtx, prompt, e.window(state.Messages))
	if err != nil {
		if !errors.Is(err, domain.ErrGeneration) {
			err = fmt.Errorf("%w: %w", domain.ErrGeneration, err)
		}
		e.fallback(ctx, state, h.stage, ReasonGeneration, err)
		return domain.NewAssistantMessage(GenerationFallback, e.now())
	}

	text = strings.TrimSpace(text)
	if text == "" {
		e.fallback(ctx, state, h.stage, ReasonEmptyReply, fmt.Errorf("%w: empty reply", domain.ErrGeneration))
		return domain.NewAssistantMessage(GenerationFallback, e.now())
	}

	return domain.NewAssistantMessage(text, e.now())
}

// window bounds the history sent to the Generator to the most recent messages.
// Stored history is never truncated.
func (e *Engine) window(msgs []domain.Message) []domain.Message {
	if e.historyWindow <= 0 || len(msgs) <= e.historyWindow {
		return msgs
	}
	return msgs[len(msgs)-e.historyWindow:]
}
