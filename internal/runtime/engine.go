package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/aretw0/toria/pkg/session"
)

const (
	// DefaultGeneratorTimeout bounds a single Generator call.
	DefaultGeneratorTimeout = 30 * time.Second

	// DefaultHistoryWindow is the number of trailing messages sent to the Generator.
	DefaultHistoryWindow = 40

	// DegradedReply is returned when the pipeline fails unexpectedly.
	DegradedReply = "I'm having trouble right now. Please try again in a moment!"

	// DefaultReply is returned if a turn somehow produced no assistant message.
	DefaultReply = "I'm here to help! What would you like to know?"
)

// Request is one inbound chat message.
type Request struct {
	UserID      string
	Message     string
	Mode        domain.Mode
	ItineraryID *string
}

// Engine runs chat turns through the conversation pipeline.
type Engine struct {
	router        *Router
	generator     ports.Generator
	sessions      *session.Manager
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	timeout       time.Duration
	historyWindow int
	now           func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGeneratorTimeout overrides DefaultGeneratorTimeout. Zero disables the timeout.
func WithGeneratorTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithHistoryWindow overrides DefaultHistoryWindow. Zero sends the full history.
func WithHistoryWindow(n int) EngineOption {
	return func(e *Engine) {
		e.historyWindow = n
	}
}

// WithClock sets the time source used to stamp messages.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine from its collaborators.
func NewEngine(router *Router, generator ports.Generator, sessions *session.Manager, opts ...EngineOption) *Engine {
	e := &Engine{
		router:        router,
		generator:     generator,
		sessions:      sessions,
		logger:        logging.NewNop(),
		timeout:       DefaultGeneratorTimeout,
		historyWindow: DefaultHistoryWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Chat runs one turn. It never returns an error: unexpected failures,
// panics included, produce a degraded response with Context.Error set.
func (e *Engine) Chat(ctx context.Context, req Request) (resp domain.ChatResponse) {
	mode := domain.ParseMode(string(req.Mode))
	echo := domain.ChatContext{
		ItineraryID: req.ItineraryID,
		Mode:        mode,
		UserID:      req.UserID,
	}
	state := domain.NewConversationState(req.UserID, mode, req.ItineraryID)

	defer func() {
		if r := recover(); r != nil {
			resp = e.degraded(ctx, state, echo, fmt.Errorf("panic: %v", r))
		}
	}()

	err := e.sessions.Turn(ctx, state.ThreadKey(), func(ctx context.Context, history []domain.Message) ([]domain.Message, error) {
		human := domain.NewHumanMessage(req.Message, e.now())
		state.Messages = append(state.Messages, history...)
		state.Messages = append(state.Messages, human)

		e.runStage(ctx, state, domain.StageRouteContext, func(ctx context.Context) {
			routed := e.router.Route(ctx, state.UserID, state.Mode, state.ItineraryID)
			state.UserPreferences = routed.Preferences
			state.CurrentItinerary = routed.Itinerary
			for _, d := range routed.Degraded {
				e.fallback(ctx, state, domain.StageRouteContext, d.Reason, d.Err)
			}
		})

		h := handlerFor(state.Mode)
		var reply domain.Message
		e.runStage(ctx, state, h.stage, func(ctx context.Context) {
			reply = e.respond(ctx, h, state)
			state.Messages = append(state.Messages, reply)
		})

		e.runStage(ctx, state, domain.StageProvideSuggestions, func(ctx context.Context) {
			state.SuggestedActions = DeriveActions(state.Mode, state.CurrentItinerary, state.ItineraryID)
		})

		return []domain.Message{human, reply}, nil
	})
	if err != nil {
		return e.degraded(ctx, state, echo, err)
	}

	text, ok := state.LastAssistantMessage()
	if !ok {
		text = DefaultReply
	}

	e.logger.Debug("chat turn completed",
		"thread_key", state.ThreadKey(),
		"mode", state.Mode,
		"actions", len(state.SuggestedActions),
	)

	return domain.ChatResponse{
		Message: text,
		Actions: state.SuggestedActions,
		Context: echo,
	}
}

// History returns the stored history of a thread.
func (e *Engine) History(ctx context.Context, userID string, mode domain.Mode) ([]domain.Message, error) {
	return e.sessions.History(ctx, domain.ThreadKey(userID, domain.ParseMode(string(mode))))
}

func (e *Engine) degraded(ctx context.Context, state *domain.ConversationState, echo domain.ChatContext, err error) domain.ChatResponse {
	e.logger.Error("chat pipeline failed",
		"thread_key", state.ThreadKey(),
		"mode", state.Mode,
		"err", err,
	)
	e.emitFallback(ctx, state, "", ReasonPipeline, err)

	echo.Error = err.Error()
	return domain.ChatResponse{
		Message: DegradedReply,
		Actions: []domain.SuggestedAction{},
		Context: echo,
	}
}

// fallback logs a silently downgraded failure and reports it to the hooks.
func (e *Engine) fallback(ctx context.Context, state *domain.ConversationState, stage domain.Stage, reason string, err error) {
	e.logger.Warn("falling back",
		"stage", stage,
		"reason", reason,
		"thread_key", state.ThreadKey(),
		"err", err,
	)
	e.emitFallback(ctx, state, stage, reason, err)
}

func (e *Engine) emitFallback(ctx context.Context, state *domain.ConversationState, stage domain.Stage, reason string, err error) {
	if e.hooks.OnFallback == nil {
		return
	}
	e.hooks.OnFallback(ctx, &domain.FallbackEvent{
		Timestamp: e.now(),
		Stage:     stage,
		Mode:      state.Mode,
		ThreadKey: state.ThreadKey(),
		Reason:    reason,
		Err:       err,
	})
}

// runStage wraps fn with OnStageEnter/OnStageLeave events.
func (e *Engine) runStage(ctx context.Context, state *domain.ConversationState, stage domain.Stage, fn func(context.Context)) {
	start := time.Now()
	if e.hooks.OnStageEnter != nil {
		e.hooks.OnStageEnter(ctx, &domain.StageEvent{
			Timestamp: e.now(),
			Stage:     stage,
			Mode:      state.Mode,
			ThreadKey: state.ThreadKey(),
		})
	}

	fn(ctx)

	if e.hooks.OnStageLeave != nil {
		e.hooks.OnStageLeave(ctx, &domain.StageEvent{
			Timestamp: e.now(),
			Stage:     stage,
			Mode:      state.Mode,
			ThreadKey: state.ThreadKey(),
			Elapsed:   time.Since(start),
		})
	}
}
