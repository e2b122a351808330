package toria

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/internal/runtime"
	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/aretw0/toria/pkg/session"
)

// Version is the release of the Toria backend.
const Version = "1.0.0"

// Assistant is the high-level entry point for the Toria conversation engine.
// It wraps the internal runtime and exposes one method per chat entry point.
type Assistant struct {
	engine   *runtime.Engine
	sessions *session.Manager

	history       ports.HistoryStore
	locker        ports.DistributedLocker
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	timeout       time.Duration
	historyWindow int
	clock         func() time.Time
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithHistoryStore sets where conversation threads are persisted (default: in memory).
func WithHistoryStore(store ports.HistoryStore) Option {
	return func(a *Assistant) {
		a.history = store
	}
}

// WithLocker serializes turns on the same thread across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *Assistant) {
		a.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithGeneratorTimeout bounds each language-model call.
func WithGeneratorTimeout(d time.Duration) Option {
	return func(a *Assistant) {
		a.timeout = d
	}
}

// WithHistoryWindow sets how many trailing messages are sent to the model.
func WithHistoryWindow(n int) Option {
	return func(a *Assistant) {
		a.historyWindow = n
	}
}

// WithClock sets the time source used to stamp messages.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.clock = now
	}
}

// ErrUnboundedLock is returned by New when a distributed locker is combined
// with a zero generator timeout.
var ErrUnboundedLock = errors.New("a distributed locker requires a positive generator timeout")

// lockMargin covers history loading and saving around the generator call.
const lockMargin = 15 * time.Second

func lockTTL(timeout time.Duration) time.Duration {
	return max(session.DefaultLockTTL, timeout+lockMargin)
}

// New wires an Assistant. Preferences and itineraries are read-only lookups;
// either may be nil, in which case turns run without that personalization.
func New(preferences ports.PreferenceStore, itineraries ports.ItineraryStore, generator ports.Generator, opts ...Option) (*Assistant, error) {
	if generator == nil {
		return nil, errors.New("a generator is required")
	}

	a := &Assistant{
		timeout:       runtime.DefaultGeneratorTimeout,
		historyWindow: runtime.DefaultHistoryWindow,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.history == nil {
		a.history = memory.NewHistoryStore()
	}

	sessionOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		// The distributed lock is held across the generator call and must outlive it.
		if a.timeout <= 0 {
			return nil, ErrUnboundedLock
		}
		sessionOpts = append(sessionOpts, session.WithLocker(a.locker), session.WithLockTTL(lockTTL(a.timeout)))
	}
	a.sessions = session.NewManager(a.history, sessionOpts...)

	router := runtime.NewRouter(runtime.NewLoader(preferences, itineraries))
	a.engine = runtime.NewEngine(router, generator, a.sessions,
		runtime.WithLifecycleHooks(a.hooks),
		runtime.WithLogger(a.logger),
		runtime.WithGeneratorTimeout(a.timeout),
		runtime.WithHistoryWindow(a.historyWindow),
		runtime.WithClock(a.clock),
	)

	return a, nil
}

// ChatFromProfileDayPlans answers a message sent from Profile → My Day Plans.
// itineraryID is optional.
func (a *Assistant) ChatFromProfileDayPlans(ctx context.Context, userID, message string, itineraryID *string) domain.ChatResponse {
	return a.Chat(ctx, userID, message, domain.ModeProfileDayPlans, itineraryID)
}

// ChatFromStartMyDay answers a message sent while a day plan is being executed.
// It returns domain.ErrItineraryRequired, before running the pipeline, if itineraryID is empty.
func (a *Assistant) ChatFromStartMyDay(ctx context.Context, userID, message, itineraryID string) (domain.ChatResponse, error) {
	if itineraryID == "" {
		return domain.ChatResponse{}, domain.ErrItineraryRequired
	}
	return a.Chat(ctx, userID, message, domain.ModeStartMyDay, &itineraryID), nil
}

// GeneralTravelChat answers an open-ended travel question.
func (a *Assistant) GeneralTravelChat(ctx context.Context, userID, message string) domain.ChatResponse {
	return a.Chat(ctx, userID, message, domain.ModeGeneral, nil)
}

// Chat runs one turn in the given mode. Unknown modes run as general.
// It never fails; see runtime.Engine.Chat.
func (a *Assistant) Chat(ctx context.Context, userID, message string, mode domain.Mode, itineraryID *string) domain.ChatResponse {
	return a.engine.Chat(ctx, runtime.Request{
		UserID:      userID,
		Message:     message,
		Mode:        mode,
		ItineraryID: itineraryID,
	})
}

// History returns the stored thread of a user in a mode.
func (a *Assistant) History(ctx context.Context, userID string, mode domain.Mode) ([]domain.Message, error) {
	return a.engine.History(ctx, userID, mode)
}

// Sessions returns the thread manager, e.g. to list or delete threads.
func (a *Assistant) Sessions() *session.Manager {
	return a.sessions
}
