package runtime_test

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/toria/internal/runtime"
	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/aretw0/toria/pkg/session"
)

// fakeStore serves preferences and itineraries from maps, or fails when err is set.
type fakeStore struct {
	prefs       map[string]domain.Preferences
	itineraries map[string]*domain.Itinerary
	err         error
}

func (f *fakeStore) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.prefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) GetItinerary(ctx context.Context, id, userID string) (*domain.Itinerary, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.itineraries[id]
	if !ok || it.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

// recordingGenerator captures every call and replies with a fixed text.
type recordingGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	calls   [][]domain.Message
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string, history []domain.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.calls = append(g.calls, append([]domain.Message(nil), history...))
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *recordingGenerator) lastHistory() []domain.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return nil
	}
	return g.calls[len(g.calls)-1]
}

func (g *recordingGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func ptr(s string) *string { return &s }

func sampleItinerary() *domain.Itinerary {
	return &domain.Itinerary{
		ID:     "it1",
		UserID: "u1",
		Title:  "Jaipur in a day",
		City:   "Jaipur",
		Status: domain.PlanCurrent,
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Stops: []domain.Stop{
			{ID: "s1", Name: "Amber Fort", Time: "09:00"},
			{ID: "s2", Name: "Hawa Mahal", Time: "12:00"},
		},
	}
}

func newEngine(store *fakeStore, gen ports.Generator, opts ...runtime.EngineOption) *runtime.Engine {
	router := runtime.NewRouter(runtime.NewLoader(store, store))
	sessions := session.NewManager(memory.NewHistoryStore())
	return runtime.NewEngine(router, gen, sessions, opts...)
}
