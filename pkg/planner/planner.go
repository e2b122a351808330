// Package planner builds day plans from a handful of places and traveller
// preferences, asking the language model for a draft and falling back to a
// deterministic plan when it cannot provide one.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultCity      = "Delhi"
	defaultStartTime = "09:00"
	stopSpacing      = 2 * time.Hour
	topPlacesCount   = 12
)

// ErrNoPlaces is returned when a request names no place at all.
var ErrNoPlaces = errors.New("at least one place is required")

// TripRequest describes the trip to plan.
type TripRequest struct {
	UserID       string         `json:"user_id" validate:"required"`
	Places       []string       `json:"places" validate:"required,min=1,dive,required"`
	GoingWith    string         `json:"going_with" validate:"required"`
	Focus        string         `json:"focus" validate:"required,oneof=food attractions both"`
	Duration     int            `json:"duration" validate:"gte=0"`
	DurationUnit string         `json:"duration_unit"`
	Date         time.Time      `json:"date"`
	Time         string         `json:"time"`
	Preferences  map[string]any `json:"preferences"`
}

// TopPlacesRequest asks for ranked candidate places.
type TopPlacesRequest struct {
	Places    []string       `json:"places"`
	GoingWith string         `json:"going_with"`
	Focus     string         `json:"focus"`
	Filters   map[string]any `json:"filters"`
}

// Planner drafts and persists day plans.
type Planner struct {
	generator ports.Generator
	store     ports.DayPlanStore
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the Planner.
type Option func(*Planner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// New creates a Planner. generator may be nil, in which case every plan is the fallback.
func New(generator ports.Generator, store ports.DayPlanStore, opts ...Option) *Planner {
	p := &Planner{
		generator: generator,
		store:     store,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// draft is the JSON shape the model is asked to produce.
type draft struct {
	Title string      `json:"title"`
	Stops []draftStop `json:"stops"`
}

type draftStop struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Address     string `json:"address"`
	Time        string `json:"time"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// PlanMyTrip drafts a day plan for req, stores it as upcoming and returns it.
func (p *Planner) PlanMyTrip(ctx context.Context, req TripRequest) (*domain.Itinerary, error) {
	places := lo.Compact(lo.Map(req.Places, func(s string, _ int) string { return strings.TrimSpace(s) }))
	if len(places) == 0 {
		return nil, ErrNoPlaces
	}
	req.Places = places
	if req.Time == "" {
		req.Time = defaultStartTime
	}

	now := p.now().UTC()
	plan := &domain.Itinerary{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		City:      places[0],
		GoingWith: req.GoingWith,
		Focus:     req.Focus,
		Date:      req.Date,
		Duration:  formatDuration(req.Duration, req.DurationUnit),
		Status:    domain.PlanUpcoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if plan.Date.IsZero() {
		plan.Date = now
	}

	if d, err := p.askModel(ctx, req); err != nil {
		p.logger.Warn("Falling back to generated plan", "user_id", req.UserID, "err", err)
		plan.Title, plan.Stops = fallbackPlan(req)
	} else {
		plan.Title = d.Title
		plan.Stops = lo.Map(d.Stops, func(s draftStop, i int) domain.Stop {
			return domain.Stop{
				ID:          fmt.Sprintf("stop_%d", i),
				Name:        s.Name,
				Type:        s.Type,
				Address:     s.Address,
				Time:        s.Time,
				Duration:    s.Duration,
				Description: s.Description,
			}
		})
		plan.GeneratedByAI = true
	}

	if err := p.store.CreateDayPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("store day plan: %w", err)
	}
	return plan, nil
}

func (p *Planner) askModel(ctx context.Context, req TripRequest) (*draft, error) {
	if p.generator == nil {
		return nil, errors.New("no generator configured")
	}

	reply, err := p.generator.Generate(ctx, planPrompt(req), []domain.Message{
		domain.NewHumanMessage("Plan my day.", p.now().UTC()),
	})
	if err != nil {
		return nil, err
	}

	raw, ok := extractJSON(reply)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in reply", domain.ErrGeneration)
	}
	var d draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	if strings.TrimSpace(d.Title) == "" || len(d.Stops) == 0 {
		return nil, fmt.Errorf("%w: empty plan", domain.ErrGeneration)
	}
	return &d, nil
}

// extractJSON returns the outermost JSON object embedded in s, which models
// often wrap in prose or code fences.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func planPrompt(req TripRequest) string {
	prefs, _ := json.Marshal(req.Preferences)
	if req.Preferences == nil {
		prefs = []byte("{}")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are Toria, a travel planner. Build a one-day itinerary.\n\n")
	fmt.Fprintf(&b, "Places: %s\n", strings.Join(req.Places, ", "))
	fmt.Fprintf(&b, "Going with: %s\n", req.GoingWith)
	fmt.Fprintf(&b, "Focus: %s\n", req.Focus)
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(req.Duration, req.DurationUnit))
	fmt.Fprintf(&b, "Start time: %s\n", req.Time)
	fmt.Fprintf(&b, "Preferences: %s\n\n", prefs)
	b.WriteString(`Respond with JSON only, in this shape:
{"title": "...", "stops": [{"name": "...", "type": "food|place", "address": "...", "time": "HH:MM", "duration": "...", "description": "..."}]}`)
	return b.String()
}

// fallbackPlan visits each place in order, one stop every two hours.
func fallbackPlan(req TripRequest) (string, []domain.Stop) {
	start, err := time.Parse("15:04", req.Time)
	if err != nil {
		start, _ = time.Parse("15:04", defaultStartTime)
	}

	kind := "place"
	if req.Focus == "food" {
		kind = "food"
	}

	stops := lo.Map(req.Places, func(place string, i int) domain.Stop {
		return domain.Stop{
			ID:          fmt.Sprintf("stop_%d", i),
			Name:        place,
			Type:        kind,
			Time:        start.Add(time.Duration(i) * stopSpacing).Format("15:04"),
			Duration:    "2 hours",
			Description: fmt.Sprintf("Perfect for %s trips.", strings.ToLower(req.GoingWith)),
		}
	})

	title := fmt.Sprintf("%s %s Adventure", strings.Join(req.Places, ", "), titleWord(req.Focus))
	return title, stops
}

// TopPlaces returns ranked candidate places for building a day by hand.
func (p *Planner) TopPlaces(ctx context.Context, req TopPlacesRequest) []domain.Place {
	city := defaultCity
	if c, ok := lo.Find(req.Places, func(s string) bool { return strings.TrimSpace(s) != "" }); ok {
		city = strings.TrimSpace(c)
	}
	focus := req.Focus
	if focus == "" {
		focus = "both"
	}

	return lo.Times(topPlacesCount, func(i int) domain.Place {
		kind := domain.ReelPlace
		if i%2 == 0 {
			kind = domain.ReelFood
		}
		switch focus {
		case "food":
			kind = domain.ReelFood
		case "attractions":
			kind = domain.ReelPlace
		}
		return domain.Place{
			Name:        fmt.Sprintf("Top %s Destination %d", titleWord(focus), i),
			City:        city,
			Type:        kind,
			Rating:      float64(int((4.9-float64(i)*0.05)*10+0.5)) / 10,
			Description: fmt.Sprintf("Must-visit %s spot with amazing reviews", focus),
			Tags:        []string{strings.ToLower(city), strings.ToLower(string(kind))},
		}
	})
}

func formatDuration(n int, unit string) string {
	if n <= 0 {
		return ""
	}
	if unit == "" {
		unit = "hours"
	}
	return fmt.Sprintf("%d %s", n, unit)
}

func titleWord(s string) string {
	return cases.Title(language.English).String(s)
}
