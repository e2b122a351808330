package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/toria"
	"github.com/aretw0/toria/pkg/adapters/llm"
	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/discovery"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type pingFailStore struct{ *memory.DocumentStore }

func (pingFailStore) Ping(context.Context) error { return errors.New("down") }

func newTestServer(t *testing.T) (http.Handler, *memory.DocumentStore) {
	t.Helper()
	store := memory.NewDocumentStore()
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &domain.User{ID: "u1", DisplayName: "Asha", Preferences: domain.Preferences{"diet": "vegetarian"}}))
	require.NoError(t, store.CreateDayPlan(ctx, &domain.Itinerary{
		ID: "it1", UserID: "u1", Title: "Pink City Day", City: "Jaipur", Status: domain.PlanCurrent,
		Date:  time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Stops: []domain.Stop{{ID: "s1", Name: "Amber Fort", Time: "10:00"}},
	}))

	assistant, err := toria.New(store, store, llm.NewEcho())
	require.NoError(t, err)

	disc := discovery.NewService(store)
	require.NoError(t, disc.Seed(ctx))

	return NewHandler(Config{
		Assistant: assistant,
		Store:     store,
		Discovery: disc,
		Clock:     func() time.Time { return fixedNow },
	}), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])

	down := NewHandler(Config{Assistant: nil, Store: pingFailStore{memory.NewDocumentStore()}})
	w = do(t, down, http.MethodGet, "/api/health", nil)
	assert.Equal(t, "disconnected", decodeBody[map[string]any](t, w)["database"])
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, http.MethodOptions, "/api/chatbot/general", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestChat(t *testing.T) {
	h, _ := newTestServer(t)

	t.Run("General", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/chatbot/general", ChatRequest{UserID: "u1", Message: "Hi"})
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeBody[domain.ChatResponse](t, w)
		assert.Contains(t, resp.Message, "Hi")
		assert.Empty(t, resp.Actions)
		assert.Equal(t, domain.ModeGeneral, resp.Context.Mode)
	})

	t.Run("Start My Day", func(t *testing.T) {
		id := "it1"
		w := do(t, h, http.MethodPost, "/api/chatbot/start-my-day", ChatRequest{UserID: "u1", Message: "next?", ItineraryID: &id})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[domain.ChatResponse](t, w).Actions, 3)
	})

	t.Run("Start My Day Requires Itinerary", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/chatbot/start-my-day", ChatRequest{UserID: "u1", Message: "next?"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.ErrItineraryRequired.Error(), decodeBody[map[string]string](t, w)["error"])
	})

	t.Run("Profile Day Plans Treats Empty ID As Absent", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/chatbot/profile-dayplans", `{"user_id":"u1","message":"hey","itinerary_id":""}`)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[domain.ChatResponse](t, w)
		assert.Nil(t, resp.Context.ItineraryID)
		require.Len(t, resp.Actions, 2)
		assert.Nil(t, resp.Actions[1].Payload["itinerary_id"])
	})

	t.Run("Validation", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/api/chatbot/general", ChatRequest{Message: "Hi"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "user_id is required", decodeBody[map[string]string](t, w)["error"])

		w = do(t, h, http.MethodPost, "/api/chatbot/general", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("History", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/api/chatbot/history/u1/general", nil)
		require.Equal(t, http.StatusOK, w.Code)
		hist := decodeBody[HistoryResponse](t, w)
		assert.Equal(t, "u1_general", hist.ThreadKey)
		assert.Len(t, hist.Messages, 2)

		w = do(t, h, http.MethodGet, "/api/chatbot/history/nobody/general", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeBody[HistoryResponse](t, w).Messages)
	})
}

func TestUsers(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/users", CreateUserRequest{DisplayName: "Ravi", Email: "ravi@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[domain.User](t, w)
	assert.NotEmpty(t, created.ID)

	w = do(t, h, http.MethodGet, "/api/users/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ravi", decodeBody[domain.User](t, w).DisplayName)

	w = do(t, h, http.MethodGet, "/api/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/users", CreateUserRequest{DisplayName: "X", Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDayPlans(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/day-plans", CreateDayPlanRequest{
		UserID: "u1", Title: "Beach Day", City: "Goa",
		Stops: []domain.Stop{{Name: "Baga Beach"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	plan := decodeBody[domain.Itinerary](t, w)
	assert.Equal(t, domain.PlanUpcoming, plan.Status)
	assert.Equal(t, "stop_0", plan.Stops[0].ID)

	w = do(t, h, http.MethodGet, "/api/day-plans/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Itinerary](t, w), 2)

	w = do(t, h, http.MethodGet, "/api/day-plans/u1/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := decodeBody[[]domain.Itinerary](t, w)
	require.Len(t, current, 1)
	assert.Equal(t, "it1", current[0].ID)

	w = do(t, h, http.MethodGet, "/api/day-plans/u1/someday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/api/day-plans/"+plan.ID+"/status", UpdateStatusRequest{Status: "past"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPut, "/api/day-plans/"+plan.ID+"/status", UpdateStatusRequest{Status: "done"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/api/day-plans/missing/status", UpdateStatusRequest{Status: "past"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/day-plans/u1/past", nil)
	assert.Len(t, decodeBody[[]domain.Itinerary](t, w), 1)
}

func TestCalendarExport(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/day-plans/it1/calendar.ics?user_id=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "SUMMARY:Amber Fort")

	w = do(t, h, http.MethodGet, "/api/day-plans/it1/calendar.ics?user_id=someone-else", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/day-plans/it1/calendar.ics", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReels(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/reels?location=mumbai", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reels := decodeBody[[]domain.Reel](t, w)
	require.Len(t, reels, 1)
	id := reels[0].ID

	w = do(t, h, http.MethodGet, "/api/reels?location=Pune&limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Reel](t, w), 3)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/reels?limit=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/reels?type=Bar", nil).Code)

	w = do(t, h, http.MethodPost, "/api/reels/"+id+"/upvote", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decodeBody[map[string]any](t, w)["reel_id"])
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/reels/missing/upvote", nil).Code)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/reels/"+id+"/save", nil).Code)

	w = do(t, h, http.MethodPost, "/api/reels/"+id+"/save?user_id=u1", nil)
	assert.Equal(t, "Reel saved successfully", decodeBody[map[string]any](t, w)["message"])
	w = do(t, h, http.MethodPost, "/api/reels/"+id+"/save?user_id=u1", nil)
	assert.Equal(t, "Already saved", decodeBody[map[string]any](t, w)["message"])

	w = do(t, h, http.MethodGet, "/api/saved-reels/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	saved := decodeBody[[]domain.Reel](t, w)
	require.Len(t, saved, 1)
	assert.Equal(t, "Hidden Gem Cafe in Mumbai", saved[0].Title)
}

func TestPlanning(t *testing.T) {
	h, store := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/plan-my-trip", map[string]any{
		"user_id": "u2", "places": []string{"Udaipur"}, "going_with": "Family", "focus": "both",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	plan := decodeBody[domain.Itinerary](t, w)
	assert.Equal(t, "Udaipur", plan.City)
	assert.False(t, plan.GeneratedByAI)

	plans, err := store.ListDayPlans(context.Background(), "u2")
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	w = do(t, h, http.MethodPost, "/api/plan-my-trip", map[string]any{"user_id": "u2", "places": []string{}, "going_with": "Solo", "focus": "food"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/top-places", map[string]any{"places": []string{"Goa"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 12, decodeBody[map[string]any](t, w)["total"])
}

func TestNotifications(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/notifications", NotificationRequest{UserID: "u1", Title: "Hi", Body: "There"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody[map[string]any](t, w)["success"])

	w = do(t, h, http.MethodPost, "/api/notifications/location-suggestions", LocationSuggestionsRequest{
		UserID: "u1", Location: "MG Road", Suggestions: []map[string]any{{"name": "Koshy's"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/api/notifications/feedback-reminder", FeedbackReminderRequest{UserID: "u1", StopName: "Amber Fort"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/api/notifications/feedback-reminder", FeedbackReminderRequest{UserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/notifications/u1?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]domain.Notification](t, w)
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/notifications/u1?limit=x", nil).Code)
}

func TestMetricsMount(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("toria_chat_turns_total 1"))
	})
	h := NewHandler(Config{Store: memory.NewDocumentStore(), Metrics: metrics})

	w := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "toria_chat_turns_total"))
}
