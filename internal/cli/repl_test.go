package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/toria"
	"github.com/aretw0/toria/pkg/adapters/llm"
	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssistant(t *testing.T) *toria.Assistant {
	t.Helper()
	store := memory.NewDocumentStore()
	require.NoError(t, store.CreateDayPlan(context.Background(), &domain.Itinerary{ID: "it1", UserID: "u1", City: "Jaipur"}))
	a, err := toria.New(store, store, llm.NewEcho())
	require.NoError(t, err)
	return a
}

func TestRunChat_Interactive(t *testing.T) {
	a := newAssistant(t)
	in := strings.NewReader("hello\n\n/mode start_my_day\nwhere next?\n/itinerary it1\nwhere next?\n/history\n/bogus\n/exit\nnever read\n")
	var out bytes.Buffer

	err := RunChat(context.Background(), a, in, &out, ChatOptions{UserID: "u1"})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "[general] > ")
	assert.Contains(t, s, `You said: "hello"`)
	assert.Contains(t, s, ">>> Mode: start_my_day")
	assert.Contains(t, s, domain.ErrItineraryRequired.Error())
	assert.Contains(t, s, "Get directions to next stop")
	assert.Contains(t, s, "human: where next?")
	assert.Contains(t, s, "unknown command /bogus")
	assert.NotContains(t, s, "never read")
}

func TestRunChat_JSON(t *testing.T) {
	a := newAssistant(t)
	in := strings.NewReader("one\ntwo\n")
	var out bytes.Buffer

	require.NoError(t, RunChat(context.Background(), a, in, &out, ChatOptions{UserID: "u1", JSON: true}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	assert.Equal(t, domain.ModeGeneral, resp.Context.Mode)
	assert.Contains(t, resp.Message, "two")

	hist, err := a.History(context.Background(), "u1", domain.ModeGeneral)
	require.NoError(t, err)
	assert.Len(t, hist, 4)
}

func TestRunChat_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunChat(ctx, newAssistant(t), strings.NewReader("hi\n"), &bytes.Buffer{}, ChatOptions{UserID: "u1", Headless: true})
	assert.ErrorIs(t, err, context.Canceled)
}
