package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetsunavi/tetsunavi/internal/api"
	"github.com/tetsunavi/tetsunavi/internal/service"
	"github.com/tetsunavi/tetsunavi/internal/teatest"
	"github.com/tetsunavi/tetsunavi/internal/testutil"
)

// chatDriver opens the chat view for a fresh session. Replies come from the
// fake backend over HTTP, so Cmds get a generous timeout.
func chatDriver(t *testing.T) (*teatest.Driver, *service.Conversation, *testutil.Backend) {
	t.Helper()
	app, backend := testApp(t)
	sid := startSession(t, app)
	conv := app.Chat.Conversation(sid)

	// A blinking cursor parks a Cmd per keystroke until the timeout.
	m := newChatModel(context.Background(), conv)
	m.input.Cursor.SetMode(cursor.CursorStatic)

	d := teatest.New(t, m,
		teatest.WithCmdTimeout(2*time.Second), teatest.WithSize(100, 40))
	d.DrainInit()
	return d, conv, backend
}

func TestChatModel_ShowsWelcomeAndDefaultSuggestions(t *testing.T) {
	d, _, _ := chatDriver(t)

	view := d.View()
	assert.Contains(t, view, "AIアシスタント")
	for _, s := range service.DefaultSuggestions {
		assert.Contains(t, view, s)
	}
}

func TestChatModel_SendShowsBothTurns(t *testing.T) {
	d, conv, backend := chatDriver(t)

	d.Type("転入届の期限は？")
	d.PressEnter()

	view := d.View()
	assert.Contains(t, view, "転入届の期限は？")
	assert.Contains(t, view, "「転入届の期限は？」についてお答えします。")
	assert.NotContains(t, view, "考え中")
	assert.Len(t, conv.Messages(), 2)
	assert.Equal(t, 1, backend.Calls(testutil.RouteChat))
}

func TestChatModel_NumberPicksSuggestion(t *testing.T) {
	d, conv, _ := chatDriver(t)

	d.Type("2")
	d.PressEnter()

	msgs := conv.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, service.DefaultSuggestions[1], msgs[0].Content)
}

func TestChatModel_BlankEnterDoesNothing(t *testing.T) {
	d, conv, backend := chatDriver(t)

	d.Type("   ")
	d.PressEnter()

	assert.Empty(t, conv.Messages())
	assert.Zero(t, backend.Calls(testutil.RouteChat))
}

func TestChatModel_FailureShowsApology(t *testing.T) {
	d, _, backend := chatDriver(t)
	backend.Fail(testutil.RouteChat, 503, api.CodeAIServiceError, "AIサービスエラー", 1)

	d.Type("こんにちは")
	d.PressEnter()

	view := d.View()
	assert.Contains(t, view, service.ApologyMessage)
	assert.Equal(t, 1, strings.Count(view, "こんにちは"))
}

func TestChatModel_IgnoresEnterWhileSending(t *testing.T) {
	app, backend := testApp(t)
	sid := startSession(t, app)
	m := newChatModel(context.Background(), app.Chat.Conversation(sid))

	m.input.SetValue("一つ目")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.sending)

	m.input.SetValue("二つ目")
	_, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)
	assert.Zero(t, backend.Calls(testutil.RouteChat), "nothing is sent until the Cmd runs")
}

func TestChatModel_EscQuits(t *testing.T) {
	d, _, _ := chatDriver(t)

	d.PressEsc()
	assert.True(t, d.Quitting)
}
