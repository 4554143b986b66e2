package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tetsunavi/tetsunavi/internal/cli/formatter"
	"github.com/tetsunavi/tetsunavi/internal/service"
)

// chatReplyMsg is delivered when a sent message has been answered or has
// failed.
type chatReplyMsg struct {
	err error
}

var chatKeys = struct {
	Send key.Binding
	Quit key.Binding
}{
	Send: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "送信")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "終了")),
}

// chatModel is the interactive assistant view. The conversation owns the
// history; the model only tracks input and the in-flight spinner.
type chatModel struct {
	ctx     context.Context
	conv    *service.Conversation
	input   textinput.Model
	spinner spinner.Model

	sending bool
	notice  string
	width   int
}

func newChatModel(ctx context.Context, conv *service.Conversation) *chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.Placeholder = "質問を入力 (番号で候補を選択)"
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	return &chatModel{ctx: ctx, conv: conv, input: ti, spinner: sp}
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, chatKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, chatKeys.Send):
			return m.submit()
		}

	case chatReplyMsg:
		m.sending = false
		if errors.Is(msg.err, service.ErrChatBusy) {
			m.notice = "前のメッセージの返信を待っています"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input, or the suggestion whose number was typed.
func (m *chatModel) submit() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.notice = ""
	if n, err := strconv.Atoi(text); err == nil {
		if s := m.conv.Suggestions(); n >= 1 && n <= len(s) {
			text = s[n-1]
		}
	}
	if text == "" {
		return m, nil
	}
	m.sending = true
	return m, tea.Batch(m.send(text), m.spinner.Tick)
}

func (m *chatModel) send(text string) tea.Cmd {
	conv, ctx := m.conv, m.ctx
	return func() tea.Msg {
		_, err := conv.Send(ctx, text)
		return chatReplyMsg{err: err}
	}
}

func (m *chatModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.FormatChatWelcome())
	b.WriteString("\n\n")

	for _, msg := range m.conv.Messages() {
		if msg.Role == service.RoleUser {
			b.WriteString(formatter.FormatUserMessage(msg.Content))
		} else {
			b.WriteString(formatter.FormatAssistantMessage(msg.Content))
		}
		b.WriteString("\n\n")
	}

	switch {
	case m.sending:
		b.WriteString(m.spinner.View() + " " + formatter.Dim("考え中...") + "\n\n")
	default:
		if s := formatter.FormatSuggestions(m.conv.Suggestions()); s != "" {
			b.WriteString(s + "\n\n")
		}
	}
	if m.notice != "" {
		b.WriteString(formatter.StyleYellow.Render(m.notice) + "\n")
	}

	b.WriteString(formatter.StylePurple.Render("質問") + formatter.Dim("› "))
	b.WriteString(m.input.View())
	b.WriteString("\n" + formatter.Dim(chatKeys.Send.Help().Key+" "+chatKeys.Send.Help().Desc+" · "+
		chatKeys.Quit.Help().Key+" "+chatKeys.Quit.Help().Desc))
	return b.String()
}
