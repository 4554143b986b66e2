package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/tetsunavi/tetsunavi/internal/contract"
)

// ApologyMessage is appended as the assistant's turn when a message fails.
const ApologyMessage = "申し訳ございません。エラーが発生しました。もう一度お試しください。"

// DefaultSuggestions are offered before the first reply.
var DefaultSuggestions = []string{
	"転入届の手続き方法を教えて",
	"いつまでに何をすればいい？",
	"まとめて手続きできる窓口は？",
	"オンラインでできる手続きは？",
}

// ErrChatBusy is returned when a message is sent while another one is
// still waiting for its reply.
var ErrChatBusy = errors.New("a message is already being sent")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Conversation is the chat history of one session. It is safe for
// concurrent use; only one message is in flight at a time.
type Conversation struct {
	sessionID string
	backend   Backend
	observer  UseCaseObserver

	mu          sync.Mutex
	messages    []Message
	suggestions []string
	pending     bool
}

func (c *Conversation) SessionID() string { return c.sessionID }

func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// Suggestions are the follow-up questions to offer next. They are cleared
// while a message is in flight and replaced only by a non-empty list from
// the backend.
func (c *Conversation) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.suggestions)
}

func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Send trims text and posts it. Blank input is ignored and returns a nil
// message. The user's message is recorded before the call. On failure the
// apology is recorded and returned together with the error.
func (c *Conversation) Send(ctx context.Context, text string) (reply *Message, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return nil, ErrChatBusy
	}
	c.pending = true
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	c.suggestions = nil
	c.mu.Unlock()

	fields := map[string]any{"length": len([]rune(text))}
	done := track(ctx, c.observer, "chat", c.sessionID, fields)
	defer func() { done(err) }()

	resp, err := c.backend.SendChatMessage(ctx, c.sessionID, contract.ChatRequest{Message: text})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	if err != nil {
		msg := Message{Role: RoleAssistant, Content: ApologyMessage}
		c.messages = append(c.messages, msg)
		return &msg, err
	}
	msg := Message{Role: RoleAssistant, Content: resp.Reply}
	c.messages = append(c.messages, msg)
	if len(resp.SuggestedQuestions) > 0 {
		c.suggestions = slices.Clone(resp.SuggestedQuestions)
	}
	fields["suggestions"] = len(resp.SuggestedQuestions)
	return &msg, nil
}

type chatService struct {
	backend  Backend
	observer UseCaseObserver

	mu            sync.Mutex
	conversations map[string]*Conversation
}

func NewChatService(backend Backend, observers ...UseCaseObserver) ChatService {
	return &chatService{
		backend:       backend,
		observer:      useCaseObserverOrNoop(observers),
		conversations: make(map[string]*Conversation),
	}
}

func (s *chatService) Conversation(sessionID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[sessionID]
	if !ok {
		c = &Conversation{
			sessionID:   sessionID,
			backend:     s.backend,
			observer:    s.observer,
			suggestions: slices.Clone(DefaultSuggestions),
		}
		s.conversations[sessionID] = c
	}
	return c
}
