package session

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown conversation ids.
var ErrNotFound = errors.New("conversation not found")

const (
	// DefaultHistoryLimit keeps the last ten exchanges.
	DefaultHistoryLimit = 20
	titleLength         = 50
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one line of a transcript.
type Message struct {
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Topic       string    `json:"topic,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	At          time.Time `json:"at"`
}

// Conversation is an in-memory transcript.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages,omitempty"`
}

// Store keeps conversations in memory only. It is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	historyLimit  int
	now           func() time.Time
	newID         func() string
}

type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how conversation ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store trimming every transcript to historyLimit messages.
// A non-positive limit selects DefaultHistoryLimit.
func NewStore(historyLimit int, opts ...Option) *Store {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	s := &Store{
		conversations: make(map[string]*Conversation),
		historyLimit:  historyLimit,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds messages to conversation id, creating a new conversation when id is empty.
// Messages without a timestamp get the current time. It returns a snapshot.
func (s *Store) Append(id string, msgs ...Message) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	var conv *Conversation
	if id = strings.TrimSpace(id); id == "" {
		conv = &Conversation{ID: s.newID(), CreatedAt: now}
		s.conversations[conv.ID] = conv
	} else {
		var ok bool
		if conv, ok = s.conversations[id]; !ok {
			return Conversation{}, ErrNotFound
		}
	}

	for _, msg := range msgs {
		if msg.At.IsZero() {
			msg.At = now
		}
		msg.Suggestions = slices.Clone(msg.Suggestions)
		if conv.Title == "" && msg.Role == RoleUser {
			conv.Title = Title(msg.Content)
		}
		conv.Messages = append(conv.Messages, msg)
	}

	if over := len(conv.Messages) - s.historyLimit; over > 0 {
		conv.Messages = slices.Delete(conv.Messages, 0, over)
	}
	conv.UpdatedAt = now

	return conv.snapshot(), nil
}

// Get returns a snapshot of conversation id.
func (s *Store) Get(id string) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	return conv.snapshot(), nil
}

// List returns conversation summaries without messages, most recently updated first.
func (s *Store) List() []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		summary := *conv
		summary.Messages = nil
		list = append(list, summary)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list
}

// Delete drops conversation id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, id)
	return nil
}

// Len reports how many conversations are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// Title derives a conversation title from its first user message.
func Title(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= titleLength {
		return content
	}
	return string(runes[:titleLength]) + "..."
}

func (c *Conversation) snapshot() Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	for i, msg := range c.Messages {
		msg.Suggestions = slices.Clone(msg.Suggestions)
		out.Messages[i] = msg
	}
	return out
}
