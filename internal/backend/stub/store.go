package stub

import (
	"errors"
	"strings"
	"sync"

	"notes-client/internal/backend"
)

var ErrNotFound = errors.New("not found")

// Store keeps conversations, messages and thoughts in memory, in insertion order.
type Store struct {
	mu            sync.RWMutex
	conversations []backend.WireConversation
	messages      []backend.WireMessage
	thoughts      []backend.WireThought
	nextID        int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) AddConversation(c backend.WireConversation) backend.WireConversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	s.conversations = append(s.conversations, c)
	return c
}

func (s *Store) Conversation(id int64) (backend.WireConversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return backend.WireConversation{}, ErrNotFound
}

// Conversations returns conversations whose title contains title, case-insensitively.
func (s *Store) Conversations(title string) []backend.WireConversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []backend.WireConversation{}
	for _, c := range s.conversations {
		if contains(c.Title, title) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) AddMessage(m backend.WireMessage) (backend.WireMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasConversation(m.Conversation) {
		return backend.WireMessage{}, ErrNotFound
	}
	m.ID = s.id()
	s.messages = append(s.messages, m)
	return m, nil
}

// Messages filters by conversation (0 means any) and text substring.
func (s *Store) Messages(conversationID int64, text string) []backend.WireMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []backend.WireMessage{}
	for _, m := range s.messages {
		if conversationID != 0 && m.Conversation != conversationID {
			continue
		}
		if contains(m.Text, text) {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) AddThought(t backend.WireThought) (backend.WireThought, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasMessage(t.Message) {
		return backend.WireThought{}, ErrNotFound
	}
	t.ID = s.id()
	s.thoughts = append(s.thoughts, t)
	return t, nil
}

// Thoughts filters by message (0 means any).
func (s *Store) Thoughts(messageID int64) []backend.WireThought {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []backend.WireThought{}
	for _, t := range s.thoughts {
		if messageID == 0 || t.Message == messageID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) hasConversation(id int64) bool {
	for _, c := range s.conversations {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hasMessage(id int64) bool {
	for _, m := range s.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
