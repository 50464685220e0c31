package backend

import (
	"context"
	"sync"

	"notes-client/internal/domain"
)

// Op names a Client operation, used by MockClient to record calls.
type Op string

const (
	OpListConversations   Op = "ListConversations"
	OpGetConversation     Op = "GetConversation"
	OpCreateConversation  Op = "CreateConversation"
	OpSearchConversations Op = "SearchConversations"
	OpListMessages        Op = "ListMessages"
	OpCreateMessage       Op = "CreateMessage"
	OpSearchMessages      Op = "SearchMessages"
	OpListThoughts        Op = "ListThoughts"
	OpCreateThought       Op = "CreateThought"
)

// Call is one recorded invocation.
type Call struct {
	Op   Op
	Text string
	ID   int64
}

// MockClient allows view tests without a backend. Every operation answers with
// the canned data below, or with Errs[op] when set.
type MockClient struct {
	mu sync.Mutex

	Conversations []domain.Conversation
	Conversation  domain.Conversation
	Messages      []domain.Message
	Thoughts      []domain.Thought
	Created       domain.Conversation
	Errs          map[Op]error

	calls []Call
}

func (m *MockClient) record(op Op, text string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: op, Text: text, ID: id})
	return m.Errs[op]
}

// Calls returns the recorded calls for op, or every call when op is empty.
func (m *MockClient) Calls(op Op) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Call
	for _, c := range m.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockClient) ListConversations(_ context.Context) ([]domain.Conversation, error) {
	if err := m.record(OpListConversations, "", 0); err != nil {
		return nil, err
	}
	return append([]domain.Conversation(nil), m.Conversations...), nil
}

func (m *MockClient) GetConversation(_ context.Context, id int64) (domain.Conversation, error) {
	if err := m.record(OpGetConversation, "", id); err != nil {
		return domain.Conversation{}, err
	}
	return m.Conversation, nil
}

func (m *MockClient) CreateConversation(_ context.Context, title string) (domain.Conversation, error) {
	if err := m.record(OpCreateConversation, title, 0); err != nil {
		return domain.Conversation{}, err
	}
	return m.Created, nil
}

func (m *MockClient) SearchConversations(_ context.Context, title string) ([]domain.Conversation, error) {
	if err := m.record(OpSearchConversations, title, 0); err != nil {
		return nil, err
	}
	return append([]domain.Conversation(nil), m.Conversations...), nil
}

func (m *MockClient) ListMessages(_ context.Context, conversationID int64) ([]domain.Message, error) {
	if err := m.record(OpListMessages, "", conversationID); err != nil {
		return nil, err
	}
	return append([]domain.Message(nil), m.Messages...), nil
}

func (m *MockClient) CreateMessage(_ context.Context, text string, conversationID int64) (domain.Message, error) {
	if err := m.record(OpCreateMessage, text, conversationID); err != nil {
		return domain.Message{}, err
	}
	return domain.Message{ID: 1, Conversation: conversationID, Text: text}, nil
}

func (m *MockClient) SearchMessages(_ context.Context, text string, conversationID int64) ([]domain.Message, error) {
	if err := m.record(OpSearchMessages, text, conversationID); err != nil {
		return nil, err
	}
	return append([]domain.Message(nil), m.Messages...), nil
}

func (m *MockClient) ListThoughts(_ context.Context, messageID int64) ([]domain.Thought, error) {
	if err := m.record(OpListThoughts, "", messageID); err != nil {
		return nil, err
	}
	return append([]domain.Thought(nil), m.Thoughts...), nil
}

func (m *MockClient) CreateThought(_ context.Context, text string, messageID int64) (domain.Thought, error) {
	if err := m.record(OpCreateThought, text, messageID); err != nil {
		return domain.Thought{}, err
	}
	return domain.Thought{ID: 1, Message: messageID, Text: text}, nil
}
