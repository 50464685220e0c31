package view

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"notes-client/internal/backend"
	"notes-client/internal/domain"
)

// ConversationDetail is the state behind a conversation screen: the
// conversation, its messages, the selected message and that message's thoughts.
type ConversationDetail struct {
	client backend.Client
	logger *zap.Logger
	life   lifetime

	mu           sync.Mutex
	conversation domain.Conversation
	messages     []domain.Message
	selected     *domain.Message
	thoughts     []domain.Thought
	newMessage   string
	lastErr      error

	// Only the latest fetch of each kind may write its result.
	messageSeq uint64
	thoughtSeq uint64
}

// NewConversationDetail builds an empty detail view; Load fills it.
func NewConversationDetail(client backend.Client, logger *zap.Logger) *ConversationDetail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationDetail{
		client:   client,
		logger:   logger.Named("conversation_detail"),
		life:     newLifetime(),
		messages: []domain.Message{},
		thoughts: []domain.Thought{},
	}
}

// Load fetches the conversation and its messages. Both requests run
// independently; a failure of one does not cancel the other.
func (v *ConversationDetail) Load(ctx context.Context, conversationID int64) error {
	v.resetErr()
	var g errgroup.Group
	g.Go(func() error { return v.fetchConversation(ctx, conversationID) })
	g.Go(func() error { return v.fetchMessages(ctx, conversationID) })
	return g.Wait()
}

// RefreshConversation re-fetches the messages of the current conversation.
func (v *ConversationDetail) RefreshConversation(ctx context.Context) error {
	v.resetErr()
	return v.fetchMessages(ctx, v.Conversation().ID)
}

// SetNewMessage stores the text of the message being written.
func (v *ConversationDetail) SetNewMessage(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.newMessage = text
}

func (v *ConversationDetail) NewMessage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.newMessage
}

// CreateMessage sends the pending text to the current conversation and
// refreshes the messages once the backend accepted it. The pending text is
// cleared before the request completes.
func (v *ConversationDetail) CreateMessage(ctx context.Context) error {
	v.mu.Lock()
	if !v.life.alive() {
		v.mu.Unlock()
		return ErrViewClosed
	}
	text := v.newMessage
	cid := v.conversation.ID
	v.newMessage = ""
	v.mu.Unlock()
	v.resetErr()

	reqCtx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	msg, err := v.client.CreateMessage(reqCtx, text, cid)
	done()
	if err != nil {
		return v.handleError("create message", err)
	}
	v.logger.Info("message created", zap.Int64("message_id", msg.ID), zap.Int64("conversation_id", cid))
	return v.fetchMessages(ctx, cid)
}

// ToggleSelected deselects message if it is the selected one, otherwise
// selects it and fetches its thoughts.
func (v *ConversationDetail) ToggleSelected(ctx context.Context, message domain.Message) error {
	v.mu.Lock()
	if !v.life.alive() {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.selected != nil && v.selected.ID == message.ID {
		v.selected = nil
		v.mu.Unlock()
		return nil
	}
	m := message
	v.selected = &m
	v.mu.Unlock()
	v.resetErr()

	return v.fetchThoughts(ctx, message.ID)
}

// CreateThought attaches text to the selected message and refreshes its
// thoughts. Without a selection nothing is sent.
func (v *ConversationDetail) CreateThought(ctx context.Context, text string) error {
	v.mu.Lock()
	if !v.life.alive() {
		v.mu.Unlock()
		return ErrViewClosed
	}
	var mid int64
	if v.selected != nil {
		mid = v.selected.ID
	}
	v.mu.Unlock()

	if mid == 0 {
		v.logger.Warn("thought submitted without selected message")
		return ErrNoSelection
	}
	v.resetErr()

	reqCtx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	th, err := v.client.CreateThought(reqCtx, text, mid)
	done()
	if err != nil {
		return v.handleError("create thought", err)
	}
	v.logger.Info("thought created", zap.Int64("thought_id", th.ID), zap.Int64("message_id", mid))
	return v.fetchThoughts(ctx, mid)
}

// SearchMessages replaces the messages with those of the current conversation
// matching text. The selection and thoughts are cleared whatever the outcome.
func (v *ConversationDetail) SearchMessages(ctx context.Context, text string) error {
	reqCtx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	defer done()
	v.resetErr()

	v.mu.Lock()
	cid := v.conversation.ID
	v.selected = nil
	v.thoughts = []domain.Thought{}
	v.messageSeq++
	seq := v.messageSeq
	v.mu.Unlock()

	v.logger.Debug("searching messages", zap.String("text", text), zap.Int64("conversation_id", cid))
	msgs, err := v.client.SearchMessages(reqCtx, text, cid)
	if err != nil {
		return v.handleFetchError("search messages", err, seq, &v.messageSeq)
	}
	v.applyMessages(seq, cid, msgs)
	return nil
}

func (v *ConversationDetail) Conversation() domain.Conversation {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.conversation
}

func (v *ConversationDetail) Messages() []domain.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Message(nil), v.messages...)
}

// SelectedMessage returns the selected message, or nil.
func (v *ConversationDetail) SelectedMessage() *domain.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return nil
	}
	m := *v.selected
	return &m
}

func (v *ConversationDetail) Thoughts() []domain.Thought {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Thought(nil), v.thoughts...)
}

// Err is the last failure, cleared when the next operation starts.
func (v *ConversationDetail) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Close ends the view; pending requests are cancelled and their results dropped.
func (v *ConversationDetail) Close() {
	v.life.close()
}

func (v *ConversationDetail) fetchConversation(ctx context.Context, cid int64) error {
	reqCtx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	conv, err := v.client.GetConversation(reqCtx, cid)
	if err != nil {
		return v.handleError("fetch conversation", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.life.alive() {
		v.conversation = conv
	}
	return nil
}

// fetchMessages clears the selection and thoughts, then replaces the messages.
func (v *ConversationDetail) fetchMessages(ctx context.Context, cid int64) error {
	reqCtx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	v.mu.Lock()
	v.selected = nil
	v.thoughts = []domain.Thought{}
	v.messageSeq++
	seq := v.messageSeq
	v.mu.Unlock()

	msgs, err := v.client.ListMessages(reqCtx, cid)
	if err != nil {
		return v.handleFetchError("fetch messages", err, seq, &v.messageSeq)
	}
	v.applyMessages(seq, cid, msgs)
	return nil
}

// applyMessages stores msgs when seq is still the latest message fetch. Every
// message is stamped with the conversation the request was scoped to.
func (v *ConversationDetail) applyMessages(seq uint64, cid int64, msgs []domain.Message) {
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		m.Conversation = cid
		out = append(out, m)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.life.alive() || seq != v.messageSeq {
		return
	}
	v.messages = out
}

// fetchThoughts clears the thoughts, then replaces them with those of mid.
func (v *ConversationDetail) fetchThoughts(ctx context.Context, mid int64) error {
	reqCtx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	v.mu.Lock()
	v.thoughts = []domain.Thought{}
	v.thoughtSeq++
	seq := v.thoughtSeq
	v.mu.Unlock()

	thoughts, err := v.client.ListThoughts(reqCtx, mid)
	if err != nil {
		return v.handleFetchError("fetch thoughts", err, seq, &v.thoughtSeq)
	}
	if thoughts == nil {
		thoughts = []domain.Thought{}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.life.alive() || seq != v.thoughtSeq {
		return nil
	}
	v.thoughts = thoughts
	return nil
}

func (v *ConversationDetail) resetErr() {
	v.mu.Lock()
	if v.life.alive() {
		v.lastErr = nil
	}
	v.mu.Unlock()
}

func (v *ConversationDetail) handleError(op string, err error) error {
	v.logger.Error(op+" failed", zap.Error(err))
	v.mu.Lock()
	if v.life.alive() {
		v.lastErr = err
	}
	v.mu.Unlock()
	return err
}

// handleFetchError is handleError for sequenced fetches: a failure of a fetch
// that a newer one has replaced is returned but not recorded.
func (v *ConversationDetail) handleFetchError(op string, err error, seq uint64, latest *uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != *latest {
		v.logger.Debug(op+" superseded", zap.Error(err))
		return err
	}
	v.logger.Error(op+" failed", zap.Error(err))
	if v.life.alive() {
		v.lastErr = err
	}
	return err
}
