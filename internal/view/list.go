package view

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"notes-client/internal/backend"
	"notes-client/internal/domain"
)

// ConversationList is the state behind the home screen: every conversation,
// or the result of the last search.
type ConversationList struct {
	client backend.Client
	nav    Navigator
	logger *zap.Logger
	life   lifetime

	mu            sync.Mutex
	conversations []domain.Conversation
	lastErr       error
}

// NewConversationList builds the home view. nav is used after a conversation is created.
func NewConversationList(client backend.Client, nav Navigator, logger *zap.Logger) *ConversationList {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationList{
		client:        client,
		nav:           nav,
		logger:        logger.Named("conversation_list"),
		life:          newLifetime(),
		conversations: []domain.Conversation{},
	}
}

// Init runs the load routine of the view.
func (v *ConversationList) Init(ctx context.Context) error {
	return v.FetchConversations(ctx)
}

// FetchConversations replaces the list with every conversation. On failure the
// list is left as it was.
func (v *ConversationList) FetchConversations(ctx context.Context) error {
	ctx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	defer done()
	v.resetErr()

	convs, err := v.client.ListConversations(ctx)
	if err != nil {
		return v.handleError("fetch conversations", err)
	}
	v.replace(convs)
	return nil
}

// CreateConversation creates a conversation and, when the backend answers with
// an id, navigates to it.
func (v *ConversationList) CreateConversation(ctx context.Context, title string) error {
	reqCtx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	defer done()
	v.resetErr()

	conv, err := v.client.CreateConversation(reqCtx, title)
	if err != nil {
		return v.handleError("create conversation", err)
	}
	v.logger.Info("conversation created", zap.Int64("conversation_id", conv.ID))
	if conv.ID == 0 || !v.life.alive() {
		return nil
	}
	if err := v.nav.Navigate(ctx, ConversationPath(conv.ID)); err != nil {
		return v.handleError("navigate to conversation", err)
	}
	return nil
}

// SearchConversations replaces the list with conversations matching text.
// Blank text keeps the current list and sends nothing.
func (v *ConversationList) SearchConversations(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	ctx, done, err := v.life.bind(ctx)
	if err != nil {
		return err
	}
	defer done()
	v.resetErr()

	v.logger.Debug("searching conversations", zap.String("text", text))
	convs, err := v.client.SearchConversations(ctx, text)
	if err != nil {
		return v.handleError("search conversations", err)
	}
	v.replace(convs)
	return nil
}

// Conversations returns a copy of the displayed list.
func (v *ConversationList) Conversations() []domain.Conversation {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Conversation(nil), v.conversations...)
}

// Err is the last failure, cleared when the next operation starts.
func (v *ConversationList) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Close ends the view; pending requests are cancelled.
func (v *ConversationList) Close() {
	v.life.close()
}

func (v *ConversationList) replace(convs []domain.Conversation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.life.alive() {
		return
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	v.conversations = convs
}

func (v *ConversationList) resetErr() {
	v.mu.Lock()
	v.lastErr = nil
	v.mu.Unlock()
}

func (v *ConversationList) handleError(op string, err error) error {
	v.logger.Error(op+" failed", zap.Error(err))
	v.mu.Lock()
	if v.life.alive() {
		v.lastErr = err
	}
	v.mu.Unlock()
	return err
}
