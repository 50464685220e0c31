package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrViewClosed  = errors.New("view closed")
	ErrNoSelection = errors.New("no message selected")
)

// Navigator moves the application to another route.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// ConversationPath is the route of a conversation's detail view.
func ConversationPath(id int64) string {
	return fmt.Sprintf("conversation/%d", id)
}

// ParseConversationID reads a conversation id from a route parameter,
// falling back to 0 when it is absent or not a number.
func ParseConversationID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// lifetime scopes requests to a view. Closing it cancels in-flight requests
// and marks the view so late completions are dropped.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// bind derives a request context that ends with either ctx or the view.
func (l lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if l.ctx.Err() != nil {
		return nil, nil, ErrViewClosed
	}
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}, nil
}

func (l lifetime) alive() bool { return l.ctx.Err() == nil }

func (l lifetime) close() { l.cancel() }
