package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notes-client/internal/domain"
)

// Client is the contract views use to talk to the notes backend.
type Client interface {
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	GetConversation(ctx context.Context, id int64) (domain.Conversation, error)
	CreateConversation(ctx context.Context, title string) (domain.Conversation, error)
	SearchConversations(ctx context.Context, title string) ([]domain.Conversation, error)

	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)
	CreateMessage(ctx context.Context, text string, conversationID int64) (domain.Message, error)
	SearchMessages(ctx context.Context, text string, conversationID int64) ([]domain.Message, error)

	ListThoughts(ctx context.Context, messageID int64) ([]domain.Thought, error)
	CreateThought(ctx context.Context, text string, messageID int64) (domain.Thought, error)
}

// HTTPClient implements Client against the REST backend.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// NewHTTPClient builds a client rooted at baseURL. A nil httpClient gets a
// client with the given timeout; a nil logger is replaced by a no-op logger.
func NewHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger *zap.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		logger:  logger,
		now:     time.Now,
	}
}

// ListConversations fetches every conversation (GET /conversations).
func (c *HTTPClient) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	body, err := c.do(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[WireConversation](body)
	if err != nil {
		return nil, err
	}
	return mapAll(items, ConversationFromWire), nil
}

// GetConversation fetches one conversation by id (GET /conversations/{id}).
func (c *HTTPClient) GetConversation(ctx context.Context, id int64) (domain.Conversation, error) {
	body, err := c.do(ctx, http.MethodGet, "/conversations/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return domain.Conversation{}, err
	}
	w, err := decodeObject[WireConversation](body)
	if err != nil {
		return domain.Conversation{}, err
	}
	return ConversationFromWire(w), nil
}

// CreateConversation posts a conversation dated today. The trailing slash is
// required by the backend for POST.
func (c *HTTPClient) CreateConversation(ctx context.Context, title string) (domain.Conversation, error) {
	body, err := c.do(ctx, http.MethodPost, "/conversations/", newConversation(title, c.now()))
	if err != nil {
		return domain.Conversation{}, err
	}
	w, err := decodeObject[WireConversation](body)
	if err != nil {
		return domain.Conversation{}, err
	}
	return ConversationFromWire(w), nil
}

// SearchConversations returns conversations whose title contains title.
func (c *HTTPClient) SearchConversations(ctx context.Context, title string) ([]domain.Conversation, error) {
	body, err := c.do(ctx, http.MethodGet, "/conversations/?title="+url.QueryEscape(title), nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeArray[WireConversation](body)
	if err != nil {
		return nil, err
	}
	return mapAll(items, ConversationFromWire), nil
}

// ListMessages fetches the messages of a conversation (GET /messages?cid=).
func (c *HTTPClient) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	body, err := c.do(ctx, http.MethodGet, "/messages?cid="+strconv.FormatInt(conversationID, 10), nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[WireMessage](body)
	if err != nil {
		return nil, err
	}
	return mapAll(items, MessageFromWire), nil
}

// CreateMessage posts a message stamped with the current time.
func (c *HTTPClient) CreateMessage(ctx context.Context, text string, conversationID int64) (domain.Message, error) {
	body, err := c.do(ctx, http.MethodPost, "/messages/", newMessage(text, conversationID, c.now()))
	if err != nil {
		return domain.Message{}, err
	}
	w, err := decodeObject[WireMessage](body)
	if err != nil {
		return domain.Message{}, err
	}
	return MessageFromWire(w), nil
}

// SearchMessages returns the messages of a conversation matching text.
func (c *HTTPClient) SearchMessages(ctx context.Context, text string, conversationID int64) ([]domain.Message, error) {
	path := "/messages/?text=" + url.QueryEscape(text) + "&cid=" + strconv.FormatInt(conversationID, 10)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeArray[WireMessage](body)
	if err != nil {
		return nil, err
	}
	return mapAll(items, MessageFromWire), nil
}

// ListThoughts fetches the thoughts attached to a message (GET /thoughts?mid=).
func (c *HTTPClient) ListThoughts(ctx context.Context, messageID int64) ([]domain.Thought, error) {
	body, err := c.do(ctx, http.MethodGet, "/thoughts?mid="+strconv.FormatInt(messageID, 10), nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[WireThought](body)
	if err != nil {
		return nil, err
	}
	return mapAll(items, ThoughtFromWire), nil
}

// CreateThought posts a thought on a message, stamped with the current time.
func (c *HTTPClient) CreateThought(ctx context.Context, text string, messageID int64) (domain.Thought, error) {
	body, err := c.do(ctx, http.MethodPost, "/thoughts/", newThought(text, messageID, c.now()))
	if err != nil {
		return domain.Thought{}, err
	}
	w, err := decodeObject[WireThought](body)
	if err != nil {
		return domain.Thought{}, err
	}
	return ThoughtFromWire(w), nil
}

// do sends one request and returns the raw body of a 2xx response.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Message: msg}
	}
	return respBody, nil
}
