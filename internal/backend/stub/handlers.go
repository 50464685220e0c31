package stub

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notes-client/internal/backend"
)

// Handler serves the notes REST endpoints from a Store.
type Handler struct {
	logger *zap.Logger
	store  *Store
	now    func() time.Time
}

type page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func newPage[T any](items []T) page[T] {
	return page[T]{Count: len(items), Results: items}
}

// flexID accepts an id sent either as a JSON number or as a decimal string.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*f = flexID(v)
	return nil
}

// ListConversations handles GET /conversations.
func (h *Handler) ListConversations(c *gin.Context) {
	c.JSON(http.StatusOK, newPage(h.store.Conversations("")))
}

// SearchConversations handles GET /conversations/?title=.
func (h *Handler) SearchConversations(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Conversations(c.Query("title")))
}

// GetConversation handles GET /conversations/{id}.
func (h *Handler) GetConversation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	conv, err := h.store.Conversation(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// CreateConversation handles POST /conversations/.
func (h *Handler) CreateConversation(c *gin.Context) {
	var req struct {
		Title     string `json:"title" binding:"required"`
		StartDate string `json:"start_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create conversation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.StartDate == "" {
		req.StartDate = h.now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}

	conv := h.store.AddConversation(backend.WireConversation{Title: req.Title, StartDate: req.StartDate})
	c.JSON(http.StatusCreated, conv)
}

// ListMessages handles GET /messages?cid=.
func (h *Handler) ListMessages(c *gin.Context) {
	cid, ok := h.queryID(c, "cid")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newPage(h.store.Messages(cid, "")))
}

// SearchMessages handles GET /messages/?text=&cid=.
func (h *Handler) SearchMessages(c *gin.Context) {
	cid, ok := h.queryID(c, "cid")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.store.Messages(cid, c.Query("text")))
}

// CreateMessage handles POST /messages/.
func (h *Handler) CreateMessage(c *gin.Context) {
	var req struct {
		Text         string `json:"text" binding:"required"`
		Conversation flexID `json:"conversation" binding:"required"`
		DatetimeSent string `json:"datetime_sent" binding:"omitempty,datetime=2006-01-02T15:04:05"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.store.AddMessage(backend.WireMessage{
		Conversation: int64(req.Conversation),
		Text:         req.Text,
		DatetimeSent: h.datetime(req.DatetimeSent),
	})
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown conversation"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListThoughts handles GET /thoughts?mid=.
func (h *Handler) ListThoughts(c *gin.Context) {
	mid, ok := h.queryID(c, "mid")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newPage(h.store.Thoughts(mid)))
}

// CreateThought handles POST /thoughts/.
func (h *Handler) CreateThought(c *gin.Context) {
	var req struct {
		Message      flexID `json:"message" binding:"required"`
		Text         string `json:"text" binding:"required"`
		DatetimeSent string `json:"datetime_sent" binding:"omitempty,datetime=2006-01-02T15:04:05"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create thought request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	th, err := h.store.AddThought(backend.WireThought{
		Message:      int64(req.Message),
		Text:         req.Text,
		DatetimeSent: h.datetime(req.DatetimeSent),
	})
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown message"})
		return
	}
	c.JSON(http.StatusCreated, th)
}

// queryID reads an optional integer query parameter; 0 when absent.
func (h *Handler) queryID(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return id, true
}

func (h *Handler) datetime(v string) string {
	if v != "" {
		return v
	}
	return h.now().UTC().Format("2006-01-02T15:04:05")
}

var _ json.Unmarshaler = (*flexID)(nil)
