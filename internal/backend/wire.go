package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"notes-client/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02T15:04:05"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Response schemas, named the way the backend names them.

type WireConversation struct {
	ID        int64  `json:"id" validate:"gt=0"`
	Title     string `json:"title"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

type WireMessage struct {
	ID           int64  `json:"id" validate:"gt=0"`
	Conversation int64  `json:"conversation" validate:"gte=0"`
	Text         string `json:"text"`
	DatetimeSent string `json:"datetime_sent" validate:"required,datetime=2006-01-02T15:04:05"`
}

type WireThought struct {
	ID           int64  `json:"id" validate:"gt=0"`
	Message      int64  `json:"message" validate:"gte=0"`
	Text         string `json:"text"`
	DatetimeSent string `json:"datetime_sent" validate:"required,datetime=2006-01-02T15:04:05"`
}

// listEnvelope is the paginated shape of list endpoints. Only results is used;
// next/previous are never followed. An absent results field is a schema error,
// not an empty page.
type listEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  *[]T    `json:"results"`
}

var errMissingResults = errors.New("list response has no results")

// Request bodies.

type newConversationBody struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
}

type newMessageBody struct {
	Text         string `json:"text"`
	Conversation string `json:"conversation"`
	DatetimeSent string `json:"datetime_sent"`
}

type newThoughtBody struct {
	Message      string `json:"message"`
	Text         string `json:"text"`
	DatetimeSent string `json:"datetime_sent"`
}

// ConversationFromWire maps a backend conversation to the client shape.
func ConversationFromWire(w WireConversation) domain.Conversation {
	return domain.Conversation{
		ID:        w.ID,
		Title:     w.Title,
		StartDate: w.StartDate,
	}
}

// MessageFromWire maps a backend message to the client shape.
func MessageFromWire(w WireMessage) domain.Message {
	return domain.Message{
		ID:           w.ID,
		Conversation: w.Conversation,
		Text:         w.Text,
		DatetimeSent: w.DatetimeSent,
	}
}

// ThoughtFromWire maps a backend thought to the client shape.
func ThoughtFromWire(w WireThought) domain.Thought {
	return domain.Thought{
		ID:           w.ID,
		Message:      w.Message,
		Text:         w.Text,
		DatetimeSent: w.DatetimeSent,
	}
}

func newConversation(title string, now time.Time) newConversationBody {
	return newConversationBody{
		Title:     title,
		StartDate: now.UTC().Format(dateLayout),
	}
}

func newMessage(text string, conversationID int64, now time.Time) newMessageBody {
	return newMessageBody{
		Text:         text,
		Conversation: strconv.FormatInt(conversationID, 10),
		DatetimeSent: now.UTC().Format(datetimeLayout),
	}
}

func newThought(text string, messageID int64, now time.Time) newThoughtBody {
	return newThoughtBody{
		Message:      strconv.FormatInt(messageID, 10),
		Text:         text,
		DatetimeSent: now.UTC().Format(datetimeLayout),
	}
}

// decodeObject decodes and validates a single object response.
func decodeObject[T any](body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &SchemaError{Index: -1, Err: fmt.Errorf("unmarshal object: %w", err)}
	}
	if err := validate.Struct(out); err != nil {
		return out, &SchemaError{Index: -1, Err: err}
	}
	return out, nil
}

// decodeArray decodes and validates a bare array response (search endpoints).
func decodeArray[T any](body []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &SchemaError{Index: -1, Err: fmt.Errorf("unmarshal array: %w", err)}
	}
	return validateAll(out)
}

// decodeList decodes a list response. The backend wraps lists in an envelope,
// but a bare array is tolerated as well.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeArray[T](trimmed)
	}
	var env listEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &SchemaError{Index: -1, Err: fmt.Errorf("unmarshal envelope: %w", err)}
	}
	if env.Results == nil {
		return nil, &SchemaError{Index: -1, Err: errMissingResults}
	}
	return validateAll(*env.Results)
}

func validateAll[T any](items []T) ([]T, error) {
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			return nil, &SchemaError{Index: i, Err: err}
		}
	}
	return items, nil
}

func mapAll[W any, D any](items []W, fn func(W) D) []D {
	out := make([]D, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
