package backend

import (
	"errors"
	"testing"
	"time"

	"notes-client/internal/domain"
)

func TestConversationFromWire_RenamesFields(t *testing.T) {
	got := ConversationFromWire(WireConversation{ID: 1, Title: "Hello World!", StartDate: "2021-03-21"})
	want := domain.Conversation{ID: 1, Title: "Hello World!", StartDate: "2021-03-21"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMessageAndThoughtFromWire(t *testing.T) {
	msg := MessageFromWire(WireMessage{ID: 2, Conversation: 1, Text: "hi", DatetimeSent: "2021-03-21T10:00:00"})
	if msg != (domain.Message{ID: 2, Conversation: 1, Text: "hi", DatetimeSent: "2021-03-21T10:00:00"}) {
		t.Fatalf("unexpected message %+v", msg)
	}
	th := ThoughtFromWire(WireThought{ID: 3, Message: 2, Text: "hmm", DatetimeSent: "2021-03-21T10:00:01"})
	if th != (domain.Thought{ID: 3, Message: 2, Text: "hmm", DatetimeSent: "2021-03-21T10:00:01"}) {
		t.Fatalf("unexpected thought %+v", th)
	}
}

func TestOutboundBodies_Formats(t *testing.T) {
	now := time.Date(2021, 3, 21, 23, 30, 15, 999, time.FixedZone("X", -2*3600))

	conv := newConversation("Ave mundus!", now)
	if conv.StartDate != "2021-03-22" || conv.Title != "Ave mundus!" {
		t.Fatalf("unexpected conversation body %+v", conv)
	}

	msg := newMessage("This is a message.", 7, now)
	if msg.Conversation != "7" || msg.DatetimeSent != "2021-03-22T01:30:15" {
		t.Fatalf("unexpected message body %+v", msg)
	}

	th := newThought("This is a thought.", 9, now)
	if th.Message != "9" || th.DatetimeSent != "2021-03-22T01:30:15" {
		t.Fatalf("unexpected thought body %+v", th)
	}
}

func TestDecodeList_EnvelopeAndBareArray(t *testing.T) {
	env := []byte(`{"count":1,"next":null,"previous":null,"results":[{"id":1,"title":"a","start_date":"2021-03-21"}]}`)
	items, err := decodeList[WireConversation](env)
	if err != nil || len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("envelope: items=%+v err=%v", items, err)
	}

	bare := []byte(` [{"id":1,"title":"a"},{"id":2,"title":"b"}]`)
	items, err = decodeList[WireConversation](bare)
	if err != nil || len(items) != 2 {
		t.Fatalf("bare: items=%+v err=%v", items, err)
	}
}

func TestDecode_SchemaViolations(t *testing.T) {
	_, err := decodeObject[WireConversation]([]byte(`{"title":"no id"}`))
	var se *SchemaError
	if !errors.As(err, &se) || se.Index != -1 {
		t.Fatalf("expected object SchemaError, got %v", err)
	}

	_, err = decodeArray[WireMessage]([]byte(`[{"id":1,"datetime_sent":"2021-03-21T10:00:00"},{"id":0,"datetime_sent":"2021-03-21T10:00:00"}]`))
	if !errors.As(err, &se) || se.Index != 1 {
		t.Fatalf("expected SchemaError at item 1, got %v", err)
	}

	_, err = decodeObject[WireConversation]([]byte(`{"id":1,"start_date":"21/03/2021"}`))
	if !errors.As(err, &se) {
		t.Fatalf("expected date SchemaError, got %v", err)
	}

	_, err = decodeList[WireThought]([]byte(`not json`))
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError for garbage, got %v", err)
	}
}

func TestDecodeList_RejectsObjectsWithoutResults(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"detail":"Not found."}`,
		`{"id":1,"title":"a","start_date":"2021-03-21"}`,
		`{"count":0,"results":null}`,
	}
	for _, body := range bodies {
		items, err := decodeList[WireConversation]([]byte(body))
		var se *SchemaError
		if !errors.As(err, &se) || se.Index != -1 || !errors.Is(err, errMissingResults) {
			t.Fatalf("body %s: expected missing results SchemaError, got items=%+v err=%v", body, items, err)
		}
	}

	items, err := decodeList[WireConversation]([]byte(`{"count":0,"results":[]}`))
	if err != nil || len(items) != 0 {
		t.Fatalf("empty page: items=%+v err=%v", items, err)
	}
}

func TestDecode_DatetimeSentRequired(t *testing.T) {
	cases := []string{
		`[{"id":1,"conversation":1,"text":"t","datetimeSent":"2021-03-21T10:00:00"}]`,
		`[{"id":1,"conversation":1,"text":"t"}]`,
		`[{"id":1,"conversation":1,"text":"t","datetime_sent":"2021"}]`,
		`[{"id":1,"conversation":1,"text":"t","datetime_sent":"2021-03-21T10:00:00Z"}]`,
	}
	for _, body := range cases {
		_, err := decodeArray[WireMessage]([]byte(body))
		var se *SchemaError
		if !errors.As(err, &se) || se.Index != 0 {
			t.Fatalf("body %s: expected SchemaError at item 0, got %v", body, err)
		}
	}

	_, err := decodeList[WireThought]([]byte(`{"results":[{"id":1,"message":1,"text":"t"}]}`))
	var se *SchemaError
	if !errors.As(err, &se) || se.Index != 0 {
		t.Fatalf("expected thought SchemaError at item 0, got %v", err)
	}
}
