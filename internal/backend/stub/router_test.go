package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notes-client/internal/backend"
)

func setupRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := NewStore()
	return NewRouter(zap.NewNop(), store), store
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListConversations(t *testing.T) {
	r, _ := setupRouter(t)

	rec := serve(r, http.MethodPost, "/conversations/", `{"title":"Ave mundus!","start_date":"2021-03-21"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created["id"] != float64(1) || created["start_date"] != "2021-03-21" {
		t.Fatalf("unexpected echo %+v", created)
	}

	rec = serve(r, http.MethodGet, "/conversations", "")
	var env struct {
		Count   int              `json:"count"`
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("list is not an envelope: %v", err)
	}
	if env.Count != 1 || len(env.Results) != 1 {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestSearchConversations_BareArray(t *testing.T) {
	r, _ := setupRouter(t)
	serve(r, http.MethodPost, "/conversations/", `{"title":"Ave mundus!"}`)
	serve(r, http.MethodPost, "/conversations/", `{"title":"Hello"}`)

	rec := serve(r, http.MethodGet, "/conversations/?title=ave", "")
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("search is not a bare array: %v", err)
	}
	if len(out) != 1 || out[0]["title"] != "Ave mundus!" {
		t.Fatalf("unexpected results %+v", out)
	}
}

func TestGetConversation_NotFound(t *testing.T) {
	r, _ := setupRouter(t)
	if rec := serve(r, http.MethodGet, "/conversations/42", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/conversations/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMessagesAndThoughts(t *testing.T) {
	r, _ := setupRouter(t)
	serve(r, http.MethodPost, "/conversations/", `{"title":"c"}`)

	rec := serve(r, http.MethodPost, "/messages/", `{"text":"This is a message.","conversation":"1","datetime_sent":"2021-03-21T10:00:00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = serve(r, http.MethodPost, "/messages/", `{"text":"other","conversation":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("numeric conversation id rejected: %d", rec.Code)
	}

	rec = serve(r, http.MethodGet, "/messages/?text=is&cid=1", "")
	var found []map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &found)
	if len(found) != 1 || found[0]["conversation"] != float64(1) {
		t.Fatalf("unexpected search result %+v", found)
	}

	rec = serve(r, http.MethodPost, "/thoughts/", `{"message":"2","text":"This is a thought."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = serve(r, http.MethodGet, "/thoughts?mid=2", "")
	var env struct {
		Results []map[string]any `json:"results"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if len(env.Results) != 1 || env.Results[0]["datetime_sent"] == "" {
		t.Fatalf("unexpected thoughts %+v", env.Results)
	}
}

func TestCreate_Validation(t *testing.T) {
	r, store := setupRouter(t)
	store.AddConversation(backend.WireConversation{Title: "seed", StartDate: "2021-03-21"})

	cases := []struct {
		target string
		body   string
	}{
		{"/conversations/", `{}`},
		{"/conversations/", `{"title":"x","start_date":"yesterday"}`},
		{"/messages/", `{"text":"orphan","conversation":"9"}`},
		{"/messages/", `{"text":"bad id","conversation":"x"}`},
		{"/thoughts/", `{"text":"orphan","message":"9"}`},
		{"/messages/", `{"text":"bad time","conversation":"1","datetime_sent":"21/03/2021"}`},
	}
	for i, c := range cases {
		if rec := serve(r, http.MethodPost, c.target, c.body); rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d expected 400, got %d", i, rec.Code)
		}
	}
	if rec := serve(r, http.MethodGet, "/messages?cid=x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad cid, got %d", rec.Code)
	}
}
