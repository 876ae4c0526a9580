package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clearlist/api/internal/config"
	"github.com/clearlist/api/internal/domain/todo"
	apihttp "github.com/clearlist/api/internal/http"
	"github.com/clearlist/api/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

// Full request-level walk through the API over in-memory stores: the same
// router, middleware chain and handlers as production, minus postgres.

func newTestServer() *gin.Engine {
	cfg := config.Config{
		Env:                "test",
		JWTSecret:          "integration-test-secret",
		JWTTTLDays:         7,
		AuthRateLimit:      1000,
		AuthRateWindowSecs: 60,
		ListCacheTTLSecs:   30,
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return apihttp.NewRouterWithStores(log, cfg, memory.NewUsersRepo(), memory.NewTodosRepo(), func() error { return nil })
}

type client struct {
	t *testing.T
	r *gin.Engine
}

func (c *client) do(method, path, token, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	return w
}

func (c *client) register(username, password string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, "/register", "", `{"username": "`+username+`", "password": "`+password+`"}`)
}

func (c *client) login(username, password string) string {
	c.t.Helper()

	w := c.do(http.MethodPost, "/login", "", `{"username": "`+username+`", "password": "`+password+`"}`)
	if w.Code != http.StatusOK {
		c.t.Fatalf("login %s: got %d, body=%s", username, w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		c.t.Fatalf("login %s: unmarshal: %v", username, err)
	}
	if resp.Token == "" {
		c.t.Fatalf("login %s: empty token", username)
	}

	return resp.Token
}

func (c *client) list(token string) []todo.Todo {
	c.t.Helper()

	w := c.do(http.MethodGet, "/todos", token, "")
	if w.Code != http.StatusOK {
		c.t.Fatalf("list: got %d, body=%s", w.Code, w.Body.String())
	}

	var items []todo.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		c.t.Fatalf("list: unmarshal: %v", err)
	}

	return items
}

func TestAPIScenario(t *testing.T) {
	c := &client{t: t, r: newTestServer()}

	// registration

	if w := c.register("alice", "secret1"); w.Code != http.StatusCreated {
		t.Fatalf("register alice: got %d, body=%s", w.Code, w.Body.String())
	}

	if w := c.register("alice", "another-pass"); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: got %d, body=%s", w.Code, w.Body.String())
	}

	// login

	if w := c.do(http.MethodPost, "/login", "", `{"username": "alice", "password": "wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("login wrong password: got %d, body=%s", w.Code, w.Body.String())
	}

	aliceToken := c.login("alice", "secret1")

	// auth gate

	if w := c.do(http.MethodGet, "/todos", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("list without token: got %d", w.Code)
	}

	if w := c.do(http.MethodGet, "/todos", "garbage-token", ""); w.Code != http.StatusForbidden {
		t.Fatalf("list with garbage token: got %d", w.Code)
	}

	// empty list to start

	if items := c.list(aliceToken); len(items) != 0 {
		t.Fatalf("expected empty list, got %+v", items)
	}

	// create

	w := c.do(http.MethodPost, "/todos", aliceToken, `{"title": "Buy milk", "completed": false, "category": "shopping"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create: got %d, body=%s", w.Code, w.Body.String())
	}

	var created todo.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("create: unmarshal: %v", err)
	}
	if created.ID == "" || created.Title != "Buy milk" || created.Completed {
		t.Fatalf("unexpected created todo: %+v", created)
	}

	items := c.list(aliceToken)
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("list after create: %+v", items)
	}

	// update

	w = c.do(http.MethodPut, "/todos", aliceToken, `{"id": "`+created.ID+`", "title": "Buy oat milk", "completed": true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: got %d, body=%s", w.Code, w.Body.String())
	}

	var updated todo.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("update: unmarshal: %v", err)
	}
	if updated.Title != "Buy oat milk" || !updated.Completed || updated.Category != "shopping" {
		t.Fatalf("unexpected updated todo: %+v", updated)
	}

	// a second user cannot see or touch alice's todo

	if w := c.register("bob", "secret2"); w.Code != http.StatusCreated {
		t.Fatalf("register bob: got %d, body=%s", w.Code, w.Body.String())
	}

	bobToken := c.login("bob", "secret2")

	if items := c.list(bobToken); len(items) != 0 {
		t.Fatalf("bob's list should be empty, got %+v", items)
	}

	if w := c.do(http.MethodPut, "/todos", bobToken, `{"id": "`+created.ID+`", "title": "hijacked", "completed": true}`); w.Code != http.StatusNotFound {
		t.Fatalf("bob updating alice's todo: got %d, body=%s", w.Code, w.Body.String())
	}

	if w := c.do(http.MethodDelete, "/todos/"+created.ID, bobToken, ""); w.Code != http.StatusNotFound {
		t.Fatalf("bob deleting alice's todo: got %d, body=%s", w.Code, w.Body.String())
	}

	// alice's copy survived bob's attempts

	items = c.list(aliceToken)
	if len(items) != 1 || items[0].Title != "Buy oat milk" {
		t.Fatalf("alice's todo was affected: %+v", items)
	}

	// delete

	w = c.do(http.MethodDelete, "/todos/"+created.ID, aliceToken, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: got %d, body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "Todo deleted" {
		t.Fatalf("delete body: got %q", w.Body.String())
	}

	if w := c.do(http.MethodDelete, "/todos/"+created.ID, aliceToken, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d, body=%s", w.Code, w.Body.String())
	}

	if items := c.list(aliceToken); len(items) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", items)
	}
}

func TestAPIRequiresJSONContentType(t *testing.T) {
	c := &client{t: t, r: newTestServer()}

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"username": "alice", "password": "secret1"}`))
	req.Header.Set("Content-Type", "text/plain")

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got %d, want %d", w.Code, http.StatusUnsupportedMediaType)
	}
}

func TestAPIHealthEndpoints(t *testing.T) {
	c := &client{t: t, r: newTestServer()}

	if w := c.do(http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz: got %d", w.Code)
	}

	if w := c.do(http.MethodGet, "/readyz", "", ""); w.Code != http.StatusOK {
		t.Fatalf("readyz: got %d", w.Code)
	}
}
