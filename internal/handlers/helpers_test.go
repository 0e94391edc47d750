package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/savlagood/friendgraph/internal/graph"
	"github.com/savlagood/friendgraph/internal/models"
	"github.com/savlagood/friendgraph/internal/repositories"
)

type testAPI struct {
	t      *testing.T
	store  *repositories.InMemoryStore
	router http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := repositories.NewInMemoryStore()
	router := NewRouter(Dependencies{Users: store, Graph: graph.NewEngine(store)})
	return &testAPI{t: t, store: store, router: router}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	return serve(a.t, a.router, method, path, body)
}

func (a *testAPI) user(username string) models.User {
	a.t.Helper()
	u, err := a.store.CreateUser(context.Background(), username)
	if err != nil {
		a.t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (a *testAPI) edge(from, to models.User) models.FriendRequest {
	a.t.Helper()
	r, err := a.store.CreateRequest(context.Background(), from.ID, to.ID)
	if err != nil {
		a.t.Fatalf("create request %d->%d: %v", from.ID, to.ID, err)
	}
	return r
}

func serve(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d got %d (body %s)", want, rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectDetail(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if got := decode[errorResponse](t, rec).Detail; got != want {
		t.Fatalf("expected detail %q got %q", want, got)
	}
}
