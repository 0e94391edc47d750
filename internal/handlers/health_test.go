package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandlerHandle(t *testing.T) {
	handler := HealthHandler{}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type got %s", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec = httptest.NewRecorder()

	handler.Handle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected method not allowed got %d", rec.Code)
	}
}

func TestRouterServesHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/healthz", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[map[string]string](t, rec)["status"]; got != "ok" {
		t.Fatalf("expected ok status got %q", got)
	}
}

func TestRouterUnknownRouteAndMethod(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/nowhere", nil)
	expectStatus(t, rec, http.StatusNotFound)
	expectDetail(t, rec, "not found")

	for _, tc := range []struct{ method, path string }{
		{http.MethodPatch, "/api/v1/users"},
		{http.MethodPost, "/api/v1/users/1/friends"},
		{http.MethodPut, "/api/v1/users/1/outgoing_requests/1"},
		{http.MethodPost, "/healthz"},
	} {
		rec = api.do(tc.method, tc.path, nil)
		expectStatus(t, rec, http.StatusMethodNotAllowed)
		expectDetail(t, rec, "method not allowed")
	}
}
