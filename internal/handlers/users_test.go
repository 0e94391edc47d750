package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/savlagood/friendgraph/internal/models"
)

func TestUserHandlerCreate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/users", map[string]string{"username": "  andrew "})
	expectStatus(t, rec, http.StatusCreated)

	profile := decode[profileResponse](t, rec)
	if profile.ID != 1 || profile.Username != "andrew" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.Friends == nil || profile.OutgoingRequests == nil || profile.IncomingRequests == nil {
		t.Fatalf("expected empty lists, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"friends":[]`) {
		t.Fatalf("expected friends to encode as an empty array, got %s", rec.Body.String())
	}
}

func TestUserHandlerCreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		body   any
		detail string
	}{
		{name: "malformed json", body: "{", detail: "invalid request body"},
		{name: "missing username", body: map[string]string{}, detail: "username is required"},
		{name: "blank username", body: map[string]string{"username": "   "}, detail: "username is required"},
		{name: "too long", body: map[string]string{"username": strings.Repeat("x", models.MaxUsernameLength+1)}, detail: "username is too long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t)

			rec := api.do(http.MethodPost, "/api/v1/users", tc.body)
			expectStatus(t, rec, http.StatusBadRequest)
			expectDetail(t, rec, tc.detail)

			users, err := api.store.ListUsers(context.Background())
			if err != nil {
				t.Fatalf("list users: %v", err)
			}
			if len(users) != 0 {
				t.Fatalf("expected no users to be created, got %d", len(users))
			}
		})
	}
}

func TestUserHandlerCreateAcceptsMaximumLength(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/users", map[string]string{"username": strings.Repeat("й", models.MaxUsernameLength)})
	expectStatus(t, rec, http.StatusCreated)
}

func TestUserHandlerList(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/v1/users", nil)
	expectStatus(t, rec, http.StatusOK)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array got %s", body)
	}

	api.user("andrew")
	api.user("pavel")

	rec = api.do(http.MethodGet, "/api/v1/users", nil)
	expectStatus(t, rec, http.StatusOK)
	users := decode[[]userResponse](t, rec)
	if len(users) != 2 || users[0].Username != "andrew" || users[1].Username != "pavel" {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestUserHandlerGetProfile(t *testing.T) {
	api := newTestAPI(t)
	andrew, pavel, elon := api.user("andrew"), api.user("pavel"), api.user("elon")
	api.edge(andrew, pavel)
	api.edge(pavel, andrew)
	pe := api.edge(pavel, elon)

	rec := api.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", pavel.ID), nil)
	expectStatus(t, rec, http.StatusOK)

	profile := decode[profileResponse](t, rec)
	if profile.Username != "pavel" {
		t.Fatalf("unexpected username %q", profile.Username)
	}
	if len(profile.Friends) != 1 || profile.Friends[0].ID != andrew.ID {
		t.Fatalf("expected andrew as only friend, got %+v", profile.Friends)
	}
	if len(profile.OutgoingRequests) != 1 || profile.OutgoingRequests[0].ID != pe.ID {
		t.Fatalf("expected only the request to elon, got %+v", profile.OutgoingRequests)
	}
	if len(profile.IncomingRequests) != 0 {
		t.Fatalf("expected no pending incoming requests, got %+v", profile.IncomingRequests)
	}
}

func TestUserHandlerGetNotFound(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/v1/users/42", "/api/v1/users/abc", "/api/v1/users/0", "/api/v1/users/-3"} {
		rec := api.do(http.MethodGet, path, nil)
		expectStatus(t, rec, http.StatusNotFound)
		expectDetail(t, rec, "not found")
	}
}

func TestUserHandlerDelete(t *testing.T) {
	api := newTestAPI(t)
	andrew, pavel := api.user("andrew"), api.user("pavel")
	api.edge(andrew, pavel)
	api.edge(pavel, andrew)

	rec := api.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", andrew.ID), nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", andrew.ID), nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = api.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/incoming_requests", pavel.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	if requests := decode[[]friendRequestResponse](t, rec); len(requests) != 0 {
		t.Fatalf("expected requests from deleted user to be gone, got %+v", requests)
	}

	rec = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", andrew.ID), nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestUserHandlerMissingDependencies(t *testing.T) {
	router := NewRouter(Dependencies{})

	rec := serve(t, router, http.MethodGet, "/api/v1/users", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
	expectDetail(t, rec, "user services unavailable")

	rec = serve(t, router, http.MethodGet, "/api/v1/users/1/friends", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
	expectDetail(t, rec, "friend services unavailable")

	rec = serve(t, router, http.MethodGet, "/api/v1/users/1/outgoing_requests", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
	expectDetail(t, rec, "friend request services unavailable")
}

type failingUserStore struct {
	err error
}

func (s failingUserStore) CreateUser(context.Context, string) (models.User, error) {
	return models.User{}, s.err
}

func (s failingUserStore) GetUser(context.Context, int64) (models.User, error) {
	return models.User{}, s.err
}

func (s failingUserStore) ListUsers(context.Context) ([]models.User, error) {
	return nil, s.err
}

func TestUserHandlerStoreFailure(t *testing.T) {
	router := NewRouter(Dependencies{
		Users: failingUserStore{err: errors.New("connection refused")},
		Graph: stubEngine{},
	})

	rec := serve(t, router, http.MethodGet, "/api/v1/users", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
	expectDetail(t, rec, "internal server error")

	rec = serve(t, router, http.MethodPost, "/api/v1/users", map[string]string{"username": "andrew"})
	expectStatus(t, rec, http.StatusInternalServerError)

	deadline := NewRouter(Dependencies{
		Users: failingUserStore{err: fmt.Errorf("select user: %w", context.DeadlineExceeded)},
		Graph: stubEngine{},
	})
	rec = serve(t, deadline, http.MethodGet, "/api/v1/users/1", nil)
	expectStatus(t, rec, http.StatusServiceUnavailable)
	expectDetail(t, rec, "request timed out")
}
