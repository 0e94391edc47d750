package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users UserStore
	Graph RelationshipEngine
}

// NewRouter builds a router with every friendgraph endpoint registered.
func NewRouter(deps Dependencies) *mux.Router {
	router := mux.NewRouter()
	RegisterRoutes(router, deps)
	return router
}

// RegisterRoutes wires HTTP handlers into the provided router.
func RegisterRoutes(router *mux.Router, deps Dependencies) {
	health := HealthHandler{}
	users := UserHandler{Users: deps.Users, Graph: deps.Graph}
	friends := FriendHandler{Users: deps.Users, Graph: deps.Graph}
	requests := RequestHandler{Users: deps.Users, Graph: deps.Graph}

	router.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/users", users.List).Methods(http.MethodGet)
	api.HandleFunc("/users", users.Create).Methods(http.MethodPost)
	api.HandleFunc("/users/{userID}", users.Get).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}", users.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/users/{userID}/friends", friends.List).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/friends/{friendID}", friends.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/users/{userID}/friend_status/{otherID}", friends.Status).Methods(http.MethodGet)

	api.HandleFunc("/users/{userID}/outgoing_requests", requests.ListOutgoing).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/outgoing_requests", requests.Send).Methods(http.MethodPost)
	api.HandleFunc("/users/{userID}/outgoing_requests/{requestID}", requests.Cancel).Methods(http.MethodDelete)

	api.HandleFunc("/users/{userID}/incoming_requests", requests.ListIncoming).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/incoming_requests/{requestID}", requests.Accept).Methods(http.MethodPut)
	api.HandleFunc("/users/{userID}/incoming_requests/{requestID}", requests.Reject).Methods(http.MethodDelete)

	// Subrouters do not inherit these handlers from their parent.
	for _, r := range []*mux.Router{router, api} {
		r.NotFoundHandler = http.HandlerFunc(notFound)
		r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondDetail(r.Context(), w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondDetail(r.Context(), w, http.StatusMethodNotAllowed, "method not allowed")
}
