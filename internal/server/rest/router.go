package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const apiPrefix = "/api/v1"

// Handler builds the routing tree with the request middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	route(r, "/health", s.health, http.MethodGet)

	api := r.PathPrefix(apiPrefix).Subrouter()

	route(api, "/auth/login", s.login, http.MethodPost)
	route(api, "/users", s.createUser, http.MethodPost)

	route(api, "/documents", s.authenticate(s.createDocument), http.MethodPost)
	route(api, "/documents", s.authenticate(s.listDocuments), http.MethodGet)
	route(api, "/documents/upload-url", s.authenticate(s.documentUploadURL), http.MethodPost)
	route(api, "/documents/{document_id}", s.authenticate(s.getDocument), http.MethodGet)

	route(api, "/transport/balance", s.authenticate(s.transportBalance), http.MethodGet)
	route(api, "/transport/recharge", s.authenticate(s.transportRecharge), http.MethodPost)

	route(api, "/chatbot", s.chatbot, http.MethodPost)

	return chain(r, s.requestLog, s.recoverPanic)
}

// route registers h for path and for path with a trailing slash.
func route(r *mux.Router, path string, h http.HandlerFunc, methods ...string) {
	path = strings.TrimSuffix(path, "/")
	r.HandleFunc(path, h).Methods(methods...)
	r.HandleFunc(path+"/", h).Methods(methods...)
}

// chain applies middleware in declaration order, the first being outermost.
func chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
