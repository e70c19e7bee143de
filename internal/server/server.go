// package server hosts the short-lived local HTTP server that receives the
// OAuth2 authorization callback during `spotimport auth`.
package server

import "net/http"

// Handler is an http.Handler that knows which routes it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers and serves them over a [http.ServeMux].
type Router struct {
	mux *http.ServeMux
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// Handler registers every route a [Handler] serves.
func (r *Router) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Handle(route, handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
