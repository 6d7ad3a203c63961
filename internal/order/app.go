package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves POST /checkout, POST /checkout/fields/{name} and GET /orders/{id}. It expects the session middleware upstream.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Post("/checkout", s.CreateHandler())
	r.Post("/checkout/fields/{name}", s.field)
	r.Get("/orders/{id}", s.GetHandler())
}
