package notify

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"LuxeStore/pkg/kit"
)

type Server struct {
	// Feed resolves the caller's feed; nil means no session.
	Feed func(r *http.Request) *Feed
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.drain)
	return r
}

func (s *Server) drain(w http.ResponseWriter, r *http.Request) {
	f := s.Feed(r)
	if f == nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"notifications": f.Drain()})
}
