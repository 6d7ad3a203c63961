package shop

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LuxeStore/internal/catalog"
	"LuxeStore/pkg/kit"
)

type Server struct {
	// View resolves the caller's view; nil means no session.
	View func(r *http.Request) *View
	Log  *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.withView(s.show))
	r.Put("/category", s.withView(s.category))
	r.Put("/price", s.withView(s.price))
	r.Put("/sort", s.withView(s.sort))
	r.Put("/search", s.withView(s.search))

	return r
}

type viewHandler func(w http.ResponseWriter, r *http.Request, v *View)

func (s *Server) withView(h viewHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := s.View(r)
		if v == nil {
			kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
			return
		}
		h(w, r, v)
	}
}

type showResp struct {
	Pending bool `json:"pending"`
	Result
}

// show opens the shop page: the first visit runs the query.
func (s *Server) show(w http.ResponseWriter, r *http.Request, v *View) {
	res, ok := v.Result()
	if !ok {
		res = v.Refresh()
	}
	kit.WriteJSON(w, http.StatusOK, showResp{Pending: v.Pending(), Result: res})
}

func (s *Server) category(w http.ResponseWriter, r *http.Request, v *View) {
	var req struct {
		Category string `json:"category"`
	}
	if !kit.DecodeJSON(w, r, &req) {
		return
	}
	c := catalog.Category(req.Category)
	if c != catalog.CategoryAll && !c.Known() {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown category", map[string]any{"category": req.Category})
		return
	}
	kit.WriteJSON(w, http.StatusOK, v.SetCategory(c))
}

func (s *Server) price(w http.ResponseWriter, r *http.Request, v *View) {
	var req struct {
		Min string `json:"min"`
		Max string `json:"max"`
	}
	if !kit.DecodeJSON(w, r, &req) {
		return
	}
	kit.WriteJSON(w, http.StatusOK, v.SetPriceRange(req.Min, req.Max))
}

func (s *Server) sort(w http.ResponseWriter, r *http.Request, v *View) {
	var req struct {
		Sort string `json:"sort"`
	}
	if !kit.DecodeJSON(w, r, &req) {
		return
	}
	key, _ := catalog.ParseSortKey(req.Sort)
	kit.WriteJSON(w, http.StatusOK, v.SetSort(key))
}

// search accepts the keystroke and answers before the debounced query settles.
func (s *Server) search(w http.ResponseWriter, r *http.Request, v *View) {
	var req struct {
		Query string `json:"q"`
	}
	if !kit.DecodeJSON(w, r, &req) {
		return
	}
	v.TypeSearch(req.Query)
	kit.WriteJSON(w, http.StatusAccepted, map[string]bool{"pending": v.Pending()})
}
