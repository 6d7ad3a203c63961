package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"LuxeStore/pkg/kit"
)

const featuredCount = 4

// QueryObserver is told the size of every query result.
type QueryObserver func(n int)

type Server struct {
	Catalog  *Catalog
	Log      *zap.Logger
	Observer QueryObserver
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/featured", s.featured)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.categories)
}

type listResp struct {
	Count    int       `json:"count"`
	Products []Product `json:"products"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	spec, key, err := parseQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad query", map[string]any{"cause": err.Error()})
		return
	}

	products := s.Catalog.Query(spec, key)
	if s.Observer != nil {
		s.Observer(len(products))
	}
	kit.WriteJSON(w, http.StatusOK, listResp{Count: len(products), Products: products})
}

func (s *Server) featured(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Featured(featuredCount))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return
	}

	p, ok := s.Catalog.Lookup(id)
	if !ok {
		if s.Log != nil {
			s.Log.Debug("product not found", zap.Int("id", id))
		}
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Catalog.Categories())
}

func parseQuery(r *http.Request) (FilterSpec, SortKey, error) {
	q := r.URL.Query()
	spec := DefaultFilter()

	if c := q.Get("category"); c != "" {
		spec.Category = Category(c)
	}
	if v := q.Get("min"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return FilterSpec{}, "", err
		}
		spec.MinPrice = d
	}
	if v := q.Get("max"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return FilterSpec{}, "", err
		}
		spec.MaxPrice = d
	}
	spec.Search = q.Get("q")

	key, _ := ParseSortKey(q.Get("sort"))
	return spec, key, nil
}
