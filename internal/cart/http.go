package cart

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LuxeStore/internal/catalog"
	"LuxeStore/pkg/kit"
)

type Server struct {
	// Cart resolves the caller's cart; nil means no session.
	Cart func(r *http.Request) *Cart
	Log  *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.withCart(s.snapshot))
		r.Post("/items", s.withCart(s.add))
		r.Patch("/items/{id}", s.withCart(s.update))
		r.Delete("/items/{id}", s.withCart(s.remove))
	})
	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", s.withCart(s.wishlist))
		r.Post("/{id}/toggle", s.withCart(s.toggle))
	})
}

type cartHandler func(w http.ResponseWriter, r *http.Request, c *Cart)

func (s *Server) withCart(h cartHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := s.Cart(r)
		if c == nil {
			kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
			return
		}
		h(w, r, c)
	}
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, c *Cart) {
	kit.WriteJSON(w, http.StatusOK, c.Snapshot())
}

type addReq struct {
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request, c *Cart) {
	req := addReq{Qty: 1}
	if !kit.DecodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id must be positive", nil)
		return
	}
	if req.Qty <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "qty must be > 0", nil)
		return
	}

	c.AddToCart(r.Context(), req.ProductID, req.Qty)
	kit.WriteJSON(w, http.StatusOK, c.Snapshot())
}

type updateReq struct {
	Delta int `json:"delta"`
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, c *Cart) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req updateReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	c.UpdateQuantity(r.Context(), id, req.Delta)
	kit.WriteJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request, c *Cart) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	c.RemoveFromCart(r.Context(), id)
	kit.WriteJSON(w, http.StatusOK, c.Snapshot())
}

type wishlistResp struct {
	IDs      []int             `json:"ids"`
	Products []catalog.Product `json:"products"`
}

func (s *Server) wishlist(w http.ResponseWriter, r *http.Request, c *Cart) {
	kit.WriteJSON(w, http.StatusOK, wishlistResp{IDs: c.Wishlist(), Products: c.WishlistProducts()})
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request, c *Cart) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	in := c.ToggleWishlist(r.Context(), id)
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"in_wishlist": in})
}

func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product id", nil)
		return 0, false
	}
	return id, true
}
