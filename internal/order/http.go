package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"LuxeStore/internal/cart"
	"LuxeStore/internal/checkout"
	"LuxeStore/internal/notify"
	"LuxeStore/internal/session"
	"LuxeStore/pkg/kit"
)

const (
	msgFixErrors = "Please fix the errors above"
	msgPlaced    = "Order placed successfully! Thank you 🎉"

	// RedirectAfter is how long the client shows the confirmation before going home.
	RedirectAfter = 2500 * time.Millisecond
)

type Server struct {
	Store Store
	Log   *zap.Logger
	// Placed is called after every stored order.
	Placed func(o Order)
}

type createReq struct {
	PaymentMethod string            `json:"payment_method"`
	Fields        map[string]string `json:"fields"`
}

type Redirect struct {
	Page    string `json:"page"`
	AfterMS int64  `json:"after_ms"`
}

type createResp struct {
	Order    Order    `json:"order"`
	Redirect Redirect `json:"redirect"`
}

const (
	maxCreateBody = 1 << 20
)

func (s *Server) CreateHandler() http.HandlerFunc { return s.create }
func (s *Server) GetHandler() http.HandlerFunc    { return s.get }

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	req, err := decodeCreateRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if !checkout.KnownPayment(req.PaymentMethod) {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown payment method", map[string]any{"payment_method": req.PaymentMethod})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = checkout.PaymentCard
	}

	if errs := sess.Checkout.Submit(req.Fields, req.PaymentMethod); !errs.Valid() {
		sess.Notifier.Notify(notify.Error, msgFixErrors)
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "validation failed", errs)
		return
	}

	var o Order
	err = sess.Cart.Checkout(r.Context(), func(snap cart.Snapshot) error {
		o = newOrder(sess.ID, req, snap)
		return s.Store.Create(r.Context(), o)
	})
	if err != nil {
		if s.Log != nil {
			s.Log.Error("store create order failed", zap.Error(err), zap.String("session", sess.ID))
		}
		if isTimeoutErr(err) {
			kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
			return
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	sess.Notifier.Notify(notify.Success, msgPlaced)
	if s.Placed != nil {
		s.Placed(o)
	}

	kit.WriteJSON(w, http.StatusCreated, createResp{
		Order:    o,
		Redirect: Redirect{Page: "home", AfterMS: RedirectAfter.Milliseconds()},
	})
}

// newOrder freezes the cart into a receipt. Lines whose product is unknown are
// left out; they contribute nothing to the totals either.
func newOrder(sessionID string, req createReq, snap cart.Snapshot) Order {
	items := make([]Item, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		if l.Missing {
			continue
		}
		items = append(items, Item{
			ProductID: l.ProductID,
			Name:      l.Product.Name,
			Qty:       l.Qty,
			UnitPrice: l.Product.Price,
			LineTotal: l.LineTotal,
		})
	}

	return Order{
		ID:            "o_" + uuid.NewString(),
		SessionID:     sessionID,
		Email:         req.Fields["email"],
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		Subtotal:      snap.Subtotal,
		Shipping:      snap.Shipping,
		Total:         snap.Total,
		Status:        StatusPlaced,
		CreatedAt:     time.Now().UTC(),
	}
}

const (
	eventBlur = "blur"
	eventEdit = "edit"
)

type fieldReq struct {
	Event string `json:"event"`
	Value string `json:"value"`
}

type fieldResp struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// field gives live feedback on one checkout input: the value as it should be
// displayed and, after blur or while the field is in error, its message.
func (s *Server) field(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	name := chi.URLParam(r, "name")
	form := sess.Checkout.Form()
	if _, known := form.Field(name); !known {
		kit.WriteError(w, r, http.StatusNotFound, "unknown field", map[string]any{"field": name})
		return
	}

	var req fieldReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	value := form.Format(name, req.Value)
	var msg string
	switch req.Event {
	case eventBlur:
		msg = sess.Checkout.Blur(name, value)
	case eventEdit:
		msg = sess.Checkout.Edit(name, value)
	default:
		kit.WriteError(w, r, http.StatusBadRequest, "event must be blur or edit", map[string]any{"event": req.Event})
		return
	}

	kit.WriteJSON(w, http.StatusOK, fieldResp{Field: name, Value: value, Error: msg})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	id := chi.URLParam(r, "id")
	o, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("store get order failed", zap.Error(err), zap.String("order_id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if o.SessionID != sess.ID {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, o)
}

func decodeCreateRequest(w http.ResponseWriter, r *http.Request) (createReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req createReq
	if err := dec.Decode(&req); err != nil {
		return createReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return createReq{}, errors.New("extra data after json object")
	}
	if req.Fields == nil {
		req.Fields = map[string]string{}
	}

	return req, nil
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
