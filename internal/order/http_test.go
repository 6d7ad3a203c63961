package order_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"LuxeStore/internal/catalog"
	"LuxeStore/internal/checkout"
	"LuxeStore/internal/kv"
	"LuxeStore/internal/notify"
	"LuxeStore/internal/order"
	"LuxeStore/internal/session"
)

type fixture struct {
	ts     *httptest.Server
	reg    *session.Registry
	store  order.Store
	placed int
}

// withSession pins every request to the session named in X-Test-Session.
func withSession(reg *session.Registry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := reg.Get(r.Context(), r.Header.Get("X-Test-Session"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

func newFixture(t *testing.T, store order.Store) *fixture {
	t.Helper()
	cat, err := catalog.New(catalog.SampleProducts())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	f := &fixture{
		reg:   session.NewRegistry(session.Deps{Catalog: cat, Store: kv.NewMemStore()}),
		store: store,
	}
	s := &order.Server{
		Store:  store,
		Log:    zap.NewNop(),
		Placed: func(order.Order) { f.placed++ },
	}
	f.ts = httptest.NewServer(withSession(f.reg, s.Routes()))
	t.Cleanup(f.ts.Close)
	return f
}

func (f *fixture) newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := f.reg.New(context.Background())
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func doJSON(t *testing.T, method, url, sid string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Session", sid)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func validFields() map[string]string {
	return map[string]string{
		"email":       "ada@example.com",
		"first_name":  "Ada",
		"last_name":   "Lovelace",
		"address":     "12 Analytical Row",
		"city":        "London",
		"zip":         "N1 9GU",
		"card_number": "4242 4242 4242 4242",
		"expiry":      "12/29",
		"cvv":         "123",
	}
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t, order.NewMemStore())
	s := f.newSession(t)
	ctx := context.Background()
	s.Cart.AddToCart(ctx, 1, 1) // 189
	s.Cart.AddToCart(ctx, 999, 1)
	s.Cart.ToggleWishlist(ctx, 2)
	s.Feed.Drain()

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/checkout", s.ID, map[string]any{
		"payment_method": "card",
		"fields":         validFields(),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout status=%d body=%s", resp.StatusCode, raw)
	}

	var out struct {
		Order struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Subtotal string `json:"subtotal"`
			Shipping string `json:"shipping"`
			Total    string `json:"total"`
			Items    []struct {
				ProductID int `json:"product_id"`
			} `json:"items"`
		} `json:"order"`
		Redirect struct {
			Page    string `json:"page"`
			AfterMS int64  `json:"after_ms"`
		} `json:"redirect"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Order.Status != "PLACED" || out.Order.Subtotal != "189" || out.Order.Shipping != "0" || out.Order.Total != "189" {
		t.Fatalf("unexpected order: %+v", out.Order)
	}
	if len(out.Order.Items) != 1 || out.Order.Items[0].ProductID != 1 {
		t.Fatalf("expected only the known product on the receipt, got %+v", out.Order.Items)
	}
	if out.Redirect.Page != "home" || out.Redirect.AfterMS != 2500 {
		t.Fatalf("unexpected redirect: %+v", out.Redirect)
	}

	if s.Cart.ItemCount() != 0 || len(s.Cart.Wishlist()) != 0 {
		t.Fatalf("expected cart and wishlist cleared")
	}
	if f.placed != 1 {
		t.Fatalf("expected placed hook once, got %d", f.placed)
	}

	got := s.Feed.Drain()
	if len(got) == 0 || got[len(got)-1].Severity != notify.Success {
		t.Fatalf("expected success notification, got %+v", got)
	}

	resp, _ = doJSON(t, http.MethodGet, f.ts.URL+"/orders/"+out.Order.ID, s.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get own order status=%d", resp.StatusCode)
	}

	other := f.newSession(t)
	resp, _ = doJSON(t, http.MethodGet, f.ts.URL+"/orders/"+out.Order.ID, other.ID, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for other session, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, f.ts.URL+"/orders/o_missing", s.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCheckout_ValidationErrors(t *testing.T) {
	f := newFixture(t, order.NewMemStore())
	s := f.newSession(t)
	s.Cart.AddToCart(context.Background(), 3, 1)
	s.Feed.Drain()

	fields := validFields()
	fields["cvv"] = "1"
	fields["email"] = "nope"

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/checkout", s.ID, map[string]any{
		"payment_method": "card",
		"fields":         fields,
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var out struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Details["cvv"] != checkout.MsgCVV || out.Details["email"] != checkout.MsgEmail {
		t.Fatalf("unexpected field errors: %v", out.Details)
	}

	if s.Cart.ItemCount() != 1 {
		t.Fatalf("cart must survive a failed checkout")
	}
	got := s.Feed.Drain()
	if len(got) != 1 || got[0].Severity != notify.Error || got[0].Message != "Please fix the errors above" {
		t.Fatalf("unexpected notifications: %+v", got)
	}
	if f.placed != 0 {
		t.Fatalf("no order should be placed")
	}
}

func TestCheckout_NonCardSkipsCardFields(t *testing.T) {
	f := newFixture(t, order.NewMemStore())
	s := f.newSession(t)

	fields := validFields()
	delete(fields, "card_number")
	delete(fields, "expiry")
	delete(fields, "cvv")

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/checkout", s.ID, map[string]any{
		"payment_method": "paypal",
		"fields":         fields,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for paypal with empty cart, got %d: %s", resp.StatusCode, raw)
	}

	resp, _ = doJSON(t, http.MethodPost, f.ts.URL+"/checkout", s.ID, map[string]any{
		"payment_method": "bitcoin",
		"fields":         fields,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown method, got %d", resp.StatusCode)
	}
}

type failingStore struct{ *order.MemStore }

func (failingStore) Create(context.Context, order.Order) error { return errors.New("db down") }

func TestCheckout_StoreFailureKeepsCart(t *testing.T) {
	f := newFixture(t, failingStore{order.NewMemStore()})
	s := f.newSession(t)
	s.Cart.AddToCart(context.Background(), 5, 2)

	resp, _ := doJSON(t, http.MethodPost, f.ts.URL+"/checkout", s.ID, map[string]any{
		"payment_method": "card",
		"fields":         validFields(),
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if s.Cart.ItemCount() != 2 {
		t.Fatalf("cart must survive a failed store")
	}
}

// busyStore lets another request of the same session change the cart while
// the order is being written.
type busyStore struct {
	*order.MemStore
	during func()
}

func (b busyStore) Create(ctx context.Context, o order.Order) error {
	b.during()
	return b.MemStore.Create(ctx, o)
}

func TestCheckout_KeepsCartChangesMadeWhilePlacing(t *testing.T) {
	ctx := context.Background()
	store := busyStore{MemStore: order.NewMemStore()}
	var s *session.Session
	store.during = func() { s.Cart.AddToCart(ctx, 2, 3) }

	f := newFixture(t, store)
	s = f.newSession(t)
	s.Cart.AddToCart(ctx, 1, 1)

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/checkout", s.ID, map[string]any{
		"payment_method": "card",
		"fields":         validFields(),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout status=%d body=%s", resp.StatusCode, raw)
	}

	var out struct {
		Order struct {
			Items []struct {
				ProductID int `json:"product_id"`
				Qty       int `json:"qty"`
			} `json:"items"`
		} `json:"order"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Order.Items) != 1 || out.Order.Items[0].ProductID != 1 {
		t.Fatalf("receipt must hold what was in the cart at submit, got %+v", out.Order.Items)
	}

	lines := s.Cart.Lines()
	if len(lines) != 1 || lines[0].ProductID != 2 || lines[0].Qty != 3 {
		t.Fatalf("line added while placing must survive, got %+v", lines)
	}
}

func TestCheckoutField_BlurEditAndFormatting(t *testing.T) {
	f := newFixture(t, order.NewMemStore())
	s := f.newSession(t)

	field := func(name, event, value string) (int, map[string]string) {
		t.Helper()
		resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/checkout/fields/"+name, s.ID, map[string]string{
			"event": event,
			"value": value,
		})
		out := map[string]string{}
		if resp.StatusCode == http.StatusOK {
			if err := json.Unmarshal(raw, &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
		}
		return resp.StatusCode, out
	}

	code, out := field("card_number", "edit", "42424242")
	if code != http.StatusOK || out["value"] != "4242 4242" || out["error"] != "" {
		t.Fatalf("edit before blur: code=%d out=%v", code, out)
	}

	_, out = field("card_number", "blur", "42424242")
	if out["error"] != checkout.MsgCard {
		t.Fatalf("blur should report the card error, got %v", out)
	}

	_, out = field("card_number", "edit", "4242424242424242")
	if out["value"] != "4242 4242 4242 4242" || out["error"] != "" {
		t.Fatalf("edit in error should re-check and clear, got %v", out)
	}

	_, out = field("expiry", "blur", "1329")
	if out["value"] != "13/29" || out["error"] != checkout.MsgExpiry {
		t.Fatalf("unexpected expiry feedback: %v", out)
	}

	if code, _ := field("nickname", "blur", "x"); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown field, got %d", code)
	}
	if code, _ := field("email", "focus", "x"); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event, got %d", code)
	}

	if errs := s.Checkout.Errors(); errs["expiry"] != checkout.MsgExpiry {
		t.Fatalf("tracker should hold the expiry error, got %v", errs)
	}

	doJSON(t, http.MethodPost, f.ts.URL+"/checkout", s.ID, map[string]any{
		"payment_method": "card",
		"fields":         validFields(),
	})
	if errs := s.Checkout.Errors(); !errs.Valid() {
		t.Fatalf("a valid submit should clear tracked errors, got %v", errs)
	}
}
