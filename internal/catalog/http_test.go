package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"LuxeStore/internal/catalog"
)

func newCatalogTS(t *testing.T) (*httptest.Server, *int) {
	t.Helper()

	c, err := catalog.New(catalog.SampleProducts())
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	var observed int
	s := &catalog.Server{
		Catalog:  c,
		Log:      zap.NewNop(),
		Observer: func(n int) { observed = n },
	}
	return httptest.NewServer(s.Routes()), &observed
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestCatalogHTTP_ListWithFilters(t *testing.T) {
	ts, observed := newCatalogTS(t)
	t.Cleanup(ts.Close)

	var body struct {
		Count    int `json:"count"`
		Products []struct {
			ID int `json:"id"`
		} `json:"products"`
	}
	status := getJSON(t, ts.URL+"/products?category=kitchen&sort=price-desc", &body)
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if body.Count != 3 || *observed != 3 {
		t.Fatalf("count=%d observed=%d", body.Count, *observed)
	}
	want := []int{11, 4, 7}
	for i, p := range body.Products {
		if p.ID != want[i] {
			t.Fatalf("products[%d]=%d want=%d", i, p.ID, want[i])
		}
	}
}

func TestCatalogHTTP_EmptyResultIsNotAnError(t *testing.T) {
	ts, _ := newCatalogTS(t)
	t.Cleanup(ts.Close)

	var body struct {
		Count    int               `json:"count"`
		Products []json.RawMessage `json:"products"`
	}
	status := getJSON(t, ts.URL+"/products?min=500&max=100", &body)
	if status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if body.Count != 0 || body.Products == nil {
		t.Fatalf("count=%d products=%v", body.Count, body.Products)
	}
}

func TestCatalogHTTP_BadPrice(t *testing.T) {
	ts, _ := newCatalogTS(t)
	t.Cleanup(ts.Close)

	if status := getJSON(t, ts.URL+"/products?min=cheap", nil); status != http.StatusBadRequest {
		t.Fatalf("status=%d", status)
	}
}

func TestCatalogHTTP_GetProduct(t *testing.T) {
	ts, _ := newCatalogTS(t)
	t.Cleanup(ts.Close)

	var p struct {
		ID            int     `json:"id"`
		Name          string  `json:"name"`
		Price         string  `json:"price"`
		OriginalPrice *string `json:"original_price"`
	}
	if status := getJSON(t, ts.URL+"/products/3", &p); status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if p.Name != "Brass Desk Lamp" || p.Price != "295" || p.OriginalPrice == nil || *p.OriginalPrice != "380" {
		t.Fatalf("unexpected product: %+v", p)
	}

	if status := getJSON(t, ts.URL+"/products/99", nil); status != http.StatusNotFound {
		t.Fatalf("unknown id status=%d", status)
	}
	if status := getJSON(t, ts.URL+"/products/abc", nil); status != http.StatusBadRequest {
		t.Fatalf("bad id status=%d", status)
	}
}

func TestCatalogHTTP_FeaturedAndCategories(t *testing.T) {
	ts, _ := newCatalogTS(t)
	t.Cleanup(ts.Close)

	var featured []struct {
		ID int `json:"id"`
	}
	if status := getJSON(t, ts.URL+"/products/featured", &featured); status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if len(featured) != 4 || featured[0].ID != 1 {
		t.Fatalf("featured=%v", featured)
	}

	var cats []catalog.CategoryCount
	if status := getJSON(t, ts.URL+"/categories", &cats); status != http.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if len(cats) != 6 || cats[0].Count != 12 {
		t.Fatalf("categories=%v", cats)
	}
}
