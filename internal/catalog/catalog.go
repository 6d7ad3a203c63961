package catalog

import "fmt"

// Catalog is the read-only product list. It is built once at startup and never mutated.
type Catalog struct {
	products []Product
	byID     map[int]int
}

func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrDuplicateID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.products) }

// All returns the products in catalog order. The returned slice is a copy.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Lookup(id int) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Featured returns the first n products, the home page selection.
func (c *Catalog) Featured(n int) []Product {
	if n > len(c.products) {
		n = len(c.products)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Product, n)
	copy(out, c.products[:n])
	return out
}

type CategoryCount struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Count int      `json:"count"`
}

func (c *Catalog) Categories() []CategoryCount {
	counts := make(map[Category]int, len(categoryNames))
	for _, p := range c.products {
		counts[p.Category]++
	}

	out := make([]CategoryCount, 0, len(categoryNames))
	for _, n := range categoryNames {
		cnt := counts[n.ID]
		if n.ID == CategoryAll {
			cnt = len(c.products)
		}
		out = append(out, CategoryCount{ID: n.ID, Name: n.Name, Count: cnt})
	}
	return out
}

func (c *Catalog) Query(spec FilterSpec, key SortKey) []Product {
	return Query(c.products, spec, key)
}
