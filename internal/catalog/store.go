package catalog

import "context"

// Source supplies the product list the Catalog is built from.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}

// Build loads every product from src and freezes them into a Catalog.
func Build(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(products)
}
