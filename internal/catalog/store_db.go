package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore reads the catalog from the products table. List columns are stored as JSON arrays.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Load(ctx context.Context) ([]Product, error) {
	var out []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, category, price, original_price, rating, reviews,
			       COALESCE(badge, ''), description, details, images, tags
			FROM products
			ORDER BY position ASC, id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			var (
				p                     Product
				details, images, tags []byte
			)
			if err := rows.Scan(
				&p.ID, &p.Name, &p.Category, &p.Price, &p.OriginalPrice, &p.Rating, &p.ReviewCount,
				&p.Badge, &p.Description, &details, &images, &tags,
			); err != nil {
				return err
			}
			if err := decodeList(details, &p.Details); err != nil {
				return fmt.Errorf("product %d details: %w", p.ID, err)
			}
			if err := decodeList(images, &p.Images); err != nil {
				return fmt.Errorf("product %d images: %w", p.ID, err)
			}
			if err := decodeList(tags, &p.Tags); err != nil {
				return fmt.Errorf("product %d tags: %w", p.ID, err)
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = nil
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
