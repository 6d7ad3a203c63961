package order

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

// PostgresStore expects:
//
//	CREATE TABLE orders (id TEXT PRIMARY KEY, session_id TEXT NOT NULL, email TEXT NOT NULL,
//	  payment_method TEXT NOT NULL, subtotal NUMERIC(12,2) NOT NULL, shipping NUMERIC(12,2) NOT NULL,
//	  total NUMERIC(12,2) NOT NULL, status TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);
//	CREATE TABLE order_items (order_id TEXT REFERENCES orders(id), position INT NOT NULL,
//	  product_id INT NOT NULL, name TEXT NOT NULL, qty INT NOT NULL,
//	  unit_price NUMERIC(12,2) NOT NULL, line_total NUMERIC(12,2) NOT NULL,
//	  PRIMARY KEY (order_id, position));
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Create(ctx context.Context, o Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, session_id, email, payment_method, subtotal, shipping, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.SessionID, o.Email, o.PaymentMethod, o.Subtotal, o.Shipping, o.Total, o.Status, o.CreatedAt)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, position, product_id, name, qty, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range o.Items {
		if _, err := stmt.ExecContext(ctx, o.ID, i, it.ProductID, it.Name, it.Qty, it.UnitPrice, it.LineTotal); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, email, payment_method, subtotal, shipping, total, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.SessionID, &o.Email, &o.PaymentMethod, &o.Subtotal, &o.Shipping, &o.Total, &o.Status, &o.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, qty, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, id)
	if err != nil {
		return Order{}, false, err
	}
	defer rows.Close()

	items := make([]Item, 0, 8)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Qty, &it.UnitPrice, &it.LineTotal); err != nil {
			return Order{}, false, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return Order{}, false, err
	}
	o.Items = items

	return o, true, nil
}
