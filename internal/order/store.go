package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const StatusPlaced = "PLACED"

type Item struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order is the receipt of a completed checkout.
type Order struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Email         string          `json:"email"`
	PaymentMethod string          `json:"payment_method"`
	Items         []Item          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
	Ping(ctx context.Context) error
}
