package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Comanda status values. A comanda is created open and closed exactly once,
// either directly or by recording a sale; there is no way back to open.
const (
	ComandaOpen   = "open"
	ComandaClosed = "closed"
)

// Comanda is an open tab, optionally tied to a table. Total stays nil while
// open and is stamped with the sum of line subtotals at close time.
type Comanda struct {
	ID           int64            `json:"id" db:"id"`
	TableID      *int64           `json:"tableId" db:"table_id"`
	CustomerName *string          `json:"customerName" db:"customer_name"`
	Status       string           `json:"status" db:"status"`
	Total        *decimal.Decimal `json:"total" db:"total"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
	ClosedAt     *time.Time       `json:"closedAt" db:"closed_at"`
}

// ComandaLine is one line item. UnitPriceAtSale is snapshotted from the
// product when the line is added and never changes afterwards; Subtotal is
// always quantity times that snapshot, rounded to two places.
type ComandaLine struct {
	ID              int64           `json:"id" db:"id"`
	ComandaID       int64           `json:"comandaId" db:"comanda_id"`
	ProductID       int64           `json:"productId" db:"product_id"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unitPriceAtTimeOfSale" db:"unit_price_at_sale"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	Product         *Product        `json:"product,omitempty"` // joined for the complete view; nil if the product was deleted
}
