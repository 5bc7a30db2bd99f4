package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types.
const (
	MovementSale       = "sale"
	MovementAdjustment = "quantity_adjustment"
	MovementReturn     = "line_removed"
)

// StockMovement records one change to a tracked product's stock.
// QuantityChanged is negative for sales and positive for returns.
type StockMovement struct {
	ID              int64           `json:"id" db:"id"`
	ProductID       int64           `json:"productId" db:"product_id"`
	MovementType    string          `json:"movementType" db:"movement_type"`
	QuantityChanged decimal.Decimal `json:"quantityChanged" db:"quantity_changed"`
	Reason          *string         `json:"reason,omitempty" db:"reason"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}
