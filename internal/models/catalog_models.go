package models

import "github.com/shopspring/decimal"

// Unit of measure values for products.
const (
	MeasureUnit   = "unit"   // sold per piece
	MeasureWeight = "weight" // sold per kg, fractional quantities
	MeasureSlice  = "slice"
)

// Category groups products on the product grid.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" binding:"required"`
}

// Product is a catalog item. UnitPrice carries two decimal places;
// CurrentStock carries up to three and is nil for items that do not track stock.
type Product struct {
	ID            int64            `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	UnitPrice     decimal.Decimal  `json:"unitPrice" db:"unit_price"`
	UnitOfMeasure string           `json:"unitOfMeasure" db:"unit_of_measure"`
	CategoryID    int64            `json:"categoryId" db:"category_id"`
	TracksStock   bool             `json:"tracksStock" db:"tracks_stock"`
	CurrentStock  *decimal.Decimal `json:"currentStock" db:"current_stock"`
	Category      *Category        `json:"category,omitempty"` // joined for list views; nil if the reference dangles
}

// IsValidMeasure reports whether s is a known unit of measure.
func IsValidMeasure(s string) bool {
	switch s {
	case MeasureUnit, MeasureWeight, MeasureSlice:
		return true
	default:
		return false
	}
}
