package models

// Table status values.
const (
	TableFree     = "free"
	TableOccupied = "occupied"
	TableReserved = "reserved"
)

// Table is a physical table. Status is its only mutable field and is driven
// by the comanda lifecycle (occupied on open, free on close/sale).
type Table struct {
	ID     int64  `json:"id" db:"id"`
	Number int    `json:"number" db:"number"`
	Status string `json:"status" db:"status"`
}

// IsValidTableStatus reports whether s is a known table status.
func IsValidTableStatus(s string) bool {
	switch s {
	case TableFree, TableOccupied, TableReserved:
		return true
	default:
		return false
	}
}
