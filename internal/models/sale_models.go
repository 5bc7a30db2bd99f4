package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment method values.
const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit_card"
	PaymentDebitCard  = "debit_card"
	PaymentPix        = "pix"
)

// Sale is the payment event that finalizes a comanda. AmountReceived and
// Change are set for cash payments only. Immutable after creation.
type Sale struct {
	ID             int64            `json:"id" db:"id"`
	ComandaID      int64            `json:"comandaId" db:"comanda_id"`
	PaymentMethod  string           `json:"paymentMethod" db:"payment_method"`
	TotalAmount    decimal.Decimal  `json:"totalAmount" db:"total_amount"`
	AmountReceived *decimal.Decimal `json:"amountReceived" db:"amount_received"`
	Change         *decimal.Decimal `json:"change" db:"change"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}

// IsValidPaymentMethod reports whether s is a known payment method.
func IsValidPaymentMethod(s string) bool {
	switch s {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	default:
		return false
	}
}
