package services

import (
	"errors"
	"testing"

	"pos_comanda_backend/internal/models"
)

// Full cash flow: open a table, add a unit item and a weight item, settle
// with change, table goes back to free.
func TestRecordSaleCashFlow(t *testing.T) {
	env := newTestEnv(t)

	comanda := openComandaOnTable(t, env, 3)
	table, err := env.tables.GetTableByID(3)
	if err != nil {
		t.Fatalf("GetTableByID: %v", err)
	}
	if table.Status != models.TableOccupied {
		t.Fatalf("table status = %q, want occupied", table.Status)
	}

	addLine(t, env, comanda.ID, 1, "2")   // 2 x 6.00 = 12.00
	addLine(t, env, comanda.ID, 3, "0.5") // 0.5 x 130.00 = 65.00

	sale, err := env.sales.RecordSale(RecordSaleRequest{
		ComandaID:      comanda.ID,
		PaymentMethod:  models.PaymentCash,
		AmountReceived: strPtr("80.00"),
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if sale.TotalAmount != "77.00" {
		t.Errorf("TotalAmount = %q, want 77.00", sale.TotalAmount)
	}
	if sale.AmountReceived == nil || *sale.AmountReceived != "80.00" {
		t.Errorf("AmountReceived = %v, want 80.00", sale.AmountReceived)
	}
	if sale.Change == nil || *sale.Change != "3.00" {
		t.Errorf("Change = %v, want 3.00", sale.Change)
	}

	complete, err := env.comandas.GetComandaByID(comanda.ID)
	if err != nil {
		t.Fatalf("GetComandaByID: %v", err)
	}
	if complete.Status != models.ComandaClosed {
		t.Errorf("comanda status = %q, want closed", complete.Status)
	}
	if complete.Total == nil || *complete.Total != "77.00" {
		t.Errorf("comanda total = %v, want 77.00", complete.Total)
	}

	table, err = env.tables.GetTableByID(3)
	if err != nil {
		t.Fatalf("GetTableByID: %v", err)
	}
	if table.Status != models.TableFree {
		t.Errorf("table status after sale = %q, want free", table.Status)
	}
}

// An underpaid cash sale fails and leaves everything untouched.
func TestRecordSaleInsufficientCash(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 1, "2") // total 12.00

	_, err := env.sales.RecordSale(RecordSaleRequest{
		ComandaID:      comanda.ID,
		PaymentMethod:  models.PaymentCash,
		AmountReceived: strPtr("10.00"),
	})
	if !errors.Is(err, ErrInsufficientAmount) {
		t.Fatalf("RecordSale error = %v, want ErrInsufficientAmount", err)
	}

	complete, err := env.comandas.GetComandaByID(comanda.ID)
	if err != nil {
		t.Fatalf("GetComandaByID: %v", err)
	}
	if complete.Status != models.ComandaOpen {
		t.Errorf("comanda status = %q, want still open", complete.Status)
	}
	table, err := env.tables.GetTableByID(1)
	if err != nil {
		t.Fatalf("GetTableByID: %v", err)
	}
	if table.Status != models.TableOccupied {
		t.Errorf("table status = %q, want still occupied", table.Status)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 1, "1")

	tests := []struct {
		name    string
		req     RecordSaleRequest
		wantErr error
	}{
		{
			name:    "unknown payment method",
			req:     RecordSaleRequest{ComandaID: comanda.ID, PaymentMethod: "check"},
			wantErr: ErrValidation,
		},
		{
			name:    "cash without amount",
			req:     RecordSaleRequest{ComandaID: comanda.ID, PaymentMethod: models.PaymentCash},
			wantErr: ErrValidation,
		},
		{
			name:    "cash with malformed amount",
			req:     RecordSaleRequest{ComandaID: comanda.ID, PaymentMethod: models.PaymentCash, AmountReceived: strPtr("ten")},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown comanda",
			req:     RecordSaleRequest{ComandaID: 999, PaymentMethod: models.PaymentPix},
			wantErr: ErrComandaNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sales.RecordSale(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RecordSale() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Non-cash payments ignore amountReceived and leave change null.
func TestRecordSaleNonCash(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 5, "2") // 8.00

	sale, err := env.sales.RecordSale(RecordSaleRequest{
		ComandaID:      comanda.ID,
		PaymentMethod:  models.PaymentPix,
		AmountReceived: strPtr("50.00"),
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if sale.TotalAmount != "8.00" {
		t.Errorf("TotalAmount = %q, want 8.00", sale.TotalAmount)
	}
	if sale.AmountReceived != nil || sale.Change != nil {
		t.Errorf("AmountReceived/Change = %v/%v, want nil for pix", sale.AmountReceived, sale.Change)
	}

	fetched, err := env.sales.GetSaleByID(sale.ID)
	if err != nil {
		t.Fatalf("GetSaleByID: %v", err)
	}
	if fetched.PaymentMethod != models.PaymentPix {
		t.Errorf("PaymentMethod = %q, want pix", fetched.PaymentMethod)
	}
}

// A comanda can only be sold once.
func TestRecordSaleRejectsClosedComanda(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 1, "1")

	if _, err := env.sales.RecordSale(RecordSaleRequest{ComandaID: comanda.ID, PaymentMethod: models.PaymentCreditCard}); err != nil {
		t.Fatalf("first RecordSale: %v", err)
	}
	_, err := env.sales.RecordSale(RecordSaleRequest{ComandaID: comanda.ID, PaymentMethod: models.PaymentCreditCard})
	if !errors.Is(err, ErrComandaClosed) {
		t.Fatalf("second RecordSale error = %v, want ErrComandaClosed", err)
	}
}

func TestGetSaleByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.sales.GetSaleByID(999); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("GetSaleByID(999) error = %v, want ErrSaleNotFound", err)
	}
}
