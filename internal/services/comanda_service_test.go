package services

import (
	"errors"
	"testing"

	"pos_comanda_backend/internal/models"
)

func TestCreateComandaOccupiesTable(t *testing.T) {
	env := newTestEnv(t)

	comanda := openComandaOnTable(t, env, 1)
	if comanda.Status != models.ComandaOpen {
		t.Errorf("Status = %q, want open", comanda.Status)
	}
	if comanda.Total != nil {
		t.Errorf("Total = %v, want nil on open comanda", *comanda.Total)
	}

	table, err := env.tables.GetTableByID(1)
	if err != nil {
		t.Fatalf("GetTableByID: %v", err)
	}
	if table.Status != models.TableOccupied {
		t.Errorf("table status = %q, want occupied", table.Status)
	}
}

func TestCreateComandaRejectsSecondOpenOnTable(t *testing.T) {
	env := newTestEnv(t)

	openComandaOnTable(t, env, 1)
	_, err := env.comandas.CreateComanda(CreateComandaRequest{TableID: int64Ptr(1)})
	if !errors.Is(err, ErrTableHasOpenComanda) {
		t.Fatalf("second CreateComanda error = %v, want ErrTableHasOpenComanda", err)
	}

	if _, err := env.comandas.CreateComanda(CreateComandaRequest{TableID: int64Ptr(999)}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("CreateComanda(999) error = %v, want ErrTableNotFound", err)
	}
}

func TestCreateComandaWalkUp(t *testing.T) {
	env := newTestEnv(t)

	comanda, err := env.comandas.CreateComanda(CreateComandaRequest{CustomerName: strPtr("Maria")})
	if err != nil {
		t.Fatalf("CreateComanda: %v", err)
	}
	if comanda.TableID != nil {
		t.Errorf("TableID = %v, want nil", *comanda.TableID)
	}
	if comanda.CustomerName == nil || *comanda.CustomerName != "Maria" {
		t.Errorf("CustomerName = %v, want Maria", comanda.CustomerName)
	}
}

func TestAddLineComputesSubtotal(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)

	// 0.5 kg of a 130.00/kg product.
	line := addLine(t, env, comanda.ID, 3, "0.5")
	if line.Quantity != "0.500" {
		t.Errorf("Quantity = %q, want 0.500", line.Quantity)
	}
	if line.UnitPriceAtTimeOfSale != "130.00" {
		t.Errorf("UnitPriceAtTimeOfSale = %q, want 130.00", line.UnitPriceAtTimeOfSale)
	}
	if line.Subtotal != "65.00" {
		t.Errorf("Subtotal = %q, want 65.00", line.Subtotal)
	}
}

func TestAddLineRoundsSubtotalHalfUp(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)

	product, err := env.catalog.CreateProduct(CreateProductRequest{
		Name:          "Granel",
		UnitPrice:     "1.05",
		UnitOfMeasure: "weight",
		CategoryID:    1,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// 0.5 * 1.05 = 0.525, rounds half up to 0.53.
	line := addLine(t, env, comanda.ID, product.ID, "0.5")
	if line.Subtotal != "0.53" {
		t.Errorf("Subtotal = %q, want 0.53", line.Subtotal)
	}
}

func TestAddLineValidation(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)

	if _, err := env.comandas.AddLine(comanda.ID, AddLineRequest{ProductID: 1, Quantity: "0"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddLine(qty 0) error = %v, want ErrValidation", err)
	}
	if _, err := env.comandas.AddLine(comanda.ID, AddLineRequest{ProductID: 1, Quantity: "-1"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddLine(qty -1) error = %v, want ErrValidation", err)
	}
	if _, err := env.comandas.AddLine(comanda.ID, AddLineRequest{ProductID: 999, Quantity: "1"}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("AddLine(product 999) error = %v, want ErrProductNotFound", err)
	}
	if _, err := env.comandas.AddLine(999, AddLineRequest{ProductID: 1, Quantity: "1"}); !errors.Is(err, ErrComandaNotFound) {
		t.Fatalf("AddLine(comanda 999) error = %v, want ErrComandaNotFound", err)
	}
}

func TestAddLinePriceSnapshotSurvivesPriceChange(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 1, "2")

	if _, err := env.catalog.UpdateProduct(1, UpdateProductRequest{UnitPrice: strPtr("9.99")}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	complete, err := env.comandas.GetComandaByID(comanda.ID)
	if err != nil {
		t.Fatalf("GetComandaByID: %v", err)
	}
	if complete.Lines[0].UnitPriceAtTimeOfSale != "6.00" {
		t.Errorf("snapshot price = %q, want 6.00 after catalog price change", complete.Lines[0].UnitPriceAtTimeOfSale)
	}

	closed, err := env.comandas.CloseComanda(comanda.ID)
	if err != nil {
		t.Fatalf("CloseComanda: %v", err)
	}
	if closed.Total == nil || *closed.Total != "12.00" {
		t.Errorf("Total = %v, want 12.00 computed from snapshots", closed.Total)
	}
}

func TestAddLineStockTracking(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)

	// Product 2 has 8 slices in stock.
	if _, err := env.comandas.AddLine(comanda.ID, AddLineRequest{ProductID: 2, Quantity: "9"}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("AddLine(qty 9) error = %v, want ErrInsufficientStock", err)
	}
	product, err := env.catalog.GetProductByID(2)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if *product.CurrentStock != "8.000" {
		t.Errorf("stock after rejected add = %q, want 8.000 unchanged", *product.CurrentStock)
	}

	addLine(t, env, comanda.ID, 2, "3")
	product, err = env.catalog.GetProductByID(2)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if *product.CurrentStock != "5.000" {
		t.Errorf("stock after add = %q, want 5.000", *product.CurrentStock)
	}

	movements, err := env.catalog.ListStockMovements(int64Ptr(2))
	if err != nil {
		t.Fatalf("ListStockMovements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("len(movements) = %d, want 1", len(movements))
	}
	if movements[0].MovementType != models.MovementSale || movements[0].QuantityChanged != "-3.000" {
		t.Errorf("movement = %+v, want sale -3.000", movements[0])
	}
}

func TestSetLineQuantity(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	line := addLine(t, env, comanda.ID, 1, "2")

	if _, err := env.comandas.SetLineQuantity(line.ID, SetLineQuantityRequest{Quantity: "0"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("SetLineQuantity(0) error = %v, want ErrValidation", err)
	}

	updated, err := env.comandas.SetLineQuantity(line.ID, SetLineQuantityRequest{Quantity: "5"})
	if err != nil {
		t.Fatalf("SetLineQuantity: %v", err)
	}
	if updated.Quantity != "5.000" || updated.Subtotal != "30.00" {
		t.Errorf("line = qty %q subtotal %q, want 5.000 / 30.00", updated.Quantity, updated.Subtotal)
	}

	// Stock moved from 120 to 118 on add, then to 115 on the adjustment.
	product, err := env.catalog.GetProductByID(1)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if *product.CurrentStock != "115.000" {
		t.Errorf("stock = %q, want 115.000", *product.CurrentStock)
	}

	movements, err := env.catalog.ListStockMovements(int64Ptr(1))
	if err != nil {
		t.Fatalf("ListStockMovements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("len(movements) = %d, want 2", len(movements))
	}
	// Newest first.
	if movements[0].MovementType != models.MovementAdjustment || movements[0].QuantityChanged != "-3.000" {
		t.Errorf("adjustment movement = %+v, want quantity_adjustment -3.000", movements[0])
	}

	if _, err := env.comandas.SetLineQuantity(999, SetLineQuantityRequest{Quantity: "1"}); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("SetLineQuantity(999) error = %v, want ErrLineNotFound", err)
	}
}

func TestRemoveLineRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	line := addLine(t, env, comanda.ID, 1, "4")

	if err := env.comandas.RemoveLine(line.ID); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}

	product, err := env.catalog.GetProductByID(1)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if *product.CurrentStock != "120.000" {
		t.Errorf("stock = %q, want 120.000 restored", *product.CurrentStock)
	}

	movements, err := env.catalog.ListStockMovements(int64Ptr(1))
	if err != nil {
		t.Fatalf("ListStockMovements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("len(movements) = %d, want 2", len(movements))
	}
	if movements[0].MovementType != models.MovementReturn || movements[0].QuantityChanged != "4.000" {
		t.Errorf("restore movement = %+v, want line_removed +4.000", movements[0])
	}

	complete, err := env.comandas.GetComandaByID(comanda.ID)
	if err != nil {
		t.Fatalf("GetComandaByID: %v", err)
	}
	if len(complete.Lines) != 0 {
		t.Errorf("len(lines) = %d, want 0", len(complete.Lines))
	}

	// Removing an unknown line is a no-op.
	if err := env.comandas.RemoveLine(line.ID); err != nil {
		t.Fatalf("second RemoveLine: %v", err)
	}
}

func TestCloseComanda(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 1, "2")
	addLine(t, env, comanda.ID, 5, "3")

	closed, err := env.comandas.CloseComanda(comanda.ID)
	if err != nil {
		t.Fatalf("CloseComanda: %v", err)
	}
	if closed.Status != models.ComandaClosed {
		t.Errorf("Status = %q, want closed", closed.Status)
	}
	if closed.Total == nil || *closed.Total != "24.00" {
		t.Errorf("Total = %v, want 24.00", closed.Total)
	}
	if closed.ClosedAt == nil {
		t.Error("ClosedAt = nil, want set")
	}

	table, err := env.tables.GetTableByID(1)
	if err != nil {
		t.Fatalf("GetTableByID: %v", err)
	}
	if table.Status != models.TableFree {
		t.Errorf("table status = %q, want free", table.Status)
	}

	// All mutating operations reject the closed comanda.
	if _, err := env.comandas.CloseComanda(comanda.ID); !errors.Is(err, ErrComandaClosed) {
		t.Fatalf("second CloseComanda error = %v, want ErrComandaClosed", err)
	}
	if _, err := env.comandas.AddLine(comanda.ID, AddLineRequest{ProductID: 1, Quantity: "1"}); !errors.Is(err, ErrComandaClosed) {
		t.Fatalf("AddLine on closed error = %v, want ErrComandaClosed", err)
	}
}

func TestGetOpenComandaForTable(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.comandas.GetOpenComandaForTable(1); !errors.Is(err, ErrComandaNotFound) {
		t.Fatalf("GetOpenComandaForTable(no comanda) error = %v, want ErrComandaNotFound", err)
	}
	if _, err := env.comandas.GetOpenComandaForTable(999); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("GetOpenComandaForTable(999) error = %v, want ErrTableNotFound", err)
	}

	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 1, "1")

	found, err := env.comandas.GetOpenComandaForTable(1)
	if err != nil {
		t.Fatalf("GetOpenComandaForTable: %v", err)
	}
	if found.ID != comanda.ID {
		t.Errorf("found ID = %d, want %d", found.ID, comanda.ID)
	}
	if len(found.Lines) != 1 || found.Lines[0].Product == nil {
		t.Errorf("lines = %+v, want one line with product embed", found.Lines)
	}
	if found.Table == nil || found.Table.ID != 1 {
		t.Errorf("table embed = %+v, want table 1", found.Table)
	}
}

func TestComandaLinesKeepSnapshotAfterProductDelete(t *testing.T) {
	env := newTestEnv(t)
	comanda := openComandaOnTable(t, env, 1)
	addLine(t, env, comanda.ID, 7, "2")

	if err := env.catalog.DeleteProduct(7); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	complete, err := env.comandas.GetComandaByID(comanda.ID)
	if err != nil {
		t.Fatalf("GetComandaByID: %v", err)
	}
	if len(complete.Lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(complete.Lines))
	}
	line := complete.Lines[0]
	if line.Product != nil {
		t.Errorf("Product embed = %+v, want nil after delete", line.Product)
	}
	if line.UnitPriceAtTimeOfSale != "7.50" || line.Subtotal != "15.00" {
		t.Errorf("snapshot = %q/%q, want 7.50/15.00", line.UnitPriceAtTimeOfSale, line.Subtotal)
	}
}
