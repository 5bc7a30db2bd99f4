package services

import (
	"testing"

	"pos_comanda_backend/internal/repositories/memory"
)

// testEnv wires every service over a seeded in-memory store, the same way
// main does for the memory backend.
type testEnv struct {
	store    *memory.Store
	catalog  CatalogService
	tables   TableService
	comandas ComandaService
	sales    SaleService
	reports  ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewDemoStore()
	txm := memory.NewTxManager(store)
	categoryRepo := memory.NewCategoryRepository(store)
	productRepo := memory.NewProductRepository(store)
	tableRepo := memory.NewTableRepository(store)
	comandaRepo := memory.NewComandaRepository(store)
	saleRepo := memory.NewSaleRepository(store)
	movementRepo := memory.NewStockMovementRepository(store)

	return &testEnv{
		store:    store,
		catalog:  NewCatalogService(txm, categoryRepo, productRepo, movementRepo),
		tables:   NewTableService(txm, tableRepo),
		comandas: NewComandaService(txm, comandaRepo, tableRepo, productRepo, movementRepo),
		sales:    NewSaleService(txm, saleRepo, comandaRepo, tableRepo),
		reports:  NewReportService(txm, saleRepo, comandaRepo, productRepo, tableRepo),
	}
}

func int64Ptr(i int64) *int64 {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

// openComandaOnTable opens a comanda bound to a table and fails the test on error.
func openComandaOnTable(t *testing.T, env *testEnv, tableID int64) *ComandaResponse {
	t.Helper()
	comanda, err := env.comandas.CreateComanda(CreateComandaRequest{TableID: int64Ptr(tableID)})
	if err != nil {
		t.Fatalf("CreateComanda(table %d): %v", tableID, err)
	}
	return comanda
}

// addLine appends a line and fails the test on error.
func addLine(t *testing.T, env *testEnv, comandaID, productID int64, quantity string) *ComandaLineResponse {
	t.Helper()
	line, err := env.comandas.AddLine(comandaID, AddLineRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		t.Fatalf("AddLine(comanda %d, product %d, qty %s): %v", comandaID, productID, quantity, err)
	}
	return line
}
