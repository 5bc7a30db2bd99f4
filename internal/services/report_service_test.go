package services

import (
	"errors"
	"testing"
	"time"

	"pos_comanda_backend/internal/models"
)

// sellComanda opens a walk-up comanda, adds one line and settles it by card.
func sellComanda(t *testing.T, env *testEnv, productID int64, quantity string) {
	t.Helper()
	comanda, err := env.comandas.CreateComanda(CreateComandaRequest{})
	if err != nil {
		t.Fatalf("CreateComanda: %v", err)
	}
	addLine(t, env, comanda.ID, productID, quantity)
	if _, err := env.sales.RecordSale(RecordSaleRequest{ComandaID: comanda.ID, PaymentMethod: models.PaymentDebitCard}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
}

func TestSalesReportAggregates(t *testing.T) {
	env := newTestEnv(t)

	// Three sales over the 4.00 product: 10.00, 20.00 and 30.00.
	sellComanda(t, env, 5, "2.5")
	sellComanda(t, env, 5, "5")
	sellComanda(t, env, 5, "7.5")

	today := time.Now().Format("2006-01-02")
	report, err := env.reports.GetSalesReport(today, today)
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}

	if report.TotalRevenue != "60.00" {
		t.Errorf("TotalRevenue = %q, want 60.00", report.TotalRevenue)
	}
	if report.SaleCount != 3 {
		t.Errorf("SaleCount = %d, want 3", report.SaleCount)
	}
	if report.AverageTicket != "20.00" {
		t.Errorf("AverageTicket = %q, want 20.00", report.AverageTicket)
	}
	if report.TotalUnitsSold != "15.000" {
		t.Errorf("TotalUnitsSold = %q, want 15.000", report.TotalUnitsSold)
	}

	if len(report.DailyTotals) != 1 {
		t.Fatalf("len(DailyTotals) = %d, want 1", len(report.DailyTotals))
	}
	if report.DailyTotals[0].Date != today || report.DailyTotals[0].Total != "60.00" {
		t.Errorf("DailyTotals[0] = %+v, want %s / 60.00", report.DailyTotals[0], today)
	}

	if len(report.TopProducts) != 1 {
		t.Fatalf("len(TopProducts) = %d, want 1", len(report.TopProducts))
	}
	top := report.TopProducts[0]
	if top.ProductID != 5 || top.QuantitySold != "15.000" || top.Revenue != "60.00" {
		t.Errorf("TopProducts[0] = %+v, want product 5, 15.000, 60.00", top)
	}
	if top.Product == nil || top.Product.Name != "Refrigerante" {
		t.Errorf("top product embed = %+v, want Refrigerante", top.Product)
	}
}

func TestSalesReportRanksByQuantity(t *testing.T) {
	env := newTestEnv(t)

	sellComanda(t, env, 1, "3") // Brigadeiro, qty 3
	sellComanda(t, env, 5, "7") // Refrigerante, qty 7
	sellComanda(t, env, 8, "3") // Cookie, qty 3, ties with product 1

	today := time.Now().Format("2006-01-02")
	report, err := env.reports.GetSalesReport(today, today)
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}
	if len(report.TopProducts) != 3 {
		t.Fatalf("len(TopProducts) = %d, want 3", len(report.TopProducts))
	}
	// Highest quantity first, ties broken by product id.
	if report.TopProducts[0].ProductID != 5 {
		t.Errorf("TopProducts[0].ProductID = %d, want 5", report.TopProducts[0].ProductID)
	}
	if report.TopProducts[1].ProductID != 1 || report.TopProducts[2].ProductID != 8 {
		t.Errorf("tie order = %d, %d, want 1, 8", report.TopProducts[1].ProductID, report.TopProducts[2].ProductID)
	}
}

func TestSalesReportEmptyRange(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.reports.GetSalesReport("2020-01-01", "2020-01-31")
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}
	if report.SaleCount != 0 || report.TotalRevenue != "0.00" {
		t.Errorf("empty range: count %d revenue %q, want 0 / 0.00", report.SaleCount, report.TotalRevenue)
	}
	if report.AverageTicket != "0.00" {
		t.Errorf("AverageTicket = %q, want 0.00 on empty range", report.AverageTicket)
	}
	if len(report.DailyTotals) != 0 || len(report.TopProducts) != 0 {
		t.Errorf("DailyTotals/TopProducts = %d/%d entries, want 0/0", len(report.DailyTotals), len(report.TopProducts))
	}
}

func TestSalesReportInvalidRange(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.reports.GetSalesReport("01/02/2026", "2026-02-28"); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("bad start format error = %v, want ErrInvalidDateRange", err)
	}
	if _, err := env.reports.GetSalesReport("2026-03-01", "2026-02-01"); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("start after end error = %v, want ErrInvalidDateRange", err)
	}
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.reports.GetSummary()
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.OpenComandas != 0 {
		t.Errorf("OpenComandas = %d, want 0", summary.OpenComandas)
	}
	// Seed occupies tables 2, 5, 9 and 11.
	if summary.OccupiedTables != 4 {
		t.Errorf("OccupiedTables = %d, want 4", summary.OccupiedTables)
	}
	// Torta de Morango sits at 2.5, at or below the threshold of 5.
	if summary.LowStockProducts != 1 {
		t.Errorf("LowStockProducts = %d, want 1", summary.LowStockProducts)
	}

	openComandaOnTable(t, env, 1)
	sellComanda(t, env, 5, "2") // 8.00 today

	summary, err = env.reports.GetSummary()
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.OpenComandas != 1 {
		t.Errorf("OpenComandas = %d, want 1", summary.OpenComandas)
	}
	if summary.OccupiedTables != 5 {
		t.Errorf("OccupiedTables = %d, want 5", summary.OccupiedTables)
	}
	if summary.SalesToday != 1 || summary.RevenueToday != "8.00" {
		t.Errorf("SalesToday/RevenueToday = %d/%q, want 1/8.00", summary.SalesToday, summary.RevenueToday)
	}
}
