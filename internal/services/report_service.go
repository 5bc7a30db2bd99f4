package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var ErrInvalidDateRange = errors.New("invalid date range")

const dateLayout = "2006-01-02"

// Products at or below this stock level count as low stock on the summary.
var lowStockThreshold = decimal.NewFromInt(5)

// --- DTOs ---

// DailyTotalResponse is revenue aggregated for one calendar day.
type DailyTotalResponse struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

// TopProductResponse ranks a product by quantity sold over the report range.
type TopProductResponse struct {
	ProductID    int64            `json:"productId"`
	Product      *ProductResponse `json:"product,omitempty"`
	QuantitySold string           `json:"quantitySold"`
	Revenue      string           `json:"revenue"`
}

// SalesReportResponse aggregates all sales whose date falls inside the
// inclusive [startDate, endDate] range.
type SalesReportResponse struct {
	StartDate      string               `json:"startDate"`
	EndDate        string               `json:"endDate"`
	TotalRevenue   string               `json:"totalRevenue"`
	SaleCount      int                  `json:"saleCount"`
	AverageTicket  string               `json:"averageTicket"`
	TotalUnitsSold string               `json:"totalUnitsSold"`
	DailyTotals    []DailyTotalResponse `json:"dailyTotals"`
	TopProducts    []TopProductResponse `json:"topProducts"`
}

// SummaryResponse is the dashboard snapshot of the current business state.
type SummaryResponse struct {
	OpenComandas     int    `json:"openComandas"`
	OccupiedTables   int    `json:"occupiedTables"`
	SalesToday       int    `json:"salesToday"`
	RevenueToday     string `json:"revenueToday"`
	LowStockProducts int    `json:"lowStockProducts"`
}

type ReportService interface {
	GetSalesReport(startDate, endDate string) (*SalesReportResponse, error)
	GetSummary() (*SummaryResponse, error)
}

type reportService struct {
	txm         repositories.TxManager
	saleRepo    repositories.SaleRepository
	comandaRepo repositories.ComandaRepository
	productRepo repositories.ProductRepository
	tableRepo   repositories.TableRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	txm repositories.TxManager,
	sr repositories.SaleRepository,
	cr repositories.ComandaRepository,
	pr repositories.ProductRepository,
	tr repositories.TableRepository,
) ReportService {
	return &reportService{
		txm:         txm,
		saleRepo:    sr,
		comandaRepo: cr,
		productRepo: pr,
		tableRepo:   tr,
	}
}

type productStats struct {
	product  *models.Product
	quantity decimal.Decimal
	revenue  decimal.Decimal
}

func (s *reportService) GetSalesReport(startDate, endDate string) (*SalesReportResponse, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidDateRange)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidDateRange)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate %s is after endDate %s", ErrInvalidDateRange, startDate, endDate)
	}

	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sales, err := s.saleRepo.GetSalesBetween(tx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales for report: %w", err)
	}

	totalRevenue := decimal.Zero
	totalUnits := decimal.Zero
	daily := map[string]decimal.Decimal{}
	stats := map[int64]*productStats{}

	for _, sale := range sales {
		totalRevenue = totalRevenue.Add(sale.TotalAmount)
		day := sale.CreatedAt.Format(dateLayout)
		daily[day] = daily[day].Add(sale.TotalAmount)

		lines, err := s.comandaRepo.GetLinesByComandaID(tx, sale.ComandaID)
		if err != nil {
			return nil, fmt.Errorf("failed to load lines for sale ID %d: %w", sale.ID, err)
		}
		for _, line := range lines {
			totalUnits = totalUnits.Add(line.Quantity)
			st, ok := stats[line.ProductID]
			if !ok {
				st = &productStats{quantity: decimal.Zero, revenue: decimal.Zero}
				stats[line.ProductID] = st
			}
			st.quantity = st.quantity.Add(line.Quantity)
			st.revenue = st.revenue.Add(line.Subtotal)
			if st.product == nil && line.Product != nil {
				st.product = line.Product
			}
		}
	}

	averageTicket := decimal.Zero
	if len(sales) > 0 {
		averageTicket = totalRevenue.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}

	report := &SalesReportResponse{
		StartDate:      startDate,
		EndDate:        endDate,
		TotalRevenue:   totalRevenue.StringFixed(2),
		SaleCount:      len(sales),
		AverageTicket:  averageTicket.StringFixed(2),
		TotalUnitsSold: totalUnits.StringFixed(3),
		DailyTotals:    buildDailyTotals(daily),
		TopProducts:    buildTopProducts(stats),
	}
	return report, nil
}

func (s *reportService) GetSummary() (*SummaryResponse, error) {
	tx, err := s.txm.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	openComandas, err := s.comandaRepo.CountOpenComandas(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open comandas: %w", err)
	}
	tables, err := s.tableRepo.GetTables(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	occupied := 0
	for _, table := range tables {
		if table.Status == models.TableOccupied {
			occupied++
		}
	}

	now := time.Now()
	sales, err := s.saleRepo.GetSalesBetween(tx, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query today's sales: %w", err)
	}
	revenueToday := decimal.Zero
	for _, sale := range sales {
		revenueToday = revenueToday.Add(sale.TotalAmount)
	}

	products, err := s.productRepo.GetProducts(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	lowStock := 0
	for _, product := range products {
		if product.TracksStock && product.CurrentStock != nil &&
			product.CurrentStock.LessThanOrEqual(lowStockThreshold) {
			lowStock++
		}
	}

	return &SummaryResponse{
		OpenComandas:     openComandas,
		OccupiedTables:   occupied,
		SalesToday:       len(sales),
		RevenueToday:     revenueToday.StringFixed(2),
		LowStockProducts: lowStock,
	}, nil
}

// --- Helpers ---

func buildDailyTotals(daily map[string]decimal.Decimal) []DailyTotalResponse {
	totals := make([]DailyTotalResponse, 0, len(daily))
	for day, total := range daily {
		totals = append(totals, DailyTotalResponse{Date: day, Total: total.StringFixed(2)})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals
}

// buildTopProducts ranks products by quantity sold, breaking ties by product
// ID, and keeps the top ten.
func buildTopProducts(stats map[int64]*productStats) []TopProductResponse {
	type entry struct {
		productID int64
		stats     *productStats
	}
	entries := make([]entry, 0, len(stats))
	for productID, st := range stats {
		entries = append(entries, entry{productID: productID, stats: st})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].stats.quantity.Equal(entries[j].stats.quantity) {
			return entries[i].stats.quantity.GreaterThan(entries[j].stats.quantity)
		}
		return entries[i].productID < entries[j].productID
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}

	top := make([]TopProductResponse, 0, len(entries))
	for _, e := range entries {
		item := TopProductResponse{
			ProductID:    e.productID,
			QuantitySold: e.stats.quantity.StringFixed(3),
			Revenue:      e.stats.revenue.StringFixed(2),
		}
		if e.stats.product != nil {
			product := newProductResponse(*e.stats.product)
			item.Product = &product
		}
		top = append(top, item)
	}
	return top
}
