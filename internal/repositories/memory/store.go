// Package memory provides the in-memory storage backend. It implements the
// same repository interfaces as the Postgres backend, backed by maps owned by
// a single Store. All access goes through the package's TxManager, which
// hands out an exclusive lock on the store: each top-level operation is the
// unit of atomicity and readers never observe a half-applied mutation.
//
// There is no undo log. Services are expected to run every invariant check
// before their first write, so a failed operation leaves the store untouched.
package memory

import (
	"database/sql"
	"errors"
	"sync"

	"pos_comanda_backend/internal/models"
	"pos_comanda_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// Store owns all in-memory state. Construct once at process start and share
// it between the repositories and the TxManager.
type Store struct {
	mu sync.Mutex

	categories map[int64]models.Category
	products   map[int64]models.Product
	tables     map[int64]models.Table
	comandas   map[int64]models.Comanda
	lines      map[int64]models.ComandaLine
	sales      map[int64]models.Sale
	movements  map[int64]models.StockMovement

	lastID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]models.Category),
		products:   make(map[int64]models.Product),
		tables:     make(map[int64]models.Table),
		comandas:   make(map[int64]models.Comanda),
		lines:      make(map[int64]models.ComandaLine),
		sales:      make(map[int64]models.Sale),
		movements:  make(map[int64]models.StockMovement),
	}
}

// NewDemoStore creates a store seeded with the demo catalog and table map:
// five categories, eight products, twelve tables (2, 5, 9 and 11 occupied,
// 3 reserved) and generated ids continuing from 100.
func NewDemoStore() *Store {
	s := NewStore()

	s.categories[1] = models.Category{ID: 1, Name: "Doces"}
	s.categories[2] = models.Category{ID: 2, Name: "Bolos"}
	s.categories[3] = models.Category{ID: 3, Name: "Tortas"}
	s.categories[4] = models.Category{ID: 4, Name: "Salgados"}
	s.categories[5] = models.Category{ID: 5, Name: "Bebidas"}

	seedProducts := []struct {
		id       int64
		name     string
		price    string
		measure  string
		category int64
		stock    string
	}{
		{1, "Brigadeiro Gourmet", "6.00", models.MeasureUnit, 1, "120"},
		{2, "Bolo de Chocolate", "8.50", models.MeasureSlice, 2, "8"},
		{3, "Torta de Morango", "130.00", models.MeasureWeight, 3, "2.5"},
		{4, "Pão de Açúcar", "3.50", models.MeasureUnit, 4, "50"},
		{5, "Refrigerante", "4.00", models.MeasureUnit, 5, "30"},
		{6, "Torta de Limão", "9.00", models.MeasureSlice, 3, "6"},
		{7, "Cupcake", "7.50", models.MeasureUnit, 1, "24"},
		{8, "Cookie", "4.50", models.MeasureUnit, 1, "40"},
	}
	for _, p := range seedProducts {
		stock := decimal.RequireFromString(p.stock)
		s.products[p.id] = models.Product{
			ID:            p.id,
			Name:          p.name,
			UnitPrice:     decimal.RequireFromString(p.price),
			UnitOfMeasure: p.measure,
			CategoryID:    p.category,
			TracksStock:   true,
			CurrentStock:  &stock,
		}
	}

	for i := int64(1); i <= 12; i++ {
		status := models.TableFree
		switch i {
		case 2, 5, 9, 11:
			status = models.TableOccupied
		case 3:
			status = models.TableReserved
		}
		s.tables[i] = models.Table{ID: i, Number: int(i), Status: status}
	}

	s.lastID = 99
	return s
}

// nextID returns the next generated id. Caller must hold the store lock.
func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

// errNoSQL is returned if anything tries to run SQL against a memory transaction.
var errNoSQL = errors.New("memory transaction does not execute SQL")

type memTx struct {
	store *Store
	done  bool
}

type txManager struct {
	store *Store
}

// NewTxManager creates a TxManager that serializes operations on the store.
func NewTxManager(store *Store) repositories.TxManager {
	return &txManager{store: store}
}

func (m *txManager) Begin() (repositories.Tx, error) {
	m.store.mu.Lock()
	return &memTx{store: m.store}, nil
}

// Commit releases the store lock. There is nothing to flush.
func (t *memTx) Commit() error {
	t.release()
	return nil
}

// Rollback releases the store lock. Mutations already applied are kept;
// see the package comment for why that is sound.
func (t *memTx) Rollback() error {
	t.release()
	return nil
}

func (t *memTx) release() {
	if !t.done {
		t.done = true
		t.store.mu.Unlock()
	}
}

// The SQLExecutor methods exist only to satisfy repositories.Tx; memory
// repositories operate on the store directly and never call them.

func (t *memTx) Exec(query string, args ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

func (t *memTx) QueryRow(query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *memTx) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}
