package services

import (
	"errors"
	"testing"

	"pos_comanda_backend/internal/models"
)

func TestListTables(t *testing.T) {
	env := newTestEnv(t)

	tables, err := env.tables.ListTables()
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 12 {
		t.Fatalf("len(tables) = %d, want 12", len(tables))
	}
	occupied := 0
	for _, table := range tables {
		if table.Status == models.TableOccupied {
			occupied++
		}
	}
	if occupied != 4 {
		t.Errorf("occupied tables = %d, want 4", occupied)
	}
}

func TestSetTableStatus(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.tables.SetTableStatus(1, SetTableStatusRequest{Status: "busy"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("SetTableStatus(invalid) error = %v, want ErrValidation", err)
	}
	if _, err := env.tables.SetTableStatus(999, SetTableStatusRequest{Status: models.TableReserved}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("SetTableStatus(999) error = %v, want ErrTableNotFound", err)
	}

	table, err := env.tables.SetTableStatus(1, SetTableStatusRequest{Status: models.TableReserved})
	if err != nil {
		t.Fatalf("SetTableStatus: %v", err)
	}
	if table.Status != models.TableReserved {
		t.Errorf("Status = %q, want reserved", table.Status)
	}
}
