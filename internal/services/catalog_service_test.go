package services

import (
	"errors"
	"testing"
)

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		req     CreateProductRequest
		wantErr error
	}{
		{
			name:    "empty name",
			req:     CreateProductRequest{Name: "   ", UnitPrice: "5.00", UnitOfMeasure: "unit", CategoryID: 1},
			wantErr: ErrValidation,
		},
		{
			name:    "malformed price",
			req:     CreateProductRequest{Name: "Pudim", UnitPrice: "abc", UnitOfMeasure: "unit", CategoryID: 1},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown measure",
			req:     CreateProductRequest{Name: "Pudim", UnitPrice: "5.00", UnitOfMeasure: "liters", CategoryID: 1},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown category",
			req:     CreateProductRequest{Name: "Pudim", UnitPrice: "5.00", UnitOfMeasure: "unit", CategoryID: 999},
			wantErr: ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.catalog.CreateProduct(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateProduct() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)

	product, err := env.catalog.CreateProduct(CreateProductRequest{
		Name:          "Pudim",
		UnitPrice:     "7.9",
		UnitOfMeasure: "slice",
		CategoryID:    1,
		TracksStock:   boolPtr(true),
		CurrentStock:  strPtr("10"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.ID < 100 {
		t.Errorf("generated ID = %d, want >= 100", product.ID)
	}
	if product.UnitPrice != "7.90" {
		t.Errorf("UnitPrice = %q, want %q", product.UnitPrice, "7.90")
	}
	if product.CurrentStock == nil || *product.CurrentStock != "10.000" {
		t.Errorf("CurrentStock = %v, want 10.000", product.CurrentStock)
	}

	fetched, err := env.catalog.GetProductByID(product.ID)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if fetched.Name != "Pudim" || !fetched.TracksStock {
		t.Errorf("fetched product = %+v, want name Pudim with tracksStock", fetched)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	env := newTestEnv(t)

	updated, err := env.catalog.UpdateProduct(1, UpdateProductRequest{UnitPrice: strPtr("6.50")})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.UnitPrice != "6.50" {
		t.Errorf("UnitPrice = %q, want 6.50", updated.UnitPrice)
	}
	if updated.Name != "Brigadeiro Gourmet" {
		t.Errorf("Name changed to %q on partial update", updated.Name)
	}
	if updated.CurrentStock == nil || *updated.CurrentStock != "120.000" {
		t.Errorf("CurrentStock = %v, want 120.000", updated.CurrentStock)
	}

	if _, err := env.catalog.UpdateProduct(999, UpdateProductRequest{}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("UpdateProduct(999) error = %v, want ErrProductNotFound", err)
	}
}

func TestDeleteProductIdempotent(t *testing.T) {
	env := newTestEnv(t)

	if err := env.catalog.DeleteProduct(8); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := env.catalog.GetProductByID(8); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("GetProductByID after delete error = %v, want ErrProductNotFound", err)
	}
	// Deleting again is a no-op.
	if err := env.catalog.DeleteProduct(8); err != nil {
		t.Fatalf("second DeleteProduct: %v", err)
	}
}

func TestListProductsEmbedsCategory(t *testing.T) {
	env := newTestEnv(t)

	products, err := env.catalog.ListProducts()
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 8 {
		t.Fatalf("len(products) = %d, want 8", len(products))
	}
	first := products[0]
	if first.Category == nil || first.Category.Name != "Doces" {
		t.Errorf("products[0].Category = %+v, want Doces", first.Category)
	}
}

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.catalog.CreateCategory(CreateCategoryRequest{Name: " "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateCategory(blank) error = %v, want ErrValidation", err)
	}

	category, err := env.catalog.CreateCategory(CreateCategoryRequest{Name: "Sorvetes"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.ID < 100 {
		t.Errorf("generated ID = %d, want >= 100", category.ID)
	}

	categories, err := env.catalog.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 6 {
		t.Errorf("len(categories) = %d, want 6", len(categories))
	}
}
