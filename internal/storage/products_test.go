package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)

	require.NoError(t, s.Migrate(context.Background()))

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetProducts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	purchase := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	products := []model.Product{
		{
			ID:               "p1",
			ExternalID:       "ext-1",
			Name:             "Acme Widget 500",
			VendorName:       "Widget 500 Pro",
			VendorCode:       "ACME",
			PurchaseDate:     &purchase,
			PurchaseOrderRef: "Invoice #PO123-X",
			CreatedAt:        time.Date(2025, 2, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "p2",
			Name:      "Bare Minimum Product",
			CreatedAt: time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, s.SaveProducts(ctx, products))

	got, err := s.GetProducts(ctx, service.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Most recently created first.
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "p1", got[1].ID)

	full := got[1]
	assert.Equal(t, "ext-1", full.ExternalID)
	assert.Equal(t, "Widget 500 Pro", full.VendorName)
	assert.Equal(t, "ACME", full.VendorCode)
	assert.Equal(t, "Invoice #PO123-X", full.PurchaseOrderRef)
	require.NotNil(t, full.PurchaseDate)
	assert.True(t, full.PurchaseDate.Equal(purchase))

	sparse := got[0]
	assert.Empty(t, sparse.VendorCode)
	assert.Nil(t, sparse.PurchaseDate)
}

func TestSaveProductsUpsert(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProducts(ctx, []model.Product{{ID: "p1", Name: "Original"}}))
	require.NoError(t, s.SaveProducts(ctx, []model.Product{{ID: "p1", Name: "Renamed", VendorCode: "V1"}}))

	got, err := s.GetProductByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "V1", got.VendorCode)
}

func TestGetProductsFilters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	var products []model.Product
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p := model.Product{
			ID:        string(rune('a' + i)),
			Name:      "Product",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if i%2 == 0 {
			p.VendorCode = "EVEN"
		}
		products = append(products, p)
	}
	require.NoError(t, s.SaveProducts(ctx, products))

	limited, err := s.GetProducts(ctx, service.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "e", limited[0].ID)

	byVendor, err := s.GetProducts(ctx, service.ProductFilter{VendorCode: "EVEN"})
	require.NoError(t, err)
	assert.Len(t, byVendor, 3)
	for _, p := range byVendor {
		assert.Equal(t, "EVEN", p.VendorCode)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetProductByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveProductsValidation(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	err := s.SaveProducts(ctx, []model.Product{})
	assert.ErrorIs(t, err, ErrEmptySlice)

	err = s.SaveProducts(ctx, []model.Product{{Name: "no id"}})
	assert.ErrorIs(t, err, ErrInvalidEntity)

	err = s.SaveProducts(ctx, []model.Product{{ID: "p1"}})
	assert.ErrorIs(t, err, ErrInvalidEntity)
}
