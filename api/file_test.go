package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stockctl/domain"
	"stockctl/query"
)

func TestFilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	ctx := context.Background()

	f, err := NewFile(path)
	require.NoError(t, err)

	created, err := f.CreateProduct(ctx, domain.ProductRequest{
		Name: "Milk", Category: domain.Category{ID: 3}, UnitPrice: 2.5, Stock: 4,
	})
	require.NoError(t, err)

	_, err = f.CreateProduct(ctx, domain.ProductRequest{
		Name: "Soap", Category: domain.Category{ID: 2}, UnitPrice: 1.2, Stock: 9,
	})
	require.NoError(t, err)

	reopened, err := NewFile(path)
	require.NoError(t, err)

	p, err := reopened.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Milk", p.Name)

	// ids continue after the highest persisted one
	p3, err := reopened.CreateProduct(ctx, domain.ProductRequest{
		Name: "Radio", Category: domain.Category{ID: 1}, UnitPrice: 45, Stock: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), p3.ID)
}

func TestFilePersistsMutations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	ctx := context.Background()

	f, err := NewFile(path)
	require.NoError(t, err)

	p, err := f.CreateProduct(ctx, domain.ProductRequest{
		Name: "Milk", Category: domain.Category{ID: 3}, UnitPrice: 2.5, Stock: 4,
	})
	require.NoError(t, err)

	_, err = f.SetOutOfStock(ctx, p.ID)
	require.NoError(t, err)

	reopened, err := NewFile(path)
	require.NoError(t, err)
	got, err := reopened.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Stock)

	_, err = reopened.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)

	final, err := NewFile(path)
	require.NoError(t, err)
	page, err := final.ListProducts(ctx, query.Default())
	require.NoError(t, err)
	require.Empty(t, page.Products)
}

func TestFileMissingFileIsFine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "products.json")
	f, err := NewFile(path)
	require.NoError(t, err)

	page, err := f.ListProducts(context.Background(), query.Default())
	require.NoError(t, err)
	require.Empty(t, page.Products)
}

func TestFileRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("{bad json"), 0o644))

	_, err := NewFile(path)
	require.Error(t, err)
}
