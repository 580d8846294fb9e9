package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivalero/montaje/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "montaje.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleProduct(code string, dept model.Department) *model.Product {
	return &model.Product{
		Code:           code,
		Description:    "Sample " + code,
		Department:     dept,
		WorkerType:     1,
		Location:       "Shelf A",
		OptimalMinutes: 30,
	}
}

func TestStore_ProductCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := sampleProduct("PCB-100", model.DeptElectronics)
	require.NoError(t, s.AddProduct(ctx, p))

	// Duplicate code is rejected.
	err := s.AddProduct(ctx, p)
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := s.GetProduct(ctx, "PCB-100")
	require.NoError(t, err)
	assert.Equal(t, p.Description, got.Description)
	assert.Equal(t, model.DeptElectronics, got.Department)
	assert.Equal(t, "Shelf A", got.Location)
	assert.Empty(t, got.Parts)

	got.Description = "Revised board"
	got.OptimalMinutes = 45
	require.NoError(t, s.UpdateProduct(ctx, "PCB-100", got))

	got, err = s.GetProduct(ctx, "PCB-100")
	require.NoError(t, err)
	assert.Equal(t, "Revised board", got.Description)
	assert.Equal(t, 45.0, got.OptimalMinutes)

	require.NoError(t, s.DeleteProduct(ctx, "PCB-100"))
	_, err = s.GetProduct(ctx, "PCB-100")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, "PCB-100"), ErrNotFound)
}

func TestStore_ProductWithParts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &model.Product{
		Code:        "CPU-01",
		Description: "Main control unit",
		Department:  model.DeptElectronics,
		HasParts:    true,
		Parts: []model.SubPart{
			{Description: "Visual inspection", Minutes: 2, WorkerType: 2},
			{Description: "Heatsink fitting", Minutes: 5, WorkerType: 1},
			{Description: "Boot test", Minutes: 3, WorkerType: 3},
		},
	}
	p.Normalize()
	require.NoError(t, s.AddProduct(ctx, p))

	got, err := s.GetProduct(ctx, "CPU-01")
	require.NoError(t, err)
	require.Len(t, got.Parts, 3)
	assert.Equal(t, "Visual inspection", got.Parts[0].Description)
	assert.Equal(t, 10.0, got.OptimalMinutes)
	assert.Equal(t, 1, got.WorkerType)

	// Update rewrites the parts wholesale.
	got.Parts = got.Parts[:1]
	got.Normalize()
	require.NoError(t, s.UpdateProduct(ctx, "CPU-01", got))

	got, err = s.GetProduct(ctx, "CPU-01")
	require.NoError(t, err)
	assert.Len(t, got.Parts, 1)

	// Deleting the product cascades to its parts.
	require.NoError(t, s.DeleteProduct(ctx, "CPU-01"))
	stats, err := s.CountStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.SubParts)
}

func TestStore_RenameProduct(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &model.Product{
		Code:        "CPU-01",
		Description: "Main control unit",
		Department:  model.DeptElectronics,
		HasParts:    true,
		Parts: []model.SubPart{
			{Description: "Visual inspection", Minutes: 2, WorkerType: 2},
			{Description: "Boot test", Minutes: 3, WorkerType: 3},
		},
	}
	p.Normalize()
	require.NoError(t, s.AddProduct(ctx, p))
	require.NoError(t, s.AddKit(ctx, &model.Kit{
		Code: "KIT-01", Description: "Kit",
		Items: []model.KitItem{{ProductCode: "CPU-01", Quantity: 2}},
	}))

	// Rename a composite product that a kit references.
	p.Code = "CPU-02"
	require.NoError(t, s.UpdateProduct(ctx, "CPU-01", p))

	_, err := s.GetProduct(ctx, "CPU-01")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetProduct(ctx, "CPU-02")
	require.NoError(t, err)
	assert.Len(t, got.Parts, 2)

	// The kit line follows the rename.
	k, err := s.GetKit(ctx, "KIT-01")
	require.NoError(t, err)
	require.Len(t, k.Items, 1)
	assert.Equal(t, "CPU-02", k.Items[0].ProductCode)
	assert.Equal(t, 2, k.Items[0].Quantity)

	// Renaming onto an existing code is rejected.
	require.NoError(t, s.AddProduct(ctx, sampleProduct("PCB-100", model.DeptElectronics)))
	p.Code = "PCB-100"
	assert.ErrorIs(t, s.UpdateProduct(ctx, "CPU-02", p), ErrDuplicate)
}

func TestStore_RenameKit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, sampleProduct("PCB-100", model.DeptElectronics)))
	k := &model.Kit{
		Code: "KIT-01", Description: "Starter kit",
		Items: []model.KitItem{{ProductCode: "PCB-100", Quantity: 1}},
	}
	require.NoError(t, s.AddKit(ctx, k))

	k.Code = "KIT-02"
	require.NoError(t, s.UpdateKit(ctx, "KIT-01", k))

	_, err := s.GetKit(ctx, "KIT-01")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetKit(ctx, "KIT-02")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "PCB-100", got.Items[0].ProductCode)

	// No orphaned rows were left behind.
	stats, err := s.CountStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Kits)
	assert.Equal(t, 1, stats.KitItems)
}

func TestStore_SearchProducts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, sampleProduct("PCB-100", model.DeptElectronics)))
	require.NoError(t, s.AddProduct(ctx, sampleProduct("ENC-10", model.DeptMechanics)))

	hits, err := s.SearchProducts(ctx, "PCB")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "PCB-100", hits[0].Code)

	// Description matches too.
	hits, err = s.SearchProducts(ctx, "Sample ENC")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// Empty query lists everything ordered by code.
	hits, err = s.SearchProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ENC-10", hits[0].Code)
}

func TestStore_KitCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, sampleProduct("PCB-100", model.DeptElectronics)))
	require.NoError(t, s.AddProduct(ctx, sampleProduct("ENC-10", model.DeptMechanics)))

	k := &model.Kit{
		Code:        "KIT-01",
		Description: "Starter kit",
		Items: []model.KitItem{
			{ProductCode: "PCB-100", Quantity: 2},
			{ProductCode: "ENC-10", Quantity: 1},
		},
	}
	require.NoError(t, s.AddKit(ctx, k))
	assert.ErrorIs(t, s.AddKit(ctx, k), ErrDuplicate)

	got, err := s.GetKit(ctx, "KIT-01")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "PCB-100", got.Items[0].ProductCode)
	assert.Equal(t, 2, got.Items[0].Quantity)

	// Unknown product is rejected.
	bad := &model.Kit{Code: "KIT-02", Description: "Bad kit",
		Items: []model.KitItem{{ProductCode: "NOPE", Quantity: 1}}}
	assert.ErrorIs(t, s.AddKit(ctx, bad), model.ErrUnknownKitProduct)

	got.Description = "Revised kit"
	got.Items = got.Items[:1]
	require.NoError(t, s.UpdateKit(ctx, "KIT-01", got))

	got, err = s.GetKit(ctx, "KIT-01")
	require.NoError(t, err)
	assert.Equal(t, "Revised kit", got.Description)
	assert.Len(t, got.Items, 1)

	require.NoError(t, s.DeleteKit(ctx, "KIT-01"))
	_, err = s.GetKit(ctx, "KIT-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_BuildOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, sampleProduct("PCB-100", model.DeptElectronics)))
	require.NoError(t, s.AddProduct(ctx, sampleProduct("ENC-10", model.DeptMechanics)))
	require.NoError(t, s.AddKit(ctx, &model.Kit{
		Code:        "KIT-01",
		Description: "Starter kit",
		Items: []model.KitItem{
			{ProductCode: "ENC-10", Quantity: 3},
			{ProductCode: "PCB-100", Quantity: 1},
		},
	}))

	items, err := s.BuildOrder(ctx, "KIT-01")
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Kit item order is preserved and products are fully loaded.
	assert.Equal(t, "ENC-10", items[0].Product.Code)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, model.DeptMechanics, items[0].Product.Department)

	_, err = s.BuildOrder(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_BackupRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "montaje.db")

	s, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(ctx, sampleProduct("PCB-100", model.DeptElectronics)))

	backupPath := filepath.Join(dir, "backup", "montaje.db")
	require.NoError(t, s.Backup(ctx, backupPath))
	require.NoError(t, s.Close())

	info, err := os.Stat(backupPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Wipe the live database, then restore from the copy.
	require.NoError(t, os.WriteFile(dbPath, nil, 0o644))
	s, err = Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Restore(backupPath))

	s, err = Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetProduct(ctx, "PCB-100")
	require.NoError(t, err)
	assert.Equal(t, "Sample PCB-100", got.Description)
}

func TestStore_CountStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, sampleProduct("PCB-100", model.DeptElectronics)))
	require.NoError(t, s.AddKit(ctx, &model.Kit{
		Code: "KIT-01", Description: "Kit",
		Items: []model.KitItem{{ProductCode: "PCB-100", Quantity: 1}},
	}))

	stats, err := s.CountStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Products)
	assert.Equal(t, 1, stats.Kits)
	assert.Equal(t, 1, stats.KitItems)
}
