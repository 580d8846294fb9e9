package tui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivalero/montaje/internal/config"
	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/store"
)

func openTestModel(t *testing.T) Model {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "montaje.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	for _, code := range []string{"PCB-100", "ENC-10"} {
		require.NoError(t, s.AddProduct(ctx, &model.Product{
			Code:           code,
			Description:    "Sample " + code,
			Department:     model.DeptElectronics,
			WorkerType:     1,
			OptimalMinutes: 30,
		}))
	}

	m := New(config.DefaultConfig(), s, nil)
	updated, _ := m.Update(loadCatalogueMsg{})
	return updated.(Model)
}

func TestModel_DeleteRefreshesList(t *testing.T) {
	m := openTestModel(t)
	require.Len(t, m.list.Items(), 2)

	// Delete reports success and the row leaves the list without
	// waiting for a file watcher event.
	target := m.list.Items()[1].(productItem)
	msg := m.deleteItem(target)()
	deleted, ok := msg.(itemDeletedMsg)
	require.True(t, ok, "unexpected message %T: %v", msg, msg)
	assert.Contains(t, deleted.text, target.product.Code)

	updated, _ := m.Update(msg)
	m = updated.(Model)
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "ENC-10", m.list.Items()[0].(productItem).product.Code)

	// The row is gone from the database too.
	_, err := m.store.GetProduct(context.Background(), target.product.Code)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestModel_DeleteFailureKeepsList(t *testing.T) {
	m := openTestModel(t)

	// Deleting a vanished row surfaces an error status.
	msg := m.deleteItem(productItem{product: model.Product{Code: "NOPE"}})()
	status, ok := msg.(statusMsg)
	require.True(t, ok, "unexpected message %T: %v", msg, msg)
	assert.True(t, status.isErr)
	assert.Len(t, m.list.Items(), 2)
}
