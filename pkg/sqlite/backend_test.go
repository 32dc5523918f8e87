package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestNewBackend(t *testing.T) {
	store := NewBackend(nil)
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer store.Detach()

	task := &types.Task{TenantID: "acme", Title: "embedded", ProjectID: "p1"}
	task.ApplyDefaults()
	require.NoError(t, store.Update(context.Background(), func(tx types.Tx) error {
		return tx.InsertTask(task)
	}))

	err := store.View(context.Background(), func(tx types.Tx) error {
		got, err := tx.GetTask("acme", task.TaskID)
		if err != nil {
			return err
		}
		assert.Equal(t, "embedded", got.Title)
		return nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}), types.ErrAlreadyAttached)
}
