package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollentracker/pollentracker/internal/kv"
)

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	require.NoError(t, store.Set(ctx, "slot", "value"))

	got, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestMemory_GetMissing(t *testing.T) {
	store := kv.NewMemory()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestMemory_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	require.NoError(t, store.Set(ctx, "slot", "first"))
	require.NoError(t, store.Set(ctx, "slot", "second"))

	got, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	require.NoError(t, store.Set(ctx, "slot", "value"))
	require.NoError(t, store.Delete(ctx, "slot"))

	_, err := store.Get(ctx, "slot")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestMemory_DeleteMissingIsNoop(t *testing.T) {
	store := kv.NewMemory()
	assert.NoError(t, store.Delete(context.Background(), "missing"))
}
