package database

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	db, err := New("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVRepository_GetMissingKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepository(db.Conn(), zerolog.Nop())

	value, err := repo.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestKVRepository_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepository(db.Conn(), zerolog.Nop())

	require.NoError(t, repo.Set("holdings", `{"BTC":{"amount":2}}`))

	value, err := repo.Get("holdings")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, `{"BTC":{"amount":2}}`, *value)
}

func TestKVRepository_SetReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepository(db.Conn(), zerolog.Nop())

	require.NoError(t, repo.Set("holdings", "first"))
	require.NoError(t, repo.Set("holdings", "second"))

	value, err := repo.Get("holdings")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "second", *value)
}
