package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	cfg := Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	}
	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestNewRepositories(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repos := setupTestDB(t)
		require.NoError(t, repos.Ping(context.Background()))
		assert.NotNil(t, repos.Run)

		var count int
		err := repos.DB.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='runs'")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("file, schema applied twice", func(t *testing.T) {
		dsn := filepath.Join(t.TempDir(), "history.db")
		for range 2 {
			repos, err := NewRepositories(context.Background(), Config{DSN: dsn})
			require.NoError(t, err)
			require.NoError(t, repos.Ping(context.Background()))
			require.NoError(t, repos.Close())
		}
	})

	t.Run("empty dsn", func(t *testing.T) {
		_, err := NewRepositories(context.Background(), Config{})
		require.Error(t, err)
	})
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{assert.AnError, false},
		{&criticalError{err: assert.AnError}, false},
		{errString("database is locked (5) (SQLITE_BUSY)"), true},
		{errString("database table is locked"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isLockError(tt.err), "%v", tt.err)
	}
}

func TestCriticalError(t *testing.T) {
	err := &criticalError{err: assert.AnError}
	assert.ErrorIs(t, err, errCritical)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, assert.AnError.Error(), err.Error())
}

type errString string

func (e errString) Error() string { return string(e) }
