package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/internal/kernel"
	"github.com/kashvishop/storefront/internal/testdb"
	"github.com/kashvishop/storefront/pkg/schedule"
	"github.com/kashvishop/storefront/pkg/session"
	"github.com/kashvishop/storefront/pkg/workerpool"
)

func TestHousekeepingJobs(t *testing.T) {
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("RATE_LIMIT", "100")
	t.Setenv("CATALOG_SYNC", "0 3 * * *")

	db := testdb.Open(t)
	store := session.NewMemoryStore()
	k := kernel.New(db, store)

	pool := workerpool.New("test", 1)
	defer pool.Shutdown()
	s := schedule.New(pool)

	require.NoError(t, Housekeeping(s, db, k, store))
	assert.Equal(t, []string{
		"sessions:evict [every 15m0s]",
		"ratelimit:evict [every 1m0s]",
		"catalog:sync [0 3 * * *]",
	}, s.List())
}

func TestHousekeepingRejectsBadCron(t *testing.T) {
	t.Setenv("CATALOG_SYNC", "every night")

	db := testdb.Open(t)
	store := session.NewMemoryStore()
	s := schedule.New(workerpool.New("test", 1))

	assert.Error(t, Housekeeping(s, db, kernel.New(db, store), store))
}

func TestSessionStoreDefaultsToMemory(t *testing.T) {
	t.Setenv("SESSION_DRIVER", "memory")

	store, closeStore, err := SessionStore(context.Background())
	require.NoError(t, err)
	defer closeStore()

	assert.IsType(t, &session.MemoryStore{}, store)
}

func TestServeStopsWithContext(t *testing.T) {
	t.Setenv("CATALOG_SYNC", "")

	db := testdb.Open(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", db, session.NewMemoryStore())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
