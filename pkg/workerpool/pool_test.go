package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvishop/storefront/pkg/workerpool"
)

func TestPoolRunsEveryJob(t *testing.T) {
	pool := workerpool.New("test", 4)

	var (
		count atomic.Int64
		wg    sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
		wg.Wait()
	}

	pool.Shutdown()
	assert.EqualValues(t, 8, count.Load())
}

func TestPoolFull(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	// One worker busy, queue of two.
	require.NoError(t, pool.Submit(func() {}))
	require.NoError(t, pool.Submit(func() {}))
	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolFull)

	close(release)
}

func TestPoolSurvivesPanic(t *testing.T) {
	pool := workerpool.New("test", 1)

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func() { panic("boom") }))
	require.NoError(t, pool.Submit(func() { close(done) }))
	<-done

	pool.Shutdown()
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New("test", 2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), workerpool.ErrPoolClosed)
}
