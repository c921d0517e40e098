package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/praetorian-inc/rewrite/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_RunsAllTasks(t *testing.T) {
	p := New(4)
	defer p.Shutdown()

	var n atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			n.Add(1)
		}))
	}
	wg.Wait()
	assert.EqualValues(t, 100, n.Load())
}

func TestSubmitWithCallback_ContinuationReceivesResult(t *testing.T) {
	p := New(2)
	defer p.Shutdown()

	done := make(chan int, 1)
	err := p.SubmitWithCallback(func() any {
		return 42
	}, func(v any) {
		done <- v.(int)
	})
	require.NoError(t, err)

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("continuation never ran")
	}
}

func TestSubmit_PanicDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	require.NoError(t, p.Submit(func() {
		defer wg.Done()
		ran = true
	}))
	wg.Wait()
	assert.True(t, ran)
}

func TestShutdown_DrainsQueueBeforeExiting(t *testing.T) {
	p := New(2)
	var n atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			n.Add(1)
		}))
	}
	p.Shutdown()
	wg.Wait()
	assert.EqualValues(t, 20, n.Load())
}

func TestSubmit_AfterShutdownFails(t *testing.T) {
	p := New(1)
	p.Shutdown()
	err := p.Submit(func() {})
	assert.ErrorIs(t, err, types.ErrPoolShutdown)
}

func TestScale_GrowsWorkerCount(t *testing.T) {
	p := New(1)
	defer p.Shutdown()
	p.Scale(4)

	release := make(chan struct{})
	var started atomic.Int64
	for i := 0; i < 4; i++ {
		require.NoError(t, p.Submit(func() {
			started.Add(1)
			<-release
		}))
	}
	// Give the workers a moment to pick up their tasks.
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 4, started.Load())
	close(release)
}

func TestIdleCount_ReflectsFreeWorkers(t *testing.T) {
	p := New(3)
	defer p.Shutdown()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, p.HasIdle())
	assert.Equal(t, 3, p.IdleCount())
}
