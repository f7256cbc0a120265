package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, l *Loop) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopTicks(t *testing.T) {
	var ticks atomic.Int32
	l := NewLoop(time.Millisecond, func(time.Time) { ticks.Add(1) })
	l.Start(context.Background())

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, time.Millisecond)
	l.Stop()
	waitDone(t, l)

	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after stop")
}

func TestLoopDoRunsOnLoopGoroutine(t *testing.T) {
	// The counter is only touched by tick and Do callbacks; the race detector
	// flags this test if they ever run concurrently.
	counter := 0
	l := NewLoop(time.Millisecond, func(time.Time) { counter++ })
	l.Start(context.Background())

	result := make(chan int, 1)
	require.True(t, l.Do(func() {
		counter += 1000
		result <- counter
	}))
	got := <-result
	assert.GreaterOrEqual(t, got, 1000)

	l.Stop()
	waitDone(t, l)
}

func TestLoopStopExactlyOnce(t *testing.T) {
	var cleanups atomic.Int32
	l := NewLoop(time.Millisecond, func(time.Time) {})
	l.OnStop(func() { cleanups.Add(1) })
	l.Start(context.Background())

	for i := 0; i < 5; i++ {
		go l.Stop()
	}
	l.Stop()
	waitDone(t, l)

	assert.Equal(t, int32(1), cleanups.Load())
	assert.False(t, l.Do(func() { t.Error("work ran after stop") }))
}

func TestLoopContextCancel(t *testing.T) {
	var cleanups atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop(time.Millisecond, func(time.Time) {})
	l.OnStop(func() { cleanups.Add(1) })
	l.Start(ctx)

	cancel()
	waitDone(t, l)
	l.Stop()

	assert.Equal(t, int32(1), cleanups.Load())
}

func TestLoopStopBeforeStart(t *testing.T) {
	var cleanups atomic.Int32
	l := NewLoop(time.Millisecond, func(time.Time) { t.Error("tick after stop") })
	l.OnStop(func() { cleanups.Add(1) })

	l.Stop()
	waitDone(t, l)
	l.Start(context.Background())
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, int32(1), cleanups.Load())
}

func TestLoopStoppingReleasesBlockedWork(t *testing.T) {
	l := NewLoop(time.Millisecond, func(time.Time) {})
	l.Start(context.Background())

	blocked := make(chan struct{})
	never := make(chan struct{})
	require.True(t, l.Do(func() {
		close(blocked)
		select {
		case <-never:
		case <-l.Stopping():
		}
	}))
	<-blocked

	l.Stop()
	waitDone(t, l)

	select {
	case <-l.Stopping():
	default:
		t.Fatal("Stopping not closed after Stop")
	}
}
