package sim

import (
	"context"
	"sync"
	"time"
)

// Loop is the animation task bound to a visualization's mounted lifetime.
// The tick callback and every function queued with Do run on the loop's own
// goroutine, so state they touch needs no locking. Stop ends the task exactly
// once and runs the registered cleanups after the last tick.
type Loop struct {
	interval time.Duration
	tick     func(now time.Time)
	work     chan func()
	stop     chan struct{}
	done     chan struct{}

	mu       sync.Mutex
	started  bool
	cleanups []func()
	stopOnce sync.Once
}

// NewLoop creates a loop that calls tick every interval once started.
func NewLoop(interval time.Duration, tick func(now time.Time)) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{
		interval: interval,
		tick:     tick,
		work:     make(chan func(), 32),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// OnStop registers fn to run once when the loop terminates.
func (l *Loop) OnStop(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleanups = append(l.cleanups, fn)
}

// Start launches the loop. Cancelling ctx stops it. Calling Start more than
// once, or after Stop, has no effect.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.stopped() {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run(ctx)
}

// Do queues fn to run on the loop goroutine. It returns false once the loop
// has stopped, in which case fn is never called.
func (l *Loop) Do(fn func()) bool {
	if l.stopped() {
		return false
	}
	select {
	case l.work <- fn:
		return true
	case <-l.stop:
		return false
	}
}

// Stop terminates the loop. Only the first call has an effect.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)

		l.mu.Lock()
		started := l.started
		l.mu.Unlock()
		if !started {
			l.finish()
		}
	})
}

// Stopping is closed as soon as Stop is called, before cleanups run. Work
// running on the loop goroutine selects on it to avoid blocking shutdown.
func (l *Loop) Stopping() <-chan struct{} {
	return l.stop
}

// Done is closed after the loop goroutine exits and cleanups have run.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(ctx context.Context) {
	defer l.finish()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ctx.Done():
			l.Stop()
			return
		case fn := <-l.work:
			if l.stopped() {
				return
			}
			fn()
		case now := <-ticker.C:
			if l.stopped() {
				return
			}
			l.tick(now)
		}
	}
}

func (l *Loop) finish() {
	l.mu.Lock()
	cleanups := l.cleanups
	l.cleanups = nil
	l.mu.Unlock()

	for _, fn := range cleanups {
		fn()
	}
	close(l.done)
}

func (l *Loop) stopped() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}
