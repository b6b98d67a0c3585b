package async

import (
	"context"
	"sync"
)

// Loop runs tasks one at a time on a single goroutine. State touched only
// from loop tasks needs no further locking.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	stop  sync.Once
	after func()
}

// NewLoop creates a loop with room for size queued tasks. after, if not
// nil, runs on the loop goroutine following every task.
func NewLoop(size int, after func()) *Loop {
	return &Loop{
		tasks: make(chan func(), size),
		quit:  make(chan struct{}),
		after: after,
	}
}

// Run processes tasks until ctx ends or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.quit:
			return
		case fn := <-l.tasks:
			fn()
			if l.after != nil {
				l.after()
			}
		}
	}
}

// Dispatch queues fn. It reports false when the loop has stopped.
// Never call it from a loop task with a full queue.
func (l *Loop) Dispatch(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Call runs fn on the loop and waits for it.
func (l *Loop) Call(fn func()) bool {
	done := make(chan struct{})
	if !l.Dispatch(func() {
		defer close(done)
		fn()
	}) {
		return false
	}

	select {
	case <-done:
		return true
	case <-l.quit:
		return false
	}
}

// Stop ends the loop. Queued tasks are discarded.
func (l *Loop) Stop() {
	l.stop.Do(func() { close(l.quit) })
}

// Stopped is closed once the loop has been stopped.
func (l *Loop) Stopped() <-chan struct{} {
	return l.quit
}
