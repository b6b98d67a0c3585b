package async

import (
	"context"
	"sync"
)

// Future is the eventual result of a function started with Go.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// Go runs fn on its own goroutine and returns a Future for its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		v, err := fn(ctx)
		f.complete(v, err)
	}()
	return f
}

func (f *Future[T]) complete(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is ready or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then hands the result to fn through dispatch once it is ready. With a
// Loop's Dispatch, fn runs on the loop goroutine. If dispatch refuses the
// task (the loop stopped), fn is dropped.
func (f *Future[T]) Then(dispatch func(func()) bool, fn func(T, error)) {
	go func() {
		<-f.done
		dispatch(func() { fn(f.val, f.err) })
	}()
}
