package async

import (
	"context"
	"time"
)

// ExecFuture represents an asynchronous computation that only returns an error.
type ExecFuture struct {
	inner *Future[struct{}]
}

// Exec executes fn asynchronously. It shares Async's semantics: pre-canceled
// contexts short-circuit and panics become *PanicError.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	return &ExecFuture{inner: Async(ctx, param, func(ctx context.Context, p T) (struct{}, error) {
		return struct{}{}, fn(ctx, p)
	})}
}

// Await waits for the asynchronous function to complete and returns its error.
func (f *ExecFuture) Await() error {
	_, err := f.inner.Await()
	return err
}

// AwaitWithTimeout waits for completion bounded by timeout; returns ErrTimeout when the timeout wins.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	_, err := f.inner.AwaitWithTimeout(timeout)
	return err
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *ExecFuture) IsComplete() bool {
	return f.inner.IsComplete()
}

// ExecAll waits for every future and returns the first error in order.
// A failing future does not stop the others.
func ExecAll(futures ...*ExecFuture) error {
	inner := make([]*Future[struct{}], len(futures))
	for i, f := range futures {
		inner[i] = f.inner
	}
	_, err := WaitAll(inner...)
	return err
}
