package dag

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// Future resolves once when the work it tracks has finished.
type Future struct {
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func resolvedFuture(err error) *Future {
	f := newFuture()
	f.resolve(err)
	return f
}

func (f *Future) resolve(err error) {
	f.err = err
	close(f.done)
}

// Done is closed when the future resolves.
func (f *Future) Done() <-chan struct{} { return f.done }

// Err returns the failure of a resolved future, or nil while it is pending.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the future resolves or ctx is done. Cancelling ctx stops
// the wait only.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// all resolves when every future has resolved, failing with the joined
// errors of those that failed.
func all(futures []*Future) *Future {
	agg := newFuture()
	go func() {
		p := pool.New().WithErrors()
		for _, f := range futures {
			p.Go(func() error {
				<-f.Done()
				return f.Err()
			})
		}
		agg.resolve(p.Wait())
	}()
	return agg
}
