package stream

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrPanic wraps a value recovered from a panicking producer.
var ErrPanic = errors.New("stream: producer panicked")

// State is the lifecycle position of a stream.
type State int32

const (
	Pending State = iota
	Running
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Emit publishes one value. It fails when the value cannot be converted to
// the stream's element type.
type Emit func(cty.Value) error

// Producer generates the values of a stream. Returning a non-nil error fails
// the stream after the values emitted so far.
type Producer func(ctx context.Context, emit Emit) error

// Stream is a cold, multicast, replaying sequence of cty values.
type Stream struct {
	name    string
	ty      cty.Type
	produce Producer

	once sync.Once
	done chan struct{}

	mu    sync.Mutex
	items []cty.Value
	state State
	err   error
	// changed is closed and replaced whenever items or state change.
	changed chan struct{}
}

// New returns a pending stream that will run produce once connected.
func New(name string, ty cty.Type, produce Producer) *Stream {
	return &Stream{
		name:    name,
		ty:      ty,
		produce: produce,
		done:    make(chan struct{}),
		changed: make(chan struct{}),
	}
}

// FromValues returns a stream that emits values in order.
func FromValues(name string, ty cty.Type, values []cty.Value) *Stream {
	vals := make([]cty.Value, len(values))
	copy(vals, values)
	return New(name, ty, func(_ context.Context, emit Emit) error {
		for _, v := range vals {
			if err := emit(v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Stream) Name() string          { return s.name }
func (s *Stream) ElementType() cty.Type { return s.ty }

// Done is closed once production has finished, successfully or not.
func (s *Stream) Done() <-chan struct{} { return s.done }

// State returns the current lifecycle state.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the production error of a failed stream.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns the values emitted so far.
func (s *Stream) Snapshot() []cty.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cty.Value, len(s.items))
	copy(out, s.items)
	return out
}

// Connect starts production on its own goroutine the first time it is
// called and returns the Done channel. ctx is handed to the producer.
func (s *Stream) Connect(ctx context.Context) <-chan struct{} {
	s.once.Do(func() {
		s.mu.Lock()
		s.state = Running
		s.notifyLocked()
		s.mu.Unlock()

		go s.run(ctx)
	})
	return s.done
}

func (s *Stream) run(ctx context.Context) {
	err := s.safeProduce(ctx)

	s.mu.Lock()
	if err != nil {
		s.state = Failed
		s.err = err
	} else {
		s.state = Done
	}
	s.notifyLocked()
	s.mu.Unlock()

	close(s.done)
}

func (s *Stream) safeProduce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return s.produce(ctx, s.emit)
}

func (s *Stream) emit(v cty.Value) error {
	cv, err := convert.Convert(v, s.ty)
	if err != nil {
		return fmt.Errorf("stream %q: cannot emit %s as %s: %w", s.name, v.Type().FriendlyName(), s.ty.FriendlyName(), err)
	}

	s.mu.Lock()
	s.items = append(s.items, cv)
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

func (s *Stream) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// Values replays the stream from its first value and then follows it live.
// A failed stream ends with its error; a cancelled ctx ends the iteration
// with ctx.Err() but does not affect production.
func (s *Stream) Values(ctx context.Context) iter.Seq2[cty.Value, error] {
	return func(yield func(cty.Value, error) bool) {
		for i := 0; ; {
			s.mu.Lock()
			if i < len(s.items) {
				v := s.items[i]
				s.mu.Unlock()
				i++
				if !yield(v, nil) {
					return
				}
				continue
			}
			state, err, changed := s.state, s.err, s.changed
			s.mu.Unlock()

			switch state {
			case Done:
				return
			case Failed:
				yield(cty.NilVal, err)
				return
			}

			select {
			case <-changed:
			case <-ctx.Done():
				yield(cty.NilVal, ctx.Err())
				return
			}
		}
	}
}

// Collect reads every value until the stream terminates.
func (s *Stream) Collect(ctx context.Context) ([]cty.Value, error) {
	var out []cty.Value
	for v, err := range s.Values(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
