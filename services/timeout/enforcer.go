package timeout

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/rs/zerolog/log"
)

// Enforcer races operations against a deadline.
//
// An operation that loses the race keeps running: its context is left alone
// unless WithCancelOnTimeout is set, and whatever it eventually returns is
// dropped. Callers holding connections or locks inside op should opt in to
// cancellation.
type Enforcer struct {
	clock          clock.Clock
	cancelOnExpiry bool
}

type Option func(*Enforcer)

func WithClock(c clock.Clock) Option {
	return func(e *Enforcer) {
		e.clock = c
	}
}

// WithCancelOnTimeout cancels the operation's context when the deadline fires.
func WithCancelOnTimeout() Option {
	return func(e *Enforcer) {
		e.cancelOnExpiry = true
	}
}

func NewEnforcer(opts ...Option) *Enforcer {
	e := &Enforcer{clock: clock.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type outcome[T any] struct {
	value T
	err   error
}

// Future is the caller-visible side of a started operation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Done is closed once the operation or the deadline has won.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Start arms the deadline before returning, then runs op in its own goroutine.
func Start[T any](ctx context.Context, e *Enforcer, d time.Duration, op func(context.Context) (T, error)) *Future[T] {
	timer := e.clock.Timer(d)

	opCtx, cancel := ctx, context.CancelFunc(func() {})
	if e.cancelOnExpiry {
		opCtx, cancel = context.WithCancel(ctx)
	}

	results := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- outcome[T]{err: fmt.Errorf("operation panicked: %v", r)}
			}
		}()
		v, err := op(opCtx)
		results <- outcome[T]{value: v, err: err}
	}()

	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)

		select {
		case out := <-results:
			timer.Stop()
			cancel()
			f.value, f.err = out.value, out.err
		case <-timer.C:
			cancel()
			f.err = &Error{Duration: d}
			go discardLate(results, d)
		}
	}()

	return f
}

// Do is Start followed by Wait.
func Do[T any](ctx context.Context, e *Enforcer, d time.Duration, op func(context.Context) (T, error)) (T, error) {
	return Start(ctx, e, d, op).Wait()
}

func discardLate[T any](results <-chan outcome[T], d time.Duration) {
	out := <-results
	if out.err != nil {
		log.Warn().Err(out.err).Dur("deadline", d).Msg("Operation failed after its deadline had already fired")
	}
}
