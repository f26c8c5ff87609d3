package livefeed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Snapshot is one delivery of a live collection: either a value or a load error.
type Snapshot[T any] struct {
	Value T
	Err   error
}

// LoadFunc reads the current state of a collection.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Stream is a live view of a collection.
//
// Snapshots on C arrive in the order they were loaded. The stream is
// released by Close or by cancelling the context given to Watch; C is
// closed afterwards.
type Stream[T any] struct {
	C <-chan Snapshot[T]

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Watch subscribes to topic and emits an initial snapshot followed by a fresh
// snapshot after every change signal.
func Watch[T any](ctx context.Context, b Broker, topic string, load LoadFunc[T]) (*Stream[T], error) {
	sub, err := b.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	out := make(chan Snapshot[T])
	s := &Stream[T]{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(out)
		defer sub.Close()

		l := zerolog.Ctx(ctx)

		for {
			v, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.Error().Err(err).Str("topic", topic).Msg("live load failed")
			}

			select {
			case out <- Snapshot[T]{Value: v, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-sub.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return s, nil
}

// Close stops the stream and waits until its subscription is released.
func (s *Stream[T]) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}
