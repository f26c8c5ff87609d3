package livefeed

import (
	"context"
	"errors"
	"sync"
)

// ErrBrokerClosed is returned when using a closed broker.
var ErrBrokerClosed = errors.New("broker closed")

// MemoryBroker is an in-process Broker.
type MemoryBroker struct {
	mu     sync.Mutex
	topics map[string]map[chan struct{}]struct{}
	closed bool
}

// NewMemoryBroker returns an empty MemoryBroker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[string]map[chan struct{}]struct{}),
	}
}

// Publish implements Broker.
func (b *MemoryBroker) Publish(_ context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}

	for c := range b.topics[topic] {
		notify(c)
	}

	return nil
}

// Subscribe implements Broker.
func (b *MemoryBroker) Subscribe(_ context.Context, topic string) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}

	c := make(chan struct{}, 1)

	listeners, ok := b.topics[topic]
	if !ok {
		listeners = make(map[chan struct{}]struct{})
		b.topics[topic] = listeners
	}
	listeners[c] = struct{}{}

	release := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		delete(b.topics[topic], c)
		if len(b.topics[topic]) == 0 {
			delete(b.topics, topic)
		}
	}

	return newSubscription(c, release), nil
}

// Subscribers returns the number of live subscriptions on topic.
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.topics[topic])
}

// Close implements Broker.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.topics = make(map[string]map[chan struct{}]struct{})

	return nil
}
