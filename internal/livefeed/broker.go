// Package livefeed delivers change notifications for owner-scoped collections
// and turns them into live snapshot streams.
package livefeed

import (
	"context"
	"sync"
)

// Broker fans change signals out to the subscribers of a topic.
type Broker interface {
	// Publish notifies every subscriber of topic that its data changed.
	Publish(ctx context.Context, topic string) error
	// Subscribe registers a listener on topic. The caller owns the returned
	// Subscription and must Close it.
	Subscribe(ctx context.Context, topic string) (*Subscription, error)
	// Close releases broker resources.
	Close() error
}

// Topic names of the live collections.
func WalletsTopic(ownerID string) string     { return "wallets:" + ownerID }
func MovementsTopic(ownerID string) string   { return "movements:" + ownerID }
func InvestmentsTopic(ownerID string) string { return "investments:" + ownerID }
func IdentityTopic(ownerID string) string    { return "identity:" + ownerID }

// Subscription is a handle on a topic listener.
//
// C receives one value per observed change; pending signals are coalesced
// so a slow reader sees at least one signal after the last change.
type Subscription struct {
	C <-chan struct{}

	once    sync.Once
	release func()
}

func newSubscription(c <-chan struct{}, release func()) *Subscription {
	return &Subscription{C: c, release: release}
}

// Close releases the listener. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.release)
}

// notify performs a non-blocking send, dropping the signal if one is pending.
func notify(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}
