package livefeed

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisChannelPrefix = "petwallet:"

// RedisBroker fans change signals out across instances with Redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker connects to the Redis server at url.
func NewRedisBroker(ctx context.Context, url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis broker: invalid URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis broker: connection failed: %w", err)
	}

	return &RedisBroker{client: client}, nil
}

// Publish implements Broker.
func (b *RedisBroker) Publish(ctx context.Context, topic string) error {
	if err := b.client.Publish(ctx, redisChannelPrefix+topic, "changed").Err(); err != nil {
		return fmt.Errorf("redis broker: publish failed: %w", err)
	}

	return nil
}

// Subscribe implements Broker.
func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	l := zerolog.Ctx(ctx)

	ps := b.client.Subscribe(ctx, redisChannelPrefix+topic)

	// Wait for the subscription confirmation so no publish is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis broker: subscribe failed: %w", err)
	}

	c := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		msgs := ps.Channel()

		for {
			select {
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				notify(c)
			}
		}
	}()

	release := func() {
		close(done)

		if err := ps.Close(); err != nil {
			l.Error().Err(err).Str("topic", topic).Msg("redis broker: unsubscribe failed")
		}
	}

	return newSubscription(c, release), nil
}

// Close implements Broker.
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
