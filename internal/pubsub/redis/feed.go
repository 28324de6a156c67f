// Package redis implements the per-owner change feed over Redis pub/sub so
// that every server replica sees changes made by any other.
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"solarhub/internal/config"
	"solarhub/internal/domain"
	"solarhub/internal/port"
)

const channelPrefix = "solarhub:applications:owner:"

// Channel returns the pub/sub channel for ownerID.
func Channel(ownerID uuid.UUID) string {
	return channelPrefix + ownerID.String()
}

// NewClient creates a Redis client from configuration.
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

type feed struct {
	client *redis.Client
}

// NewFeed creates a Redis-backed ChangeFeed.
func NewFeed(client *redis.Client) port.ChangeFeed {
	return &feed{client: client}
}

func (f *feed) Publish(ctx context.Context, ownerID uuid.UUID) error {
	if err := f.client.Publish(ctx, Channel(ownerID), time.Now().UTC().Format(time.RFC3339Nano)).Err(); err != nil {
		return fmt.Errorf("redisFeed.Publish: %w: %w", domain.ErrTransientIO, err)
	}
	return nil
}

func (f *feed) Subscribe(ctx context.Context, ownerID uuid.UUID) (port.FeedSubscription, error) {
	ps := f.client.Subscribe(ctx, Channel(ownerID))
	// Wait for the subscribe confirmation so no publish after return is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redisFeed.Subscribe: %w: %w", domain.ErrTransientIO, err)
	}

	s := &subscription{ps: ps, out: make(chan struct{}, 1)}
	go s.pump()
	return s, nil
}

type subscription struct {
	ps   *redis.PubSub
	out  chan struct{}
	once sync.Once
}

func (s *subscription) pump() {
	defer close(s.out)
	for range s.ps.Channel() {
		// Coalesce bursts: a pending signal already means "re-query".
		select {
		case s.out <- struct{}{}:
		default:
		}
	}
}

func (s *subscription) C() <-chan struct{} { return s.out }

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() { err = s.ps.Close() })
	return err
}
