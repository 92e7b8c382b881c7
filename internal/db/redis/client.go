package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/xfind/internal/db"
)

var _ db.Store = (*Store)(nil)

// readyPollInterval is the delay between pings in WaitForReady.
const readyPollInterval = 100 * time.Millisecond

// Config holds connection parameters for the result cache.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// clientOption maps cfg onto rueidis. Client-side caching stays off: cached
// search results already expire through SetWithTTL.
func (cfg Config) clientOption() (rueidis.ClientOption, error) {
	if len(cfg.Addrs) == 0 {
		return rueidis.ClientOption{}, fmt.Errorf("redis: at least one address is required")
	}
	return rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	}, nil
}

// Store is the rueidis-backed cache store.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the cache.
func NewStore(cfg Config) (*Store, error) {
	opt, err := cfg.clientOption()
	if err != nil {
		return nil, err
	}
	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("redis: connect %v: %w", cfg.Addrs, err)
	}
	return newStoreWithClient(client), nil
}

func newStoreWithClient(c rueidis.Client) *Store {
	return &Store{client: c}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings right away and then every readyPollInterval until the
// cache answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.Ping(ctx) == nil {
		return nil
	}
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cache: %w", ctx.Err())
		case <-ticker.C:
			if s.Ping(ctx) == nil {
				return nil
			}
		}
	}
}
