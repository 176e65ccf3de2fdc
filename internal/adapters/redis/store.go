package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/tap-socrata/pkg/ports"
	"github.com/aretw0/tap-socrata/pkg/singer"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.StateStore using Redis. It is the bookmark mirror
// for unattended runs: state survives the process without an orchestrator
// capturing STATE messages from stdout.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for persisted state.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for state entries.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "tap-socrata:state:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(runID string) string {
	return s.prefix + runID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the state to Redis.
func (s *Store) Save(ctx context.Context, runID string, state *singer.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	pipe := s.client.Pipeline()

	// 1. Save JSON with TTL (0 = no expiration).
	pipe.Set(ctx, s.key(runID), data, s.ttl)

	// 2. Add to index (ZSET). Score = expiry unix time; far-future when no TTL.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: runID,
	})

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the state from Redis.
func (s *Store) Load(ctx context.Context, runID string) (*singer.State, error) {
	val, err := s.client.Get(ctx, s.key(runID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, ports.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state singer.State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return &state, nil
}

// Delete removes the state for a run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(runID))
	pipe.ZRem(ctx, s.indexKey(), runID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns run IDs with persisted state, lazily pruning expired entries
// from the index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	// ZREMRANGEBYSCORE key -inf (now). With no TTL everything scores in 2100
	// and nothing is pruned.
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired state entries: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list state entries: %w", err)
	}

	return runs, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
