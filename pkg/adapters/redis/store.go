package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/colloquy/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the adapter writes.
const DefaultPrefix = "colloquy:suspension:"

// noExpiry is the index score of snapshots without a TTL (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.SuspensionStore using Redis. Snapshots are JSON
// values; a sorted set scored by expiry time indexes them for List.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration of saved snapshots. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock overrides the clock used to score the index.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Redis store connected to address.
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(executionID string) string {
	return s.prefix + executionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the snapshot and indexes it in a single pipeline.
func (s *Store) Save(ctx context.Context, snap *domain.Suspension) error {
	if snap == nil || snap.ExecutionID == "" {
		return errors.New("suspension must have an execution id")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal suspension: %w", err)
	}

	score := float64(noExpiry)
	if s.ttl > 0 {
		score = float64(s.now().Add(s.ttl).Unix())
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(snap.ExecutionID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: snap.ExecutionID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load reads a snapshot back. A snapshot whose TTL elapsed while still
// indexed yields domain.ErrSuspensionExpired once, then is forgotten.
func (s *Store) Load(ctx context.Context, executionID string) (*domain.Suspension, error) {
	val, err := s.client.Get(ctx, s.key(executionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, s.missing(ctx, executionID)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	var snap domain.Suspension
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suspension: %w", err)
	}
	return &snap, nil
}

// missing tells an expired snapshot apart from one that never existed.
func (s *Store) missing(ctx context.Context, executionID string) error {
	score, err := s.client.ZScore(ctx, s.indexKey(), executionID).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.ErrSuspensionNotFound
		}
		return fmt.Errorf("failed to read suspension index: %w", err)
	}
	if int64(score) > s.now().Unix() {
		return domain.ErrSuspensionNotFound
	}
	if err := s.client.ZRem(ctx, s.indexKey(), executionID).Err(); err != nil {
		return fmt.Errorf("failed to prune expired suspension: %w", err)
	}
	return fmt.Errorf("suspension %s: %w", executionID, domain.ErrSuspensionExpired)
}

// Delete removes a snapshot and its index entry.
func (s *Store) Delete(ctx context.Context, executionID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(executionID))
	pipe.ZRem(ctx, s.indexKey(), executionID)
	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries, then returns the remaining ids ordered
// by expiry.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired suspensions: %w", err)
	}
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list suspensions: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
