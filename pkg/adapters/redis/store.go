// Package redis provides a ports.TreeStore backed by Redis, for hosts that
// share tree documents between processes or survive restarts.
package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/canopy/pkg/domain"
)

// Store implements ports.TreeStore using Redis. Documents live under
// prefixed string keys; a set key indexes the stored names.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets an expiration for stored documents.
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

// New creates a store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "canopy:tree:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the document and indexes its name in one pipeline.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save tree %q to redis: %w", name, err)
	}
	return nil
}

// Load retrieves the document.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("tree %q: %w", name, domain.ErrTreeNotFound)
		}
		return nil, fmt.Errorf("load tree %q from redis: %w", name, err)
	}
	return val, nil
}

// Delete removes the document and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.SRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete tree %q from redis: %w", name, err)
	}
	return nil
}

// List returns indexed names, lazily pruning entries whose document expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list trees from redis: %w", err)
	}

	var alive []string
	for _, name := range names {
		exists, err := s.client.Exists(ctx, s.key(name)).Result()
		if err != nil {
			return nil, fmt.Errorf("list trees from redis: %w", err)
		}
		if exists == 0 {
			_ = s.client.SRem(ctx, s.indexKey(), name).Err()
			continue
		}
		alive = append(alive, name)
	}
	return alive, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
