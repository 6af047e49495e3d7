// Package redisstore persists the session record in Redis, for headless
// deployments where several workers share one marketplace session. The
// record expires with the configured TTL, bounding how long a refresh
// token can sit unused.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spindo/spindo-client-go/store"
)

const defaultTTL = 30 * 24 * time.Hour

type record struct {
	Tokens store.TokenPair `json:"tokens"`
	User   store.Identity  `json:"user"`
}

// RedisStore is a Redis-backed implementation of store.Store. The whole
// record lives under a single key, so tokens and identity are written and
// cleared atomically.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Option configures a RedisStore.
type Option func(*RedisStore)

// WithTTL overrides the default record TTL.
func WithTTL(ttl time.Duration) Option {
	return func(r *RedisStore) {
		r.ttl = ttl
	}
}

// New creates a RedisStore keyed by key.
func New(client *redis.Client, key string, options ...Option) *RedisStore {
	rs := &RedisStore{
		client: client,
		key:    key,
		ttl:    defaultTTL,
	}
	for _, opt := range options {
		opt(rs)
	}
	return rs
}

var _ store.Store = (*RedisStore)(nil)

// Save overwrites any existing record and resets its TTL.
func (r *RedisStore) Save(ctx context.Context, tokens store.TokenPair, user store.Identity) error {
	data, err := json.Marshal(record{Tokens: tokens, User: user})
	if err != nil {
		return errors.Wrap(err, "[RedisStore.Save] marshal")
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Save] set")
	}
	return nil
}

// Load returns the stored record or store.ErrNoSession. An unparsable or
// incomplete blob is deleted before returning absent.
func (r *RedisStore) Load(ctx context.Context) (store.TokenPair, store.Identity, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.TokenPair{}, store.Identity{}, store.ErrNoSession
		}
		return store.TokenPair{}, store.Identity{}, errors.Wrap(err, "[RedisStore.Load] get")
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = r.Clear(ctx)
		return store.TokenPair{}, store.Identity{}, store.ErrNoSession
	}
	if !rec.Tokens.Complete() || !rec.User.Role.Valid() {
		_ = r.Clear(ctx)
		return store.TokenPair{}, store.Identity{}, store.ErrNoSession
	}
	return rec.Tokens, rec.User, nil
}

// Clear deletes the record. Deleting an absent key is not an error.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Clear] del")
	}
	return nil
}
