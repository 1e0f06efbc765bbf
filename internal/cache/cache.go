// Package cache stores serialized solver results in Redis, keyed by the
// normalized request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/njchilds90/gonewton"
	backend "github.com/redis/go-redis/v9"
)

type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for cached results. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a cache backed by a new Redis client.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: "gonewton:result:",
		ttl:    time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key identifies a request. The function is keyed by its canonical form, so
// "2x" and "2*x" share an entry.
func Key(fn gonewton.Function, x0, tolerance float64, p gonewton.Precision) string {
	h := sha256.New()
	h.Write([]byte(fn.Source))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(x0, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(tolerance, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(int(p))))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get returns the stored payload. A miss is (nil, false, nil).
func (c *Cache) Get(ctx context.Context, k string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read from redis: %w", err)
	}
	return val, true, nil
}

// Put stores payload under k.
func (c *Cache) Put(ctx context.Context, k string, payload []byte) error {
	if err := c.client.Set(ctx, c.key(k), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write to redis: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
