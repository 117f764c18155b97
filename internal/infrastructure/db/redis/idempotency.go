package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingValue          = "pending"
)

var errKeyVanished = errors.New("key expired during reservation")

// IdempotencyStore maps client supplied Idempotency-Key values to the order
// they created. Key format: idempotency:order:<scope>
//
// A key holds "pending" while its order is being created and the order id
// once it exists.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SETNX. When another request holds it, orderID is
// the stored order, or 0 while that request is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, int64, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingValue, s.ttl).Result()
	if err != nil {
		return false, 0, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, 0, fmt.Errorf("idempotency reserve: %w", errKeyVanished)
	}
	if err != nil {
		return false, 0, fmt.Errorf("idempotency reserve: %w", err)
	}
	if val == pendingValue {
		return false, 0, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, 0, fmt.Errorf("idempotency reserve: corrupt value %q", val)
	}
	return false, id, nil
}

// Complete points a reserved key at the order it created.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, orderID int64) error {
	if err := s.client.Set(ctx, s.key(key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation so the key can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idempotency:order:" + key
}
