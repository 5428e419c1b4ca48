package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bakery-service/cart"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CartStore persists session carts and the checkout guards that go with them.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Save(ctx context.Context, sessionID string, c *cart.Cart) error
	Delete(ctx context.Context, sessionID string) error

	// AcquireCheckoutLock reports false when another holder has the session
	// lock. The returned token must be handed back to ReleaseCheckoutLock.
	AcquireCheckoutLock(ctx context.Context, sessionID string) (token string, acquired bool, err error)
	// ReleaseCheckoutLock is a no-op when the lock expired and was taken by
	// someone else.
	ReleaseCheckoutLock(ctx context.Context, sessionID, token string) error

	// Idempotency keys are scoped to the session that recorded them.
	// GetIdempotency returns "" when the key is unknown.
	GetIdempotency(ctx context.Context, sessionID, key string) (string, error)
	SetIdempotency(ctx context.Context, sessionID, key, orderID string) error
}

// CartStoreTTLs groups the expirations used by RedisCartStore.
type CartStoreTTLs struct {
	Cart        time.Duration
	Lock        time.Duration
	Idempotency time.Duration
}

type RedisCartStore struct {
	client *redis.Client
	ttl    CartStoreTTLs
}

func NewRedisCartStore(client *redis.Client, ttl CartStoreTTLs) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string { return "cart:session:" + sessionID }
func lockKey(sessionID string) string { return "lock:checkout:" + sessionID }
func idemKey(sessionID, key string) string {
	return "idem:checkout:" + sessionID + ":" + key
}

// releaseLock deletes the lock only while it still holds the caller's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Load returns an empty cart when the session has none.
func (r *RedisCartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var snap cart.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart.Restore(snap), nil
}

// Save writes the cart and refreshes its TTL. An empty cart deletes the key.
func (r *RedisCartStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if c.IsEmpty() {
		return r.Delete(ctx, sessionID)
	}
	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(sessionID), data, r.ttl.Cart).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (r *RedisCartStore) AcquireCheckoutLock(ctx context.Context, sessionID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, lockKey(sessionID), token, r.ttl.Lock).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire checkout lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (r *RedisCartStore) ReleaseCheckoutLock(ctx context.Context, sessionID, token string) error {
	if err := releaseLock.Run(ctx, r.client, []string{lockKey(sessionID)}, token).Err(); err != nil {
		return fmt.Errorf("release checkout lock: %w", err)
	}
	return nil
}

func (r *RedisCartStore) GetIdempotency(ctx context.Context, sessionID, key string) (string, error) {
	val, err := r.client.Get(ctx, idemKey(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisCartStore) SetIdempotency(ctx context.Context, sessionID, key, orderID string) error {
	return r.client.Set(ctx, idemKey(sessionID, key), orderID, r.ttl.Idempotency).Err()
}
