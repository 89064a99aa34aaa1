package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps each user's cart as a JSON blob in Redis with a TTL, so
// abandoned carts expire on their own.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store { return &Store{rdb: rdb, ttl: ttl} }

func key(userID string) string { return fmt.Sprintf("rk:cart:%s", userID) }

// Get returns the user's cart, empty if none is stored.
func (s *Store) Get(ctx context.Context, userID string) (*Cart, error) {
	b, err := s.rdb.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) Save(ctx context.Context, userID string, c *Cart) error {
	b, _ := json.Marshal(c)
	return s.rdb.Set(ctx, key(userID), b, s.ttl).Err()
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}
