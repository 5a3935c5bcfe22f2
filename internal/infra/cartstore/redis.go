package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agrofeira/internal/cart"

	"github.com/redis/go-redis/v9"
)

// セッションカートのTTL。アクセスのたびに延長される。
const cartTTL = 24 * time.Hour

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func cartKey(customerID int64) string {
	return fmt.Sprintf("cart:%d", customerID)
}

func (s *RedisStore) Get(ctx context.Context, customerID int64) (cart.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(), nil
	}
	if err != nil {
		return cart.Cart{}, err
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		//壊れたエントリは空扱いにして捨てる
		return cart.New(), nil
	}
	if c.Items == nil {
		c.Items = map[int64]int64{}
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, customerID int64, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(customerID), raw, cartTTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, customerID int64) error {
	return s.client.Del(ctx, cartKey(customerID)).Err()
}
