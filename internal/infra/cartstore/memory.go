package cartstore

import (
	"context"
	"sync"

	"agrofeira/internal/cart"
)

// 開発・テスト用のインメモリ実装。プロセス再起動で消える。
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[int64]cart.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[int64]cart.Cart{}}
}

func (s *MemoryStore) Get(ctx context.Context, customerID int64) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[customerID]
	if !ok {
		return cart.New(), nil
	}

	//呼び出し側の変更が内部状態に漏れないようコピーを返す
	cp := cart.New()
	for id, qty := range c.Items {
		cp.Items[id] = qty
	}
	return cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, customerID int64, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cart.New()
	for id, qty := range c.Items {
		cp.Items[id] = qty
	}
	s.carts[customerID] = cp
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, customerID)
	return nil
}
