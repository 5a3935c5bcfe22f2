package cart

import "context"

// Cart はセッションが所有する値オブジェクト。
// productID → 数量のマップで、DBには永続化しない。
type Cart struct {
	Items map[int64]int64 `json:"items"`
}

func New() Cart {
	return Cart{Items: map[int64]int64{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add は同一商品なら数量を加算する。
func (c *Cart) Add(productID int64, qty int64) {
	if c.Items == nil {
		c.Items = map[int64]int64{}
	}
	c.Items[productID] += qty
}

// SetQuantity は数量を置き換える。0以下は削除扱い。
func (c *Cart) SetQuantity(productID int64, qty int64) {
	if c.Items == nil {
		c.Items = map[int64]int64{}
	}
	if qty <= 0 {
		delete(c.Items, productID)
		return
	}
	c.Items[productID] = qty
}

func (c *Cart) Remove(productID int64) {
	delete(c.Items, productID)
}

func (c Cart) Quantity(productID int64) int64 {
	return c.Items[productID]
}

// Store はセッションカートの保管先。
// redis実装とインメモリ実装がある（infra/cartstore）。
type Store interface {
	//カートが無ければ空のカートを返す
	Get(ctx context.Context, customerID int64) (Cart, error)
	Save(ctx context.Context, customerID int64, c Cart) error
	Clear(ctx context.Context, customerID int64) error
}
