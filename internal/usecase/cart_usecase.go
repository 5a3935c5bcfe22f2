package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"agrofeira/internal/cart"
	repo "agrofeira/internal/repository"

	"github.com/shopspring/decimal"
)

type CartUsecase struct {
	store    cart.Store
	products repo.ProductRepository
	clock    Clock
}

func NewCartUsecase(store cart.Store, products repo.ProductRepository, clock Clock) *CartUsecase {
	return &CartUsecase{store: store, products: products, clock: clock}
}

type CartItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartOutput struct {
	Items []CartItemOutput `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type AddCartItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (u *CartUsecase) Get(ctx context.Context, customerID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	c, err := u.store.Get(ctx, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	return u.toOutput(ctx, c)
}

// Add は商品をカートへ追加する。同じ商品なら数量を加算。
// その時点の在庫を超える数量は拒否する（最終チェックはチェックアウト側）。
func (u *CartUsecase) Add(ctx context.Context, customerID int64, in AddCartItemInput) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 || in.Quantity <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id or quantity")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}

	c, err := u.store.Get(ctx, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}

	want := decimal.NewFromInt(c.Quantity(in.ProductID) + in.Quantity)
	if want.GreaterThan(p.Stock) {
		return CartOutput{}, NewHTTPError(http.StatusConflict, "insufficient stock")
	}

	c.Add(in.ProductID, in.Quantity)
	if err := u.store.Save(ctx, customerID, c); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	return u.toOutput(ctx, c)
}

// UpdateQuantity は数量を置き換える。0は削除と同じ。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, customerID int64, productID int64, quantity int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 || quantity < 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id or quantity")
	}

	c, err := u.store.Get(ctx, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	if c.Quantity(productID) == 0 {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not in cart")
	}

	if quantity > 0 {
		p, err := u.products.FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if decimal.NewFromInt(quantity).GreaterThan(p.Stock) {
			return CartOutput{}, NewHTTPError(http.StatusConflict, "insufficient stock")
		}
	}

	c.SetQuantity(productID, quantity)
	if err := u.store.Save(ctx, customerID, c); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	return u.toOutput(ctx, c)
}

func (u *CartUsecase) Remove(ctx context.Context, customerID int64, productID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.store.Get(ctx, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	if c.Quantity(productID) == 0 {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "not in cart")
	}

	c.Remove(productID)
	if err := u.store.Save(ctx, customerID, c); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	return u.toOutput(ctx, c)
}

func (u *CartUsecase) Clear(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.store.Clear(ctx, customerID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "cart store error")
	}
	return nil
}

// 価格は表示のたびに現在値を引き直す。確定価格はチェックアウトで決まる。
func (u *CartUsecase) toOutput(ctx context.Context, c cart.Cart) (CartOutput, error) {
	out := CartOutput{Items: []CartItemOutput{}, Total: decimal.Zero}

	ids := make([]int64, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	now := u.clock.Now()
	for _, id := range ids {
		p, err := u.products.FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			// 削除済み商品は表示から落とす
			continue
		}
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		qty := c.Items[id]
		unit := p.CurrentPrice(now)
		sub := unit.Mul(decimal.NewFromInt(qty))
		out.Items = append(out.Items, CartItemOutput{
			ProductID: id,
			Name:      p.Name,
			Unit:      p.Unit,
			UnitPrice: unit,
			Quantity:  qty,
			Subtotal:  sub,
		})
		out.Total = out.Total.Add(sub)
	}
	return out, nil
}
