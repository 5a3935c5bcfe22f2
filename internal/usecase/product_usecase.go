package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"agrofeira/internal/domain/model"
	repo "agrofeira/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	products repo.ProductRepository
	clock    Clock
}

func NewProductUsecase(products repo.ProductRepository, clock Clock) *ProductUsecase {
	return &ProductUsecase{products: products, clock: clock}
}

type ProductOutput struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	// プロモ期間中は現在価格がpriceより安くなる
	CurrentPrice decimal.Decimal `json:"current_price"`
	PromoEnd     *time.Time      `json:"promo_end,omitempty"`
	Stock        decimal.Decimal `json:"stock"`
	Unit         string          `json:"unit"`
	CategoryID   int64           `json:"category_id"`
	ProducerID   int64           `json:"producer_id"`
}

type ProductListOutput struct {
	Products []ProductOutput `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

func (u *ProductUsecase) toOutput(p model.Product, now time.Time) ProductOutput {
	out := ProductOutput{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CurrentPrice: p.CurrentPrice(now),
		Stock:        p.Stock,
		Unit:         p.Unit,
		CategoryID:   p.CategoryID,
		ProducerID:   p.ProducerID,
	}
	if p.PromoPrice != nil && !out.CurrentPrice.Equal(p.Price) {
		out.PromoEnd = p.PromoEnd
	}
	return out
}

// 公開カタログ。非公開・削除済みの商品は含まれない。
func (u *ProductUsecase) List(ctx context.Context, q repo.ProductListQuery) (ProductListOutput, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	products, total, err := u.products.ListPublic(ctx, q)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	out := ProductListOutput{Products: make([]ProductOutput, 0, len(products)), Total: total, Page: q.Page, Limit: q.Limit}
	for _, p := range products {
		out.Products = append(out.Products, u.toOutput(p, now))
	}
	return out, nil
}

func (u *ProductUsecase) Detail(ctx context.Context, id int64) (ProductOutput, error) {
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return u.toOutput(p, u.clock.Now()), nil
}
