package repository

import (
	"context"

	"agrofeira/internal/domain/model"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (model.Category, error)
	// チェックアウト時にカート内の商品が属するカテゴリをまとめて引く
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Category, error)
}
