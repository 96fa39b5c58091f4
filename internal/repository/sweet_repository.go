package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
	"github.com/shopspring/decimal"
)

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")

	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

// 購入数が在庫を超えているときに返す。呼び出し側は残数をそのまま使える。
type InsufficientStockError struct {
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient quantity. available: %d", e.Available)
}

// 一覧検索
type SweetListQuery struct {
	Page     int
	Limit    int
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// お菓子の永続化（保存・取得・数量調整）だけを約束。
type SweetRepository interface {
	List(ctx context.Context, q SweetListQuery) ([]model.Sweet, int64, error)
	FindByID(ctx context.Context, id int64) (model.Sweet, error)

	Create(ctx context.Context, s model.Sweet) (model.Sweet, error)
	Update(ctx context.Context, s model.Sweet) error
	Delete(ctx context.Context, id int64) error

	// 数量にdeltaを加算する。quantity >= 0 を壊す更新は1行も書かずに失敗する。
	// 同一行への同時実行はストアのトランザクションで直列化される。
	AdjustQuantity(ctx context.Context, id int64, delta int64) (model.Sweet, error)
}
