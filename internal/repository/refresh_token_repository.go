package repository

import (
	"context"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, rt *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)

	// 使用済みにする（rotate時）
	MarkUsed(ctx context.Context, id string) error

	DeleteByID(ctx context.Context, id string) error

	// replay検知時の全削除
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
