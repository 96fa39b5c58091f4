package repository

import (
	"context"
	"errors"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error

	// token_versionを+1する（強制ログアウト用）
	IncrementTokenVersion(ctx context.Context, id int64) error
}
