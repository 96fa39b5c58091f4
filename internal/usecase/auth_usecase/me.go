package auth

import (
	"context"
	"errors"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"
)

var ErrUnauthorized = errors.New("unauthorized")

// MeUsecaseはログイン中ユーザー自身の情報を返す。
type MeUsecase struct {
	userRepo repository.UserRepository
}

// DI
func NewMeUsecase(userRepo repository.UserRepository) *MeUsecase {
	return &MeUsecase{userRepo: userRepo}
}

func (u *MeUsecase) Execute(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, ErrUnauthorized
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}

	if !user.IsActive {
		return model.User{}, ErrUserInactive
	}

	return *user, nil
}
