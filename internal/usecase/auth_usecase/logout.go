package auth

import (
	"context"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"
)

// LogoutUsecaseは提示されたrefresh tokenを失効させる。
type LogoutUsecase struct {
	rtRepo repository.RefreshTokenRepository
}

// DI
func NewLogoutUsecase(rtRepo repository.RefreshTokenRepository) *LogoutUsecase {
	return &LogoutUsecase{rtRepo: rtRepo}
}

func (u *LogoutUsecase) Execute(ctx context.Context, refreshTokenPlain string) error {
	if refreshTokenPlain == "" {
		return ErrInvalidRefreshToken
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashRefreshToken(refreshTokenPlain))
	if err != nil {
		return err
	}
	if rt == nil {
		return ErrInvalidRefreshToken
	}

	//refreshを削除（失効）
	return u.rtRepo.DeleteByID(ctx, rt.ID)
}
