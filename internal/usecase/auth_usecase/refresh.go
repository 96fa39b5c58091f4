package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"
)

// refresh tokenが不正・期限切れ
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// used済みtokenの再利用（replay）。ユーザーの全tokenを落とした。
var ErrRefreshTokenReplayed = errors.New("refresh token replayed")

type RefreshInput struct {
	RefreshTokenPlain string
	UserAgent         string
}

type RefreshOutput struct {
	Token JwtAccessToken `json:"token"`
}

type RefreshSideEffect struct {
	PlainRefreshToken string
}

// RefreshUsecaseはrefresh tokenのrotate処理。
type RefreshUsecase struct {
	userRepo   repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

// DI
func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo:   userRepo,
		rtRepo:     rtRepo,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (RefreshOutput, RefreshSideEffect, error) {
	var out RefreshOutput
	var side RefreshSideEffect

	if in.RefreshTokenPlain == "" {
		return out, side, ErrInvalidRefreshToken
	}

	//DB照合
	rt, err := u.rtRepo.FindByTokenHash(ctx, hashRefreshToken(in.RefreshTokenPlain))
	if err != nil {
		return out, side, err
	}
	if rt == nil {
		return out, side, ErrInvalidRefreshToken
	}

	now := u.clock.Now()

	//期限切れ
	if rt.ExpiresAt.Before(now) {
		_ = u.rtRepo.DeleteByID(ctx, rt.ID)
		return out, side, ErrInvalidRefreshToken
	}

	//revoked
	if rt.RevokedAt != nil {
		return out, side, ErrInvalidRefreshToken
	}

	//used済みが来たらreplay → 全削除
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return out, side, ErrRefreshTokenReplayed
	}

	//user_agent違いは再認証扱い。全削除。
	if in.UserAgent != "" && rt.UserAgent != "" && in.UserAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return out, side, ErrRefreshTokenReplayed
	}

	//user取得
	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, side, ErrInvalidRefreshToken
		}
		return out, side, err
	}
	if !user.IsActive {
		return out, side, ErrUserInactive
	}

	//旧tokenをusedにする。失敗は同時rotate＝replay扱い。
	if err := u.rtRepo.MarkUsed(ctx, rt.ID); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return out, side, ErrRefreshTokenReplayed
	}

	//新tokenを作って保存
	newPlain, err := generateSecureToken(32)
	if err != nil {
		return out, side, err
	}

	newRT := &model.RefreshToken{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashRefreshToken(newPlain),
		UserAgent: in.UserAgent,
		ExpiresAt: now.Add(u.refreshTTL),
		CreatedAt: now,
	}

	if err := u.rtRepo.Create(ctx, newRT); err != nil {
		return out, side, err
	}

	//access再発行
	accessToken, accessExp, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return out, side, err
	}

	out.Token = JwtAccessToken{
		AccessToken:  accessToken,
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}

	side.PlainRefreshToken = newPlain
	return out, side, nil
}
