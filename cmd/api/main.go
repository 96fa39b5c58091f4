package main

import (
	"context"
	"errors"
	"time"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/config"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/handler"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/infra/db"
	infraRepo "github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/infra/repository"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/logging"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/server"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/usecase"
	auth "github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

//アクセストークン

func (i *jwtIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envはあれば読む（prodは環境変数そのもの）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logging.Sync(log)

	//DB接続
	gormDB, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Sweet{},
	); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	sweetRepo := infraRepo.NewSweetGormRepository(gormDB)

	// ADMIN_EMAILが設定されていれば、該当ユーザーをADMINへ昇格
	if cfg.AdminEmail != "" {
		if err := promoteAdmin(userRepo, cfg.AdminEmail); err != nil {
			log.Warn("admin bootstrap skipped", zap.String("email", cfg.AdminEmail), zap.Error(err))
		}
	}

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, refreshTTL)
	logoutUC := auth.NewLogoutUsecase(rtRepo)
	meUC := auth.NewMeUsecase(userRepo)
	sweetUC := usecase.NewSweetUsecase(sweetRepo)

	//Handler生成
	cookieSecure := cfg.GoEnv != "dev"
	authH := handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, meUC, refreshTTL, cookieSecure)
	sweetH := handler.NewSweetHandler(sweetUC)

	//Server起動
	e := server.New(cfg, log, authH, sweetH, userRepo)

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// 起動時のADMIN昇格。ユーザーが未登録ならなにもしない。
func promoteAdmin(userRepo repository.UserRepository, email string) error {
	ctx := context.Background()

	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if user.Role == model.RoleAdmin {
		return nil
	}

	user.Role = model.RoleAdmin
	if err := userRepo.Update(ctx, user); err != nil {
		return err
	}

	//昇格前に発行したtokenは旧roleのまま。token_versionを上げて失効させる。
	return userRepo.IncrementTokenVersion(ctx, user.ID)
}
