package server

import (
	"time"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/config"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/handler"
	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// New はechoを組み立ててルートを登録する。
func New(
	cfg config.Config,
	log *zap.Logger,
	authH *handler.AuthHandler,
	sweetH *handler.SweetHandler,
	userRepo repository.UserRepository,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(requestLogger(log))

	authH.RegisterRoutes(e, cfg, userRepo)
	sweetH.RegisterRoutes(e, cfg, userRepo)

	return e
}

// Start はサーバを起動する。
func Start(e *echo.Echo, addr string) error {
	if addr == "" {
		addr = ":8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}

// 1リクエスト1行のアクセスログ
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			log.Info("request", fields...)
			return nil
		}
	}
}
