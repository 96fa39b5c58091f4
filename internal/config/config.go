package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL string // DSN（あれば個別のPOSTGRES_*より優先）

	JWTSecret string // JWT署名シークレット

	GoEnv      string // dev/prod
	LogLevel   string // debug/info/warn/error
	AdminEmail string // 起動時にADMINへ昇格するemail（任意）
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		GoEnv:       os.Getenv("GO_ENV"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		AdminEmail:  os.Getenv("ADMIN_EMAIL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.GoEnv == "" {
		cfg.GoEnv = "dev"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
