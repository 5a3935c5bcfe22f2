package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）

	// 決済ゲートウェイ。トークン未設定ならシミュレータで動く。
	GatewayBaseURL       string
	GatewayAccessToken   string
	GatewayWebhookSecret string
	// Webhookの受け口URL（ゲートウェイに渡す）
	NotificationURL string

	RedisURL string // 空ならインメモリのカートになる

	SendGridAPIKey string // 空ならメールはログ出力のみ
	MailFrom       string

	// カード番号暗号化キー（base64の32バイト）。空ならカード払い不可。
	CardEncryptionKey string
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),

		GatewayBaseURL:       os.Getenv("GATEWAY_BASE_URL"),
		GatewayAccessToken:   os.Getenv("GATEWAY_ACCESS_TOKEN"),
		GatewayWebhookSecret: os.Getenv("GATEWAY_WEBHOOK_SECRET"),
		NotificationURL:      os.Getenv("GATEWAY_NOTIFICATION_URL"),

		RedisURL: os.Getenv("REDIS_URL"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       os.Getenv("MAIL_FROM"),

		CardEncryptionKey: os.Getenv("CARD_ENCRYPTION_KEY"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	// 本番では署名なしWebhookを受けない
	if cfg.GoEnv == "prod" && cfg.GatewayWebhookSecret == "" {
		return Config{}, fmt.Errorf("GATEWAY_WEBHOOK_SECRET is required in prod")
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = "no-reply@agrofeira.com.br"
	}

	return cfg, nil
}

// IsProd は本番環境かどうか。
func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}
