package main

import (
	"fmt"
	"log"
	"os"

	"agrofeira/internal/config"
	"agrofeira/internal/infra/db"
	infraRepo "agrofeira/internal/infra/repository"
	"agrofeira/internal/metrics"
	"agrofeira/internal/notifier"
	"agrofeira/internal/payment"
	"agrofeira/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// cronから叩く運用ジョブ。APIサーバと同じ設定を読む。
func main() {
	root := &cobra.Command{
		Use:          "jobs",
		Short:        "AgroFeira maintenance jobs",
		SilenceUsage: true,
	}

	root.AddCommand(expirePixCmd())
	root.AddCommand(reconcilePaymentsCmd())
	root.AddCommand(genEncryptionKeyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildPaymentUsecase() (*usecase.PaymentUsecase, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	gormDB, err := db.Connect()
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	txManager := infraRepo.NewTxManagerGorm(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)

	var mailer notifier.Notifier
	if cfg.SendGridAPIKey != "" {
		mailer = notifier.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		mailer = notifier.NewLogNotifier()
	}

	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayAccessToken)
	verifier := payment.NewVerifier(cfg.GatewayWebhookSecret, !cfg.IsProd())
	m := metrics.New(prometheus.NewRegistry())

	return usecase.NewPaymentUsecase(txManager, orderRepo, customerRepo, gateway, verifier, mailer, m, usecase.RealClock{}, cfg.NotificationURL), nil
}

// 期限切れPIX注文のキャンセルと在庫戻し
func expirePixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-pix",
		Short: "Cancel PIX orders whose payment window has expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildPaymentUsecase()
			if err != nil {
				return err
			}
			n, err := uc.ExpirePix(cmd.Context())
			if err != nil {
				return err
			}
			log.Printf("expire-pix: cancelled %d orders", n)
			return nil
		},
	}
}

// Webhookを取り逃した支払いのゲートウェイ照会
func reconcilePaymentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-payments",
		Short: "Poll the gateway for pending payments and apply their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildPaymentUsecase()
			if err != nil {
				return err
			}
			n, err := uc.PollPending(cmd.Context())
			if err != nil {
				return err
			}
			log.Printf("reconcile-payments: updated %d orders", n)
			return nil
		},
	}
}

// CARD_ENCRYPTION_KEY用の鍵を生成して表示する
func genEncryptionKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-encryption-key",
		Short: "Generate a base64 key for CARD_ENCRYPTION_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := payment.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Println(key)
			return nil
		},
	}
}
