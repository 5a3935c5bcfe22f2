package main

import (
	"log"
	"net/http"

	"agrofeira/internal/cart"
	"agrofeira/internal/config"
	"agrofeira/internal/domain/model"
	"agrofeira/internal/handler"
	"agrofeira/internal/infra/cartstore"
	"agrofeira/internal/infra/db"
	infraRepo "agrofeira/internal/infra/repository"
	"agrofeira/internal/metrics"
	"agrofeira/internal/notifier"
	"agrofeira/internal/payment"
	"agrofeira/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .envは無くても動く（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.Customer{},
		&model.Category{},
		&model.Product{},
		&model.PickupPoint{},
		&model.DeliveryZone{},
		&model.Order{},
		&model.OrderItem{},
		&model.Notification{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	pickupRepo := infraRepo.NewPickupPointGormRepository(gormDB)
	zoneRepo := infraRepo.NewDeliveryZoneGormRepository(gormDB)
	notificationRepo := infraRepo.NewNotificationGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//カートはredis、無ければインメモリ
	var cartStore cart.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		cartStore = cartstore.NewRedisStore(redis.NewClient(opts))
	} else {
		log.Println("REDIS_URL not set, using in-memory cart store")
		cartStore = cartstore.NewMemoryStore()
	}

	//メールはSendGrid、無ければログ出力
	var mailer notifier.Notifier
	if cfg.SendGridAPIKey != "" {
		mailer = notifier.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		log.Println("SENDGRID_API_KEY not set, emails will be logged only")
		mailer = notifier.NewLogNotifier()
	}

	//決済ゲートウェイ。トークン未設定ならシミュレータで動く
	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayAccessToken)
	webhookVerifier := payment.NewVerifier(cfg.GatewayWebhookSecret, !cfg.IsProd())

	//カード番号の暗号化キー（無ければカード払い不可）
	var tokenizer *payment.Tokenizer
	if cfg.CardEncryptionKey != "" {
		tokenizer, err = payment.NewTokenizer(cfg.CardEncryptionKey)
		if err != nil {
			log.Fatalf("card encryption key: %v", err)
		}
	} else {
		log.Println("CARD_ENCRYPTION_KEY not set, card checkout disabled")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	clock := usecase.RealClock{}

	//Usecase生成
	paymentUC := usecase.NewPaymentUsecase(txManager, orderRepo, customerRepo, gateway, webhookVerifier, mailer, m, clock, cfg.NotificationURL)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, cartStore, paymentUC, tokenizer, m, clock)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo, customerRepo, mailer, clock)
	productUC := usecase.NewProductUsecase(productRepo, clock)
	cartUC := usecase.NewCartUsecase(cartStore, productRepo, clock)
	logisticsUC := usecase.NewLogisticsUsecase(pickupRepo, zoneRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)

	//Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: []string{cfg.FEURL},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Idempotency-Key"},
		}))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	//Handler生成・ルート登録
	handler.NewProductHandler(productUC).RegisterRoutes(e)
	handler.NewLogisticsHandler(logisticsUC).RegisterRoutes(e)
	handler.NewCartHandler(cartUC).RegisterRoutes(e, cfg)
	handler.NewCheckoutHandler(checkoutUC).RegisterRoutes(e, cfg)
	handler.NewOrderHandler(orderUC, paymentUC).RegisterRoutes(e, cfg)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(e, cfg)
	handler.NewNotificationHandler(notificationUC).RegisterRoutes(e, cfg)
	handler.NewWebhookHandler(paymentUC).RegisterRoutes(e)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
