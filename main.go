package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery-service/controllers"
	"bakery-service/database"
	"bakery-service/kafka"
	"bakery-service/logger"
	"bakery-service/middleware"
	awspkg "bakery-service/pkg/aws"
	"bakery-service/repository"
	"bakery-service/routes"
	"bakery-service/services"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const serviceName = "bakery-service"

func main() {
	_ = godotenv.Load()

	awsCfg, awsErr := awspkg.LoadAWSConfig(context.Background())

	// CloudWatch Logs tee when enabled; console only otherwise
	env := getEnv("APP_ENV", "development")
	var log *zap.Logger
	var err error
	if os.Getenv("CLOUDWATCH_ENABLED") == "true" && awsErr == nil {
		cw, cwErr := awspkg.NewCloudWatchLogsClient(context.Background(), awsCfg, serviceName)
		if cwErr == nil {
			log, err = logger.InitializeWithWriter(env, cw)
		} else {
			log, err = logger.Initialize(env)
			if err == nil {
				log.Warn("CloudWatch logs client init failed (non-fatal)", zap.Error(cwErr))
			}
		}
	} else {
		log, err = logger.Initialize(env)
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	if awsErr != nil {
		log.Warn("AWS config unavailable; AWS integrations disabled", zap.Error(awsErr))
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	// --- Storage ---
	db, err := database.ConnectPostgres(cfg.Postgres, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisCtx, cancelRedis := context.WithTimeout(context.Background(), 5*time.Second)
	rdb, err := database.NewRedisClient(redisCtx, cfg.RedisURL)
	cancelRedis()
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}

	productRepo := newProductRepository(cfg, db, awsCfg, awsErr, log)
	orderRepo := repository.NewGormOrderRepository(db)
	messageRepo := repository.NewGormContactMessageRepository(db)
	offeringRepo := repository.NewGormOfferingRepository(db)
	cartStore := database.NewRedisCartStore(rdb, database.CartStoreTTLs{
		Cart:        cfg.CartTTL,
		Lock:        cfg.CheckoutLockTTL,
		Idempotency: cfg.IdempotencyTTL,
	})

	// --- Events and metrics ---
	var events services.OrderEventPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic, log)
		events = producer
	} else {
		log.Info("KAFKA_BROKERS not set; order events disabled")
	}

	var metrics awspkg.MetricsRecorder
	var snsClient awspkg.SNSPublisher
	var imageService services.ImageService
	if awsErr == nil {
		metrics = awspkg.NewMetricsClient(awsCfg)
		if cfg.ContactSNSTopicArn != "" {
			snsClient = awspkg.NewSNSClient(awsCfg)
		}
		if cfg.ProductImagesBucket != "" {
			imageService = services.NewImageService(
				awspkg.NewS3Presigner(awsCfg, cfg.ProductImagesBucket, cfg.ProductImagesBaseURL), log)
		}
	}

	// --- Services ---
	catalogCache := services.NewRedisCatalogCache(rdb, cfg.CatalogCacheTTL, log)
	catalogService := services.NewCatalogService(productRepo, catalogCache, metrics, log)
	cartService := services.NewCartService(cartStore, catalogService, log)
	checkoutService := services.NewCheckoutService(orderRepo, cartStore, events, metrics, log)
	orderService := services.NewOrderService(orderRepo, cfg.StatusPolicy, events, metrics, log)
	messageService := services.NewMessageService(messageRepo, cfg.StatusPolicy, snsClient, cfg.ContactSNSTopicArn, metrics, log)
	offeringService := services.NewOfferingService(offeringRepo, log)
	dashboardService := services.NewDashboardService(productRepo, orderRepo, messageRepo, log)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	healthChecks := map[string]controllers.HealthCheck{
		"postgres": sqlDB.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	// --- HTTP router ---
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.SessionHeader, controllers.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Metrics(metrics, serviceName))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Timeout(30 * time.Second))

	formLimiter := middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(cfg.FormRateLimit)), cfg.FormRateLimit, 5*time.Minute)
	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()
	go formLimiter.Run(bgCtx)

	routes.RegisterRoutes(r, routes.Controllers{
		Health:    controllers.NewHealthController(serviceName, healthChecks),
		Catalog:   controllers.NewCatalogController(catalogService),
		Offerings: controllers.NewOfferingController(offeringService),
		Cart:      controllers.NewCartController(cartService, checkoutService),
		Contact:   controllers.NewContactController(messageService),
		Admin:     controllers.NewAdminController(catalogService, orderService, messageService, dashboardService, imageService),
	}, routes.Options{
		JWTSecret:   []byte(cfg.JWTSecret),
		FormLimiter: formLimiter,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Bakery service started",
			zap.String("port", cfg.Port),
			zap.String("catalog_backend", cfg.CatalogBackend),
			zap.String("status_policy", cfg.StatusPolicy.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	cancelBg()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if err := rdb.Close(); err != nil {
		log.Error("Redis close error", zap.Error(err))
	}
	if err := database.ClosePostgres(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Bakery service stopped gracefully")
}

// newProductRepository picks the catalog store. DynamoDB needs a working AWS
// config; anything else uses Postgres.
func newProductRepository(cfg *Config, db *gorm.DB, awsCfg sdkaws.Config, awsErr error, log *zap.Logger) repository.ProductRepository {
	if cfg.CatalogBackend != "dynamodb" {
		return repository.NewGormProductRepository(db)
	}
	if awsErr != nil {
		log.Fatal("CATALOG_BACKEND=dynamodb requires AWS config", zap.Error(awsErr))
	}
	ddb := dynamodb.NewFromConfig(awsCfg)
	log.Info("Using DynamoDB catalog", zap.String("table", cfg.DDBTableProducts))
	return repository.NewDynamoProductRepository(ddb, cfg.DDBTableProducts)
}
