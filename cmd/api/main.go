package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/bakery-storefront/internal/aws"
	"github.com/imrishuroy/bakery-storefront/internal/cart"
	"github.com/imrishuroy/bakery-storefront/internal/config"
	"github.com/imrishuroy/bakery-storefront/internal/database"
	"github.com/imrishuroy/bakery-storefront/internal/enquiries"
	bakeryevents "github.com/imrishuroy/bakery-storefront/internal/events"
	"github.com/imrishuroy/bakery-storefront/internal/handlers"
	"github.com/imrishuroy/bakery-storefront/internal/idempotency"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
	"github.com/imrishuroy/bakery-storefront/internal/orders"
	"github.com/imrishuroy/bakery-storefront/internal/products"
	"github.com/imrishuroy/bakery-storefront/internal/validation"
)

func setupRouter(cfg handlers.HandlerConfig, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key", "X-Cart-Session", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Initialize("development")
		logger.Log.Fatal("failed to load config", zap.Error(err))
	}
	logger.Initialize(cfg.Env)
	defer logger.Sync()

	var clients *aws.AWSClients
	if cfg.UseSecrets || cfg.IdempotencyTable != "" || cfg.OrderEventsQueueURL != "" {
		if clients, err = aws.NewAWSClients(ctx); err != nil {
			logger.Log.Fatal("failed to init aws clients", zap.Error(err))
		}
	}
	if cfg.UseSecrets {
		if err := cfg.ApplySecret(ctx, clients.SecretsManager); err != nil {
			logger.Log.Fatal("failed to load database secret", zap.Error(err))
		}
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("invalid config", zap.Error(err))
	}

	db, err := database.Connect(cfg.DSN(), &orders.User{}, &orders.Order{}, &enquiries.Enquiry{}, &products.Product{})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	var cartStore cart.Store = cart.NewMemoryStore()
	if cfg.RedisURL != "" {
		client, err := cart.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("failed to connect to redis", zap.Error(err))
		}
		cartStore = cart.NewRedisStore(client, cfg.CartTTL)
	}

	var publisher bakeryevents.Publisher = bakeryevents.Nop{}
	if cfg.OrderEventsQueueURL != "" {
		publisher = bakeryevents.NewSQSPublisher(clients.SQS, cfg.OrderEventsQueueURL)
	}

	v := validation.New()
	hcfg := handlers.HandlerConfig{
		Orders:      orders.NewManager(orders.NewGormRepository(db), v, publisher, cfg.Location()),
		Enquiries:   enquiries.NewManager(enquiries.NewGormRepository(db), v, publisher),
		Products:    products.NewManager(products.NewGormRepository(db), v),
		Cart:        cart.NewHolder(cartStore),
		Validator:   v,
		AdminAPIKey: cfg.AdminAPIKey,
	}
	if cfg.IdempotencyTable != "" {
		hcfg.Idempotency = idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL).
			WithStaleAfter(cfg.IdempotencyStaleAfter)
	}
	if cfg.AdminAPIKey == "" {
		logger.Log.Warn("ADMIN_API_KEY not set, admin routes are disabled")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := setupRouter(hcfg, cfg.CORSAllowedOrigins)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		addr := ":" + cfg.Port
		logger.Log.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Log.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
