package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"writerspocket-backend/internal/config"
	infracache "writerspocket-backend/internal/infrastructure/cache"
	"writerspocket-backend/internal/infrastructure/database"
	"writerspocket-backend/internal/infrastructure/email"
	"writerspocket-backend/internal/infrastructure/sheets"
	"writerspocket-backend/internal/infrastructure/storage"
	"writerspocket-backend/pkg/cache"
	"writerspocket-backend/pkg/jwt"

	authorhandler "writerspocket-backend/internal/domains/author/handler"
	authorrepo "writerspocket-backend/internal/domains/author/repository"
	authorservice "writerspocket-backend/internal/domains/author/service"
	bookhandler "writerspocket-backend/internal/domains/book/handler"
	bookrepo "writerspocket-backend/internal/domains/book/repository"
	bookservice "writerspocket-backend/internal/domains/book/service"
	categoryhandler "writerspocket-backend/internal/domains/category/handler"
	categoryrepo "writerspocket-backend/internal/domains/category/repository"
	categoryservice "writerspocket-backend/internal/domains/category/service"
	notificationhandler "writerspocket-backend/internal/domains/notification/handler"
	notificationrepo "writerspocket-backend/internal/domains/notification/repository"
	notificationservice "writerspocket-backend/internal/domains/notification/service"
	orderhandler "writerspocket-backend/internal/domains/order/handler"
	orderrepo "writerspocket-backend/internal/domains/order/repository"
	orderservice "writerspocket-backend/internal/domains/order/service"
	pagehandler "writerspocket-backend/internal/domains/page/handler"
	pagerepo "writerspocket-backend/internal/domains/page/repository"
	pageservice "writerspocket-backend/internal/domains/page/service"
	"writerspocket-backend/internal/domains/payment/gateway"
	paymenthandler "writerspocket-backend/internal/domains/payment/handler"
	paymentrepo "writerspocket-backend/internal/domains/payment/repository"
	paymentservice "writerspocket-backend/internal/domains/payment/service"
	royaltyhandler "writerspocket-backend/internal/domains/royalty/handler"
	royaltyrepo "writerspocket-backend/internal/domains/royalty/repository"
	royaltyservice "writerspocket-backend/internal/domains/royalty/service"
	supporthandler "writerspocket-backend/internal/domains/support/handler"
	supportrepo "writerspocket-backend/internal/domains/support/repository"
	supportservice "writerspocket-backend/internal/domains/support/service"
)

// =====================================================
// DI CONTAINER
// =====================================================

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order: config, then
// infrastructure, then repositories, services and handlers.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Storage     *storage.MinIOStorage

	Gateway       gateway.PaymentGateway
	EmailService  email.EmailService
	SheetsService sheets.SheetsService

	AuthorRepo       authorrepo.RepositoryInterface
	BookRepo         bookrepo.RepositoryInterface
	CategoryRepo     categoryrepo.RepositoryInterface
	RoyaltyRepo      royaltyrepo.RepositoryInterface
	OrderRepo        orderrepo.RepositoryInterface
	WebhookLogRepo   paymentrepo.WebhookLogRepository
	NotificationRepo notificationrepo.RepositoryInterface
	SupportRepo      supportrepo.RepositoryInterface
	PageRepo         pagerepo.RepositoryInterface
	EmailLogRepo     email.LogRepository

	AuthorService       authorservice.ServiceInterface
	BookService         bookservice.ServiceInterface
	BulkImportService   bookservice.BulkImportServiceInterface
	CategoryService     categoryservice.ServiceInterface
	RoyaltyService      royaltyservice.ServiceInterface
	SalesImportService  royaltyservice.SalesImportServiceInterface
	OrderService        orderservice.ServiceInterface
	WebhookService      paymentservice.ServiceInterface
	NotificationService notificationservice.ServiceInterface
	SupportService      supportservice.ServiceInterface
	PageService         pageservice.ServiceInterface

	AuthorHandler       *authorhandler.AuthorHandler
	BookHandler         *bookhandler.BookHandler
	BulkImportHandler   *bookhandler.BulkImportHandler
	CategoryHandler     *categoryhandler.CategoryHandler
	RoyaltyHandler      *royaltyhandler.RoyaltyHandler
	OrderHandler        *orderhandler.OrderHandler
	WebhookHandler      *paymenthandler.WebhookHandler
	NotificationHandler *notificationhandler.NotificationHandler
	SupportHandler      *supporthandler.SupportHandler
	PageHandler         *pagehandler.PageHandler
}

// NewContainer builds the whole dependency graph.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("Container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	redisCache := infracache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if rc, ok := redisCache.(*infracache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache misses degrade gracefully; Redis is still required for
			// the queue, so this only affects the API's read caches.
			log.Warn().Err(err).Msg("Redis connection failed")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		c.Config.JWT.Secret,
		c.Config.JWT.AccessTokenExpiry,
		c.Config.JWT.RefreshTokenExpiry,
	)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	minioStorage, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		// Manuscript uploads fail with a clear error until storage is up.
		log.Warn().Err(err).Msg("MinIO unavailable, manuscript uploads disabled")
	} else {
		c.Storage = minioStorage
	}

	if c.Config.Razorpay.KeyID != "" || c.Config.Razorpay.WebhookSecret != "" {
		c.Gateway = gateway.NewRazorpayGateway(c.Config.Razorpay)
	} else {
		c.Gateway = gateway.NewMockGateway()
	}

	c.EmailLogRepo = email.NewPostgresLogRepository(c.DB.Pool)
	c.EmailService = email.NewEmailService(c.Config.Email, c.EmailLogRepo)
	c.SheetsService = sheets.NewSheetsService(c.Config.Sheets)

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorrepo.NewPostgresRepository(pool)
	c.BookRepo = bookrepo.NewBookRepository(pool)
	c.CategoryRepo = categoryrepo.NewCategoryRepository(pool)
	c.RoyaltyRepo = royaltyrepo.NewRoyaltyRepository(pool)
	c.OrderRepo = orderrepo.NewOrderRepository(pool)
	c.WebhookLogRepo = paymentrepo.NewWebhookLogRepository(pool)
	c.NotificationRepo = notificationrepo.NewNotificationRepository(pool)
	c.SupportRepo = supportrepo.NewSupportRepository(pool)
	c.PageRepo = pagerepo.NewPageRepository(pool)
}

func (c *Container) initServices() {
	pool := c.DB.Pool

	c.AuthorService = authorservice.NewAuthorService(c.AuthorRepo, c.JWTManager, c.AsynqClient)
	c.BookService = bookservice.NewBookService(c.BookRepo, c.AuthorService, pool, c.Cache, c.Storage)
	c.BulkImportService = bookservice.NewBulkImportService(c.BookRepo, c.AuthorService, c.CategoryRepo, pool)
	c.CategoryService = categoryservice.NewCategoryService(c.CategoryRepo)

	c.RoyaltyService = royaltyservice.NewRoyaltyService(
		c.RoyaltyRepo, c.BookRepo, pool,
		decimal.NewFromFloat(c.Config.Royalty.DefaultRate),
	)
	c.SalesImportService = royaltyservice.NewSalesImportService(c.RoyaltyService, c.BookRepo)

	c.NotificationService = notificationservice.NewNotificationService(c.NotificationRepo, c.AuthorRepo, c.AsynqClient)
	c.OrderService = orderservice.NewOrderService(c.OrderRepo, c.BookRepo, c.Gateway)
	c.WebhookService = paymentservice.NewWebhookService(
		c.Gateway, c.OrderRepo, c.RoyaltyService, c.NotificationService, c.WebhookLogRepo,
	)
	c.SupportService = supportservice.NewSupportService(c.SupportRepo, c.NotificationService)
	c.PageService = pageservice.NewPageService(c.PageRepo, c.Cache)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorhandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookhandler.NewBookHandler(c.BookService)
	c.BulkImportHandler = bookhandler.NewBulkImportHandler(c.BulkImportService)
	c.CategoryHandler = categoryhandler.NewCategoryHandler(c.CategoryService)
	c.RoyaltyHandler = royaltyhandler.NewRoyaltyHandler(c.RoyaltyService, c.SalesImportService)
	c.OrderHandler = orderhandler.NewOrderHandler(c.OrderService)
	c.WebhookHandler = paymenthandler.NewWebhookHandler(c.WebhookService)
	c.NotificationHandler = notificationhandler.NewNotificationHandler(c.NotificationService)
	c.SupportHandler = supporthandler.NewSupportHandler(c.SupportService)
	c.PageHandler = pagehandler.NewPageHandler(c.PageService)
}

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}
	if c.Cache != nil {
		if rc, ok := c.Cache.(*infracache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Redis")
			}
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	log.Info().Msg("Container resources released")
}
