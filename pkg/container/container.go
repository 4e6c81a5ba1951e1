package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"book-marketplace/internal/config"
	infraCache "book-marketplace/internal/infrastructure/cache"
	"book-marketplace/internal/infrastructure/database"
	"book-marketplace/internal/infrastructure/messaging"
	"book-marketplace/internal/infrastructure/queue"
	"book-marketplace/pkg/cache"
	"book-marketplace/pkg/jwt"
	"book-marketplace/pkg/logger"

	bookHandler "book-marketplace/internal/domains/book/handler"
	bookRepo "book-marketplace/internal/domains/book/repository"
	bookService "book-marketplace/internal/domains/book/service"

	orderClient "book-marketplace/internal/domains/order/client"
	orderEvents "book-marketplace/internal/domains/order/events"
	orderHandler "book-marketplace/internal/domains/order/handler"
	orderJob "book-marketplace/internal/domains/order/job"
	orderRepo "book-marketplace/internal/domains/order/repository"
	orderService "book-marketplace/internal/domains/order/service"

	"book-marketplace/internal/domains/user"
	userHandler "book-marketplace/internal/domains/user/handler"
	userRepo "book-marketplace/internal/domains/user/repository"
	userService "book-marketplace/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the dependency graph of ONE process. Which fields are set
// depends on Service: the book service never gets an order repository, the
// worker never gets a database.
type Container struct {
	Service config.Service
	Config  *config.Config

	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	DB            *database.PostgresDB
	Cache         cache.Cache
	JWTManager    *jwt.Manager
	AsynqClient   *asynq.Client
	KafkaProducer *messaging.Producer
	BookClient    orderClient.BookClient

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	BookRepo  bookRepo.RepositoryInterface
	OrderRepo orderRepo.OrderRepository
	UserRepo  user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	BookService  bookService.ServiceInterface
	OrderService orderService.OrderService
	UserService  user.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	BookHandler  *bookHandler.Handler
	OrderHandler *orderHandler.OrderHandler
	UserHandler  *userHandler.UserHandler

	RestoreStockJob *orderJob.RestoreStockHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph for service.
// Order: config -> infrastructure -> repositories -> services -> handlers.
func NewContainer(service config.Service) (*Container, error) {
	cfg, err := config.Load(service)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("initializing container", map[string]interface{}{
		"service": service,
		"env":     cfg.App.Environment,
	})

	c := &Container{
		Service: service,
		Config:  cfg,
	}

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container ready", map[string]interface{}{"service": service})
	return c, nil
}

func (c *Container) needsDatabase() bool {
	return c.Service == config.ServiceBook || c.Service == config.ServiceOrder || c.Service == config.ServiceUser
}

// the worker holds a cache client only to health-check the Redis it consumes from
func (c *Container) needsCache() bool {
	return c.Service == config.ServiceBook || c.Service == config.ServiceUser || c.Service == config.ServiceWorker
}

func (c *Container) needsBookClient() bool {
	return c.Service == config.ServiceOrder || c.Service == config.ServiceWorker
}

// ========================================
// STEP 1: INFRASTRUCTURE
// ========================================

func (c *Container) initInfrastructure() error {
	if c.needsDatabase() {
		dbConfig, err := c.Config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		c.DB = database.NewPostgresDB(dbConfig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.DB.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	if c.needsCache() {
		redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// reads fall through to Postgres, so a cold Redis is not fatal
		if err := redisCache.Connect(ctx); err != nil {
			logger.Warn("redis unavailable, cache disabled until it recovers", map[string]interface{}{
				"host":  c.Config.Redis.Host,
				"error": err.Error(),
			})
		}
		c.Cache = redisCache
	}

	if c.Service == config.ServiceUser {
		c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.Expiry)
	}

	if c.needsBookClient() {
		c.BookClient = orderClient.NewHTTPBookClient(c.Config.BookService.BaseURL, c.Config.BookService.Timeout)
	}

	if c.Service == config.ServiceOrder {
		c.AsynqClient = queue.NewClient(c.Config.Redis)
		if c.Config.Kafka.Enabled() {
			c.KafkaProducer = messaging.NewProducer(c.Config.Kafka.Brokers, c.Config.Kafka.OrderTopic)
		}
	}

	return nil
}

// ========================================
// STEP 2: REPOSITORIES
// ========================================

func (c *Container) initRepositories() {
	switch c.Service {
	case config.ServiceBook:
		c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	case config.ServiceOrder:
		c.OrderRepo = orderRepo.NewPostgresOrderRepository(c.DB.Pool)
	case config.ServiceUser:
		c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	}
}

// ========================================
// STEP 3: SERVICES
// ========================================

func (c *Container) initServices() {
	switch c.Service {
	case config.ServiceBook:
		c.BookService = bookService.NewService(c.BookRepo)
	case config.ServiceOrder:
		var publisher orderEvents.Publisher = orderEvents.NoopPublisher{}
		if c.KafkaProducer != nil {
			publisher = orderEvents.NewKafkaPublisher(c.KafkaProducer)
		}
		c.OrderService = orderService.NewOrderService(
			c.OrderRepo,
			c.BookClient,
			c.AsynqClient,
			publisher,
			orderService.Options{
				StockMode:          c.Config.Order.StockMode,
				EnforceTransitions: c.Config.Order.EnforceTransitions,
			},
		)
	case config.ServiceUser:
		c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Config.JWT.BcryptCost)
	}
}

// ========================================
// STEP 4: HANDLERS
// ========================================

func (c *Container) initHandlers() {
	switch c.Service {
	case config.ServiceBook:
		c.BookHandler = bookHandler.NewHandler(c.BookService)
	case config.ServiceOrder:
		c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	case config.ServiceUser:
		c.UserHandler = userHandler.NewUserHandler(c.UserService)
	case config.ServiceWorker:
		c.RestoreStockJob = orderJob.NewRestoreStockHandler(c.BookClient)
	}
}

// ========================================
// HEALTH / CLEANUP
// ========================================

// HealthCheck pings the process's backing store
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.HealthCheck(ctx)
	}
	if c.Cache != nil {
		return c.Cache.Ping(ctx)
	}
	return nil
}

// Cleanup closes every connection the container opened
func (c *Container) Cleanup() {
	if c.KafkaProducer != nil {
		if err := c.KafkaProducer.Close(); err != nil {
			logger.Error("failed to close kafka producer", err)
		}
	}

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close asynq client", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}

	logger.Info("container cleanup completed", map[string]interface{}{"service": c.Service})
}
