package provider

import (
	"github.com/charmsmith/internal/cache"
	"github.com/charmsmith/internal/config"
	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/queue"
	"github.com/charmsmith/internal/repository"
	"github.com/charmsmith/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo  repository.AdminRepository
	CharmRepo  repository.CharmRepository
	OrderRepo  repository.OrderRepository
	CartRepo   repository.CartRepository
	EventRepo  repository.EventRepository
	ReviewRepo repository.ReviewRepository

	// Services
	AuthService       *service.AuthService
	CatalogService    *service.CatalogService
	BuilderService    *service.BuilderService
	CartService       *service.CartService
	CheckoutService   *service.CheckoutService
	CharmAdminService *service.CharmAdminService
	OrderAdminService *service.OrderAdminService
	EventService      *service.EventService
	ReviewService     *service.ReviewService
	CaptchaService    *service.CaptchaService
	UploadService     *service.UploadService
	EmailService      *service.EmailService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CharmRepo = repository.NewCharmRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.EventRepo = repository.NewEventRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.CatalogService = service.NewCatalogService(c.CharmRepo)
	c.BuilderService = service.NewBuilderService(c.CharmRepo, cfg.Store.StartingCharmID)
	c.CartService = service.NewCartService(c.CartRepo)
	c.CheckoutService = service.NewCheckoutService(
		c.CharmRepo,
		c.OrderRepo,
		c.CartService,
		c.QueueClient,
		cfg.Store.Currency,
		cfg.Store.Name,
		cfg.Store.MessengerPage,
	)
	c.CharmAdminService = service.NewCharmAdminService(c.CharmRepo)
	c.OrderAdminService = service.NewOrderAdminService(c.OrderRepo)
	c.EventService = service.NewEventService(c.EventRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.UploadService = service.NewUploadService(cfg.Upload)
	c.EmailService = service.NewEmailService(&cfg.Email)
}
