package provider

import (
	"github.com/edunext-academy/internal/authz"
	"github.com/edunext-academy/internal/cache"
	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/logger"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/queue"
	"github.com/edunext-academy/internal/repository"
	"github.com/edunext-academy/internal/service"
	"github.com/edunext-academy/internal/session"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	UserLoginLogRepo repository.UserLoginLogRepository
	CertificateRepo  repository.CertificateRepository

	// Services
	AuthzService        *authz.Service
	UserAuthService     *service.UserAuthService
	UserAdminService    *service.UserAdminService
	EmailService        *service.EmailService
	CertificateService  *service.CertificateService
	UserLoginLogService *service.UserLoginLogService

	// 会话存储（外部认证回调写入，访问守卫读取）
	SessionStore session.Store
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
	c.UserRepo = repository.NewUserRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.CertificateRepo = repository.NewCertificateRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.EmailService, c.QueueClient)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.CertificateService = service.NewCertificateService(c.CertificateRepo, c.UserRepo, c.QueueClient)
	c.SessionStore = session.NewCookieStore(c.Config.Auth)
}
