package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/candor-hq/candor/internal/domain/shared/events"
	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/infrastructure/cache"
	"github.com/candor-hq/candor/internal/infrastructure/config"
	"github.com/candor-hq/candor/internal/infrastructure/permission"
	"github.com/candor-hq/candor/internal/infrastructure/ratelimit"
	"github.com/candor-hq/candor/internal/infrastructure/scheduler"
	"github.com/candor-hq/candor/internal/infrastructure/storage"
	"github.com/candor-hq/candor/internal/infrastructure/token"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
	"github.com/candor-hq/candor/internal/shared/db"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

const eventBufferSize = 256

// Container holds the infrastructure, repositories, use cases, handlers and
// background services, and owns their shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	jwtSvc      *auth.JWTService
	hasher      *auth.BcryptPasswordHasher
	enforcer    *permission.Enforcer
	txManager   *db.TransactionManager
	tokens      token.Generator
	renderer    markdown.Renderer
	issueCache  issueCache
	stateStore  cache.StateStore
	attachments storage.AttachmentStore
	limiter     ratelimit.Limiter

	dispatcher       *events.InMemoryEventDispatcher
	schedulerManager *scheduler.SchedulerManager
}

// issueCache is satisfied by both the Redis and the no-op cache.
type issueCache interface {
	GetByFingerprint(ctx context.Context, fingerprint string, dst any) (bool, error)
	Set(ctx context.Context, issueID, fingerprint string, v any) error
	Invalidate(ctx context.Context, issueID string) error
}

// NewContainer wires everything together. Redis, SMTP, object storage and
// Google sign-in are optional and degrade to in-process or disabled
// implementations when not configured.
func NewContainer(ctx context.Context, gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, policy, repositories
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Events and background jobs
	if err := c.initBackground(); err != nil {
		return nil, err
	}

	// Section 4: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	if c.cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &c.cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.redis = client
		c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())
	} else {
		c.log.Warnw("redis disabled, rate limiting and the issue cache are off")
	}

	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create policy enforcer: %w", err)
	}
	if err := permission.SeedDefaultPolicies(enforcer, c.log); err != nil {
		return fmt.Errorf("failed to seed default policies: %w", err)
	}
	c.enforcer = enforcer

	c.repos = newRepositories(c.db)
	c.txManager = db.NewTransactionManager(c.db)
	c.tokens = token.NewGenerator()
	c.renderer = markdown.NewRenderer()
	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes, c.cfg.Auth.JWT.RefreshExpDays)
	c.hasher = auth.NewBcryptPasswordHasher(c.cfg.Auth.Password.BcryptCost)
	c.dispatcher = events.NewInMemoryEventDispatcher(eventBufferSize, c.log)

	if c.redis != nil {
		c.issueCache = cache.NewRedisIssueCache(c.redis, c.cfg.Issues.CacheTTL, c.log)
		c.stateStore = cache.NewRedisStateStore(c.redis, "candor:oauth:state:", 10*time.Minute)
		c.limiter = ratelimit.NewRedisRateLimiter(c.redis)
	} else {
		c.issueCache = cache.NewNoopIssueCache()
		c.stateStore = cache.NewMemoryStateStore(10 * time.Minute)
	}

	c.attachments = storage.DisabledAttachmentStore{}
	if c.cfg.Storage.Enabled {
		store, err := storage.NewMinioAttachmentStore(&c.cfg.Storage, c.log)
		if err != nil {
			return fmt.Errorf("failed to create attachment store: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			c.log.Warnw("attachment bucket check failed", "bucket", c.cfg.Storage.Bucket, "error", err)
		}
		c.attachments = store
	}

	return nil
}

func (c *Container) initBackground() error {
	if err := c.ucs.issueEventHandler.Register(c.dispatcher); err != nil {
		return fmt.Errorf("failed to register issue event handler: %w", err)
	}
	if err := c.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}

	c.schedulerManager = scheduler.NewSchedulerManager(c.log)
	if err := c.schedulerManager.RegisterAutoCloseJob(c.cfg.Issues.AutoCloseSchedule, c.ucs.closeStaleIssuesUC); err != nil {
		return fmt.Errorf("failed to register auto-close job: %w", err)
	}
	return nil
}

// StartBackground starts the cron scheduler.
func (c *Container) StartBackground() {
	c.schedulerManager.Start()
}

// Shutdown stops background work and closes connections. The HTTP server
// must already be drained.
func (c *Container) Shutdown(ctx context.Context) {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(ctx); err != nil {
			c.log.Warnw("scheduler did not stop cleanly", "error", err)
		}
	}

	// Drain queued notifications before the connections go away.
	if c.dispatcher != nil {
		if err := c.dispatcher.Stop(); err != nil {
			c.log.Warnw("event dispatcher did not stop cleanly", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
