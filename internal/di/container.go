package di

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ravkun27/nftix/internal/catalog"
	"github.com/ravkun27/nftix/internal/handler"
	"github.com/ravkun27/nftix/internal/metrics"
	"github.com/ravkun27/nftix/internal/mint"
	"github.com/ravkun27/nftix/internal/mintflow"
	"github.com/ravkun27/nftix/internal/publisher"
	"github.com/ravkun27/nftix/internal/service"
	"github.com/ravkun27/nftix/internal/wallet"
	"github.com/ravkun27/nftix/pkg/config"
	"github.com/ravkun27/nftix/pkg/database"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/middleware"
	"github.com/ravkun27/nftix/pkg/redis"
)

// Container holds all dependencies for the nftix service
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher publisher.Publisher
	Metrics   *metrics.Metrics

	// Catalog
	Source      catalog.Source
	CatalogRepo catalog.Reloader
	Refresher   *catalog.Refresher

	// Domain
	Registry  *mint.Registry
	Gateway   mintflow.Gateway
	Connector *wallet.InjectedConnector
	Sessions  *wallet.SessionManager

	// Services
	CatalogService service.CatalogService
	WalletService  service.WalletService
	TicketService  service.TicketService

	// Handlers
	Handlers *handler.Handlers
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config *config.Config
	// DB is required for the postgres catalog source, nil otherwise
	DB *database.PostgresDB
	// Redis enables the shared catalog cache and mint idempotency when set
	Redis *redis.Client
	// Publisher defaults to a no-op publisher
	Publisher publisher.Publisher
	Metrics   *metrics.Metrics
	Logger    *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) (*Container, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("container config is required")
	}
	appCfg := cfg.Config

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
		Metrics:   cfg.Metrics,
	}
	if c.Publisher == nil {
		c.Publisher = publisher.NewNoOpPublisher()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.New()
	}

	// Initialize the catalog source
	source, err := newSource(appCfg, c.DB)
	if err != nil {
		return nil, err
	}
	c.Source = source

	sourceRepo := catalog.NewSourceRepository(c.Source, log)

	// Wrap with cache if Redis is available
	if c.Redis != nil {
		c.CatalogRepo = catalog.NewCachedRepository(sourceRepo, c.Redis, appCfg.Catalog.CacheTTL, log)
	} else {
		c.CatalogRepo = sourceRepo
	}

	// Initialize domain components
	c.Registry = mint.NewRegistry()
	c.Gateway = mintflow.NewSimulatedGateway(&mintflow.SimulatedConfig{
		Delay:       appCfg.Mint.Delay,
		SuccessRate: appCfg.Mint.SuccessRate,
	})
	c.Connector = wallet.NewInjectedConnector()
	c.Sessions = wallet.NewSessionManager(appCfg.JWT.Secret, appCfg.JWT.Issuer, appCfg.JWT.SessionTTL)

	loc := appCfg.Display.Location()

	// Initialize services
	c.CatalogService = service.NewCatalogService(c.CatalogRepo, c.Registry, c.Metrics, loc, log)
	c.WalletService = service.NewWalletService(c.Connector, c.Sessions, c.Metrics, log)
	c.TicketService = service.NewTicketService(&service.TicketServiceConfig{
		Catalog:   c.CatalogRepo,
		Registry:  c.Registry,
		Gateway:   c.Gateway,
		Publisher: c.Publisher,
		Metrics:   c.Metrics,
		Location:  loc,
		Logger:    log,
	})

	c.Refresher = catalog.NewRefresher(c.CatalogService, appCfg.Catalog.RefreshInterval, log, nil)

	// Initialize handlers
	c.Handlers = &handler.Handlers{
		Catalog:   handler.NewCatalogHandler(c.CatalogService, c.Metrics),
		Wallet:    handler.NewWalletHandler(c.WalletService),
		Ticket:    handler.NewTicketHandler(c.TicketService),
		System:    handler.NewSystemHandler(appCfg.App.Name, c.readyChecks()),
		Wallets:   c.WalletService,
		MintGuard: c.mintGuard(),
	}

	return c, nil
}

func newSource(cfg *config.Config, db *database.PostgresDB) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres catalog source requires a database connection")
		}
		return catalog.NewPostgresSource(db, cfg.Catalog.Table), nil
	case "file", "":
		return catalog.NewFileSource(cfg.Catalog.Path), nil
	default:
		return nil, fmt.Errorf("unsupported catalog source: %q", cfg.Catalog.Source)
	}
}

// readyChecks lists what /ready probes: the catalog always, DB and Redis when wired
func (c *Container) readyChecks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"catalog": func(ctx context.Context) error {
			_, err := c.CatalogRepo.List(ctx)
			return err
		},
	}
	if c.DB != nil {
		checks["postgres"] = c.DB.HealthCheck
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis.HealthCheck
	}
	return checks
}

// mintGuard replays repeated mint requests carrying an Idempotency-Key
func (c *Container) mintGuard() []gin.HandlerFunc {
	if c.Redis == nil {
		return nil
	}
	guard := middleware.DefaultIdempotencyConfig(c.Redis.Client())
	guard.Scope = handler.Viewer
	return []gin.HandlerFunc{middleware.Idempotency(guard)}
}

// Close releases the resources the container owns
func (c *Container) Close() error {
	if c.Publisher != nil {
		return c.Publisher.Close()
	}
	return nil
}
