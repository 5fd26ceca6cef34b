package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ravkun27/nftix/internal/di"
	"github.com/ravkun27/nftix/internal/handler"
	"github.com/ravkun27/nftix/internal/metrics"
	"github.com/ravkun27/nftix/internal/publisher"
	"github.com/ravkun27/nftix/pkg/config"
	"github.com/ravkun27/nftix/pkg/database"
	"github.com/ravkun27/nftix/pkg/logger"
	"github.com/ravkun27/nftix/pkg/middleware"
	"github.com/ravkun27/nftix/pkg/redis"
	"github.com/ravkun27/nftix/pkg/telemetry"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting NFTix service...", zap.String("version", cfg.App.Version))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	} else if telemetryCfg.Enabled {
		appLog.Info("Telemetry initialized", zap.String("collector", telemetryCfg.CollectorAddr))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	// Database is only needed when the catalog lives in Postgres
	var db *database.PostgresDB
	if cfg.Catalog.Source == "postgres" {
		db, err = connectPostgres(ctx, cfg)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()
		appLog.Info("Database connected", zap.String("table", cfg.Catalog.Table))
	}

	// Redis is optional: caching and mint idempotency are disabled without it
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = connectRedis(ctx, cfg)
		if err != nil {
			appLog.Warn("Redis connection failed (caching disabled)", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Kafka is optional: minted tickets are not announced without it
	var pub publisher.Publisher
	if cfg.Kafka.Enabled {
		kafkaPub, err := publisher.NewKafkaPublisher(ctx, &publisher.Config{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.TicketTopic,
			ClientID: cfg.Kafka.ClientID,
		}, appLog)
		if err != nil {
			appLog.Warn("Kafka connection failed (publishing disabled)", zap.Error(err))
		} else {
			pub = kafkaPub
			appLog.Info("Kafka connected", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	}

	m := metrics.New()

	// Build dependency injection container
	container, err := di.NewContainer(&di.ContainerConfig{
		Config:    cfg,
		DB:        db,
		Redis:     redisClient,
		Publisher: pub,
		Metrics:   m,
		Logger:    appLog,
	})
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer container.Close()

	if err := container.CatalogService.Reload(ctx); err != nil {
		appLog.Warn("Initial catalog load failed", zap.Error(err))
	}

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.Server.CORSOrigins

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.CORSWithConfig(corsCfg))
	router.Use(m.Middleware())

	// Add OpenTelemetry tracing middleware if enabled
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	handler.RegisterRoutes(router, container.Handlers)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLog.Info("NFTix service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return container.Refresher.Run(gctx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	appLog.Info("Server exited")
	return nil
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*database.PostgresDB, error) {
	return database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	return redis.NewClient(ctx, &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
}
