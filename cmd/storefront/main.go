package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/app"
	"github.com/diamondnunstraw/kartcentral/internal/catalog"
	"github.com/diamondnunstraw/kartcentral/internal/config"
	"github.com/diamondnunstraw/kartcentral/internal/events"
	"github.com/diamondnunstraw/kartcentral/internal/httpapi"
	"github.com/diamondnunstraw/kartcentral/internal/identity"
	"github.com/diamondnunstraw/kartcentral/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up storage", zap.Error(err))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(logger, cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("order events enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	reader := catalog.NewHTTPClient(cfg.CatalogBaseURL, cfg.RequestTimeout)
	loader := catalog.NewLoader(reader)

	provider := identity.NewLocalProvider(logger)

	appCtx := app.New(provider, store, publisher, logger)
	defer appCtx.Close()

	server := httpapi.NewServer(appCtx, reader, loader, cfg.RequestTimeout, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(server.Router(), "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func buildStore(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		logger.Info("using redis storage", zap.String("addr", cfg.RedisAddr))
		return storage.NewRedisStore(client), nil
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := storage.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info("using mongo storage", zap.String("database", cfg.MongoDatabase))
		return storage.NewMongoStore(db), nil
	default:
		logger.Info("using in-memory storage")
		return storage.NewMemoryStore(), nil
	}
}
