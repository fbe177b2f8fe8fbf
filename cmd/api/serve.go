package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/auth"
	"crm-commerce/internal/cache"
	"crm-commerce/internal/config"
	"crm-commerce/internal/database"
	"crm-commerce/internal/handlers"
	"crm-commerce/internal/logging"
	"crm-commerce/internal/middleware"
	"crm-commerce/internal/repository"
	"crm-commerce/internal/routes"
	"crm-commerce/internal/service"
)

const (
	auditWriteTimeout = 5 * time.Second
	cacheSweepEvery   = time.Minute
)

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	store := repository.NewStore(db)

	var auditStore audit.Store = repository.NewAuditRepository(db)
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		mongoClient, err = database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		mongoAudit := repository.NewMongoAuditRepository(mongoClient.Database(cfg.MongoDB).Collection("audit_logs"))
		if err := mongoAudit.EnsureIndexes(ctx); err != nil {
			return err
		}
		auditStore = mongoAudit
		log.Info().Str("db", cfg.MongoDB).Msg("audit log stored in mongodb")
	}
	writer := audit.NewWriter(auditStore, log, auditWriteTimeout)

	settingsCache, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}

	orders, err := service.NewOrderService(store, writer, cfg.RestockOnCancel)
	if err != nil {
		return err
	}
	catalog := service.NewCatalogService(store, writer)

	handlers.RegisterValidators()
	router := gin.New()
	router.Use(middleware.RequestLogger(log), middleware.Recovery())
	routes.RegisterRoutes(router, routes.Handlers{
		Products:      handlers.NewProductHandler(catalog),
		Categories:    handlers.NewCategoryHandler(catalog),
		ShippingRates: handlers.NewShippingRateHandler(service.NewShippingRateService(store, writer)),
		Cart:          handlers.NewCartHandler(service.NewCartService(store)),
		Orders:        handlers.NewOrderHandler(orders),
		Customers:     handlers.NewCustomerHandler(service.NewCustomerService(store, writer)),
		Settings:      handlers.NewSettingsHandler(service.NewSettingsService(store.Settings, settingsCache, cfg.SettingsCacheTTL, writer)),
		Audit:         handlers.NewAuditHandler(auditStore),
		Reports:       handlers.NewReportHandler(service.NewReportService(store)),
	}, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		// stores close only after in-flight requests and queued audit writes are done
		"api": func(ctx context.Context) error {
			errs := []error{srv.Shutdown(ctx)}
			writer.Wait()
			errs = append(errs, closeCache(), database.Close(db))
			if mongoClient != nil {
				errs = append(errs, mongoClient.Disconnect(ctx))
			}
			return errors.Join(errs...)
		},
	})

	code := <-wait
	log.Info().Int("code", code).Msg("shutdown complete")
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

// openCache picks Redis when configured, otherwise the in-process cache.
func openCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (cache.Store, func() error, error) {
	if cfg.RedisAddr == "" {
		mem := cache.NewMemory(cfg.SettingsCacheTTL, cacheSweepEvery)
		return mem, mem.Close, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("settings cache on redis")
	return cache.NewRedis(client, "crm:", cfg.SettingsCacheTTL), client.Close, nil
}
