package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rebanho/rebanho-backend/internal/config"
	"github.com/rebanho/rebanho-backend/internal/handler"
	"github.com/rebanho/rebanho-backend/internal/middleware"
	"github.com/rebanho/rebanho-backend/internal/migration"
	"github.com/rebanho/rebanho-backend/internal/repository"
	"github.com/rebanho/rebanho-backend/internal/repro"
	"github.com/rebanho/rebanho-backend/internal/routes"
	"github.com/rebanho/rebanho-backend/internal/scheduler"
	"github.com/rebanho/rebanho-backend/internal/service"
	pkgcache "github.com/rebanho/rebanho-backend/pkg/cache"
	pkglogger "github.com/rebanho/rebanho-backend/pkg/logger"
	pkgredis "github.com/rebanho/rebanho-backend/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV
func getConfigPath(env string) string {
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	env := config.AppEnv()
	dotenvFiles := config.LoadDotEnv(env)
	env = config.AppEnv()

	pkglogger.InitStructured(env)
	log := pkglogger.GetLogger()
	log.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting rebanho-backend")

	configPath := getConfigPath(env)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)
	gin.SetMode(cfg.Server.Mode)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if cfg.IsDevelopment() {
		if farmID, err := migration.Seed(db, time.Now()); err != nil {
			log.Warn().Err(err).Msg("demo seed failed")
		} else if farmID != 0 {
			log.Info().Uint64("farm_id", farmID).Msg("demo farm seeded")
		}
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, summary cache disabled")
			redisClient = nil
		} else {
			log.Info().Str("host", cfg.Redis.Host).Msg("connected to redis")
		}
	}
	cacheSvc := pkgcache.NewService(redisClient)

	// Repositories
	farmRepo := repository.NewFarmRepository(db)
	animalRepo := repository.NewAnimalRepository(db)
	eventRepo := repository.NewReproEventRepository(db)
	seasonRepo := repository.NewSeasonRepository(db)
	exposureRepo := repository.NewExposureRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)

	// Services
	defaults := repro.Thresholds{
		WarningOpenDays:  cfg.Repro.WarningOpenDays,
		CriticalOpenDays: cfg.Repro.CriticalOpenDays,
	}
	settingsSvc := service.NewSettingsService(farmRepo, cacheSvc, defaults)
	eventSvc := service.NewEventService(eventRepo, animalRepo, seasonRepo, cacheSvc, nil)
	seasonSvc := service.NewSeasonService(farmRepo, seasonRepo, exposureRepo, animalRepo, cacheSvc)
	selectionSvc := service.NewSelectionService(selectionRepo, animalRepo, cacheSvc)
	geneticsSvc := service.NewGeneticsService(
		farmRepo, animalRepo, eventRepo, seasonRepo, exposureRepo, selectionRepo,
		settingsSvc, cacheSvc,
		service.GeneticsConfig{TopAlertsLimit: cfg.Repro.TopAlertsLimit, CacheTTL: cfg.Repro.SummaryCacheTTL},
		nil,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORS.AllowOrigins),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           24 * time.Hour,
	}))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "ok", "service": "rebanho-backend", "time": time.Now().Unix()}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "down"
		}
		body["cache"] = cacheSvc.IsAvailable()
		c.JSON(status, body)
	})

	routes.Setup(router, routes.Handlers{
		Settings:  handler.NewSettingsHandler(settingsSvc),
		Events:    handler.NewEventHandler(eventSvc),
		Seasons:   handler.NewSeasonHandler(seasonSvc),
		Selection: handler.NewSelectionHandler(selectionSvc),
		Genetics:  handler.NewGeneticsHandler(geneticsSvc),
	}, farmRepo, cfg.Repro.SummaryCacheTTL, middleware.WriteRateLimit(redisClient, rateLimitConfig(cfg)))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "rota não encontrada"}})
	})

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(cfg.Scheduler, cacheSvc)
		if err == nil {
			err = sched.Start()
		}
		if err != nil {
			log.Warn().Err(err).Msg("scheduler disabled")
			sched = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reportPoolStats(ctx, db)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sched != nil {
		sched.Stop()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// initDB opens the MySQL pool
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

// reportPoolStats publishes the DB pool size to Prometheus until ctx is done
func reportPoolStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			middleware.SetDBOpenConnections(sqlDB.Stats().OpenConnections)
		}
	}
}

func rateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	rl := middleware.DefaultRateLimitConfig()
	rl.WritesPerMinute = cfg.RateLimit.WritesPerMinute
	return rl
}

func splitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}
