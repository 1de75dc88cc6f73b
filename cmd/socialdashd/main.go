package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/elsanchez/social-dashboard/internal/cache"
	"github.com/elsanchez/social-dashboard/internal/config"
	"github.com/elsanchez/social-dashboard/internal/daemon"
	"github.com/elsanchez/social-dashboard/internal/logging"
	"github.com/elsanchez/social-dashboard/internal/metrics"
	"github.com/elsanchez/social-dashboard/internal/repository/sqldb"
	"github.com/elsanchez/social-dashboard/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("SOCIALDASH_CONFIG"), "Path to YAML config file")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("socialdashd v%s\n", daemon.Version)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "socialdashd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	log := logger.Logger
	log.Info("socialdashd starting", zap.String("version", daemon.Version))

	// Recarga del nivel de log al editar el archivo
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, log)
		if err != nil {
			log.Warn("config watcher disabled", zap.Error(err))
		} else {
			defer watcher.Stop()
			watcher.OnChange(func(c *config.Config) {
				if err := logging.SetLevel(logger.Level, c.Log.Level); err != nil {
					log.Warn("invalid log level in config", zap.Error(err))
					return
				}
				log.Info("log level reloaded", zap.String("level", c.Log.Level))
			})
		}
	}

	// Base de datos
	db, err := sqldb.NewDatabase(sqldb.Options{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.URL,
		DataDir: cfg.Database.DataDir,
	})
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()
	log.Info("database initialized", zap.String("driver", cfg.Database.Driver))

	collector := metrics.NewCollector("socialdash")

	// Caché
	store, closeStore := openCache(cfg.Cache, log)
	defer closeStore()
	aside := cache.NewAside(store, log, collector)

	clock := clockwork.NewRealClock()
	inv := service.NewInvalidator(aside)

	deps := daemon.Deps{
		Accounts:  service.NewAccountService(db.AccountRepo, db.AnalyticsRepo, clock),
		Analytics: service.NewAnalyticsService(db.StatsRepo, aside, clock),
		Posts: service.NewPostService(service.PostServiceDeps{
			Posts:       db.PostRepo,
			Engagement:  db.EngagementRepo,
			Comments:    db.CommentRepo,
			Accounts:    db.AccountRepo,
			Invalidator: inv,
			Metrics:     collector,
			Logger:      log,
			Clock:       clock,
		}),
		Seeder:      service.NewSeeder(db.AccountRepo, db.AnalyticsRepo, db.PostRepo, db.EngagementRepo, inv, log, clock, cfg.Seed),
		Store:       db,
		Metrics:     collector,
		Logger:      log,
		CORSOrigins: cfg.Server.CORSOrigins,
		TrustProxy:  cfg.Server.TrustProxy,
		RateLimit:   cfg.Server.RateLimit,
		RateBurst:   cfg.Server.RateBurst,
		Debug:       cfg.Server.Debug,
	}

	server := daemon.NewServer(daemon.ServerOptions{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, daemon.NewRouter(deps), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	log.Info("socialdashd is ready", zap.String("addr", server.Addr()))

	// Esperar señal de terminación
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-server.Done():
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	cancel()
	return server.Stop()
}

// openCache elige el backend; Redis caído no impide arrancar
func openCache(cfg config.CacheConfig, log *zap.Logger) (cache.Store, func()) {
	switch cfg.Backend {
	case cache.BackendRedis:
		store := cache.NewRedisStore(cache.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		}, log)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Warn("redis unavailable, serving without cache until it recovers",
				zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port), zap.Error(err))
		} else {
			log.Info("redis cache connected", zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
		}
		return store, func() { store.Close() }

	case cache.BackendMemory:
		log.Info("in-memory cache enabled")
		return cache.NewMemoryStore(time.Minute), func() {}

	default:
		log.Info("cache disabled")
		return cache.NoopStore{}, func() {}
	}
}
