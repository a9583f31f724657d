package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxconv/internal/adapters"
	"fxconv/internal/adapters/cache"
	"fxconv/internal/adapters/httpclient"
	"fxconv/internal/adapters/memory"
	"fxconv/internal/adapters/postgres"
	redisstore "fxconv/internal/adapters/redis"
	"fxconv/internal/api"
	"fxconv/internal/api/handler"
	"fxconv/internal/config"
	"fxconv/internal/converter"
	"fxconv/internal/currency"
	"fxconv/internal/domain"
	"fxconv/internal/events"
	"fxconv/internal/i18n"
	"fxconv/internal/platform/db"
	httpserver "fxconv/internal/platform/http"
	"fxconv/internal/platform/metrics"
	"fxconv/internal/rate"
	"fxconv/internal/settings"
	"fxconv/internal/storage"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	primarySource  = "primary"
	fallbackSource = "fallback"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (storage connect, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	kv, closeKV, err := openKVStore(startupCtx, appCfg)
	if err != nil {
		logrus.WithError(err).WithField("driver", appCfg.Storage.Driver).Error("Error opening storage")
		return err
	}
	defer closeKV()
	logrus.WithField("driver", appCfg.Storage.Driver).Info("✅ Storage ready")

	cached, err := cache.NewCachedKVStore(kv, appCfg.Storage.CacheMaxItems, time.Duration(appCfg.Storage.CacheTTLSeconds)*time.Second)
	if err != nil {
		return fmt.Errorf("create storage cache: %w", err)
	}
	defer cached.Close()
	prefs := storage.NewPrefs(cached)

	rateMetrics := metrics.NewRateMetrics(prometheus.DefaultRegisterer)
	bus := events.NewBus()

	// Settings and translations
	settingsMgr := settings.NewManager(prefs)
	current := settingsMgr.Load(startupCtx)
	translator, err := i18n.New(current.Locale)
	if err != nil {
		logrus.WithError(err).Error("Failed to load translations")
		return err
	}
	settingsMgr.OnChange(func(prev, next domain.Settings) {
		if prev.Locale != next.Locale {
			translator.SetLocale(next.Locale)
		}
	})

	// Currency catalog
	catalog, err := currency.LoadCatalog()
	if err != nil {
		logrus.WithError(err).Error("Failed to load currency catalog")
		return err
	}
	codeValidator := currency.NewValidator(catalog.Codes())
	logrus.Info("✅ Supported currencies loaded")

	// Rate sources, primary first
	baseHTTPClient := &http.Client{Timeout: appCfg.HTTPClient.Timeout()}
	fetcher := rate.NewFetcher(rateMetrics,
		httpclient.NewRateSource(baseHTTPClient, primarySource, strings.TrimSuffix(appCfg.ExchangeRateAPI.PrimaryURL, "/")),
		httpclient.NewRateSource(baseHTTPClient, fallbackSource, strings.TrimSuffix(appCfg.ExchangeRateAPI.FallbackURL, "/")),
	)
	store := rate.NewStore(fetcher, prefs, bus, rateMetrics)

	// Board state
	tracked := currency.NewTracked(prefs)
	tracked.Load(startupCtx)
	history := currency.NewHistory(prefs, rateMetrics)
	history.Load(startupCtx)

	service := converter.NewService(store, tracked, history, catalog, translator)
	bus.SubscribeRates(service.HandleRatesUpdated)

	// Rates: persisted cache first, then a live refresh
	currentBase := func() string {
		if b := store.Snapshot().Rates.Base; b != "" {
			return b
		}
		return appCfg.Rates.DefaultBase
	}
	if store.Bootstrap(startupCtx, appCfg.Rates.DefaultBase) {
		logrus.Info("✅ Cached rates restored")
	}
	if live, refreshErr := store.Refresh(ctx, currentBase()); refreshErr != nil {
		logrus.WithError(refreshErr).Error("Failed to load any exchange rates")
		return refreshErr
	} else if !live {
		logrus.Warn("Starting in offline mode")
	}

	scheduler := rate.NewScheduler(store, settingsMgr.AutoUpdate, currentBase, time.Duration(appCfg.Scheduler.JobDurationSec)*time.Second)
	// Ensure scheduler stops before storage closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	h := handler.NewHandler(handler.Deps{
		Rates:      store,
		Board:      service,
		Tracked:    tracked,
		History:    history,
		Settings:   settingsMgr,
		Validator:  codeValidator,
		Catalog:    catalog,
		Translator: translator,
	})
	router := api.NewRouter(h, promhttp.Handler())

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

// openKVStore connects the configured storage backend. The returned func
// releases its connections.
func openKVStore(ctx context.Context, cfg *config.AppConfig) (adapters.KVStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := db.CreatePoolAndPing(ctx, cfg.DbServer)
		if err != nil {
			return nil, nil, err
		}
		if err = db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewKVStore(pool), pool.Close, nil

	case config.StorageRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		store := redisstore.NewKVStore(client, cfg.Redis.KeyPrefix)
		return store, func() { _ = store.Close() }, nil

	default:
		return memory.NewKVStore(), func() {}, nil
	}
}
