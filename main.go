package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/intralinks/internal/adapters/cache"
	"github.com/Amund211/intralinks/internal/adapters/contentsearcher"
	"github.com/Amund211/intralinks/internal/adapters/database"
	"github.com/Amund211/intralinks/internal/adapters/permalinks"
	"github.com/Amund211/intralinks/internal/adapters/profileprovider"
	"github.com/Amund211/intralinks/internal/adapters/scheduler"
	"github.com/Amund211/intralinks/internal/adapters/tenantprovider"
	"github.com/Amund211/intralinks/internal/app"
	"github.com/Amund211/intralinks/internal/config"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/logging"
	"github.com/Amund211/intralinks/internal/ports"
	"github.com/Amund211/intralinks/internal/ratelimiting"
	"github.com/Amund211/intralinks/internal/render"
	"github.com/Amund211/intralinks/internal/reporting"
	"github.com/Amund211/intralinks/internal/telemetry"
	"github.com/Amund211/intralinks/internal/urlkeys"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	// Fallback root certificates for containers without a CA bundle
	_ "golang.org/x/crypto/x509roots/fallback"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "intralinks.net"
const STAGING_DOMAIN_SUFFIX = "staging.intralinks.net"

const REFRESH_WORKERS = 4
const REFRESH_QUEUE_SIZE = 256
const MAX_REFRESH_TIME = 30 * time.Second

func main() {
	ctx := context.Background()

	instanceID := uuid.New().String()
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		logHandler = logging.NewGoogleCloudTracingLogHandler(logHandler, project)
	}
	logger := slog.New(logHandler).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	shutdownTelemetry, err := telemetry.SetupOTelSDK(ctx, "intralinks")
	if err != nil {
		fail("Failed to initialize telemetry", "error", err.Error())
	}
	defer shutdownTelemetry(ctx)

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewCloudsqlPostgresDatabase(config)
	if err != nil {
		fail("Failed to initialize database connection", "error", err.Error())
	}
	logger.Info("Initialized database connection")

	schemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	tenants := tenantprovider.NewPostgres(db, schemaName)
	searcher := contentsearcher.NewPostgres(db)
	profiles := profileprovider.NewPostgres(db, schemaName)
	resolver := permalinks.NewResolver()

	var store cache.Store[[]domain.BacklinkRecord]
	if config.RedisAddr() != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddr()})
		defer redisClient.Close()
		store = cache.NewRedis[[]domain.BacklinkRecord](redisClient, app.CACHE_GROUP, 0)
		logger.Info("Using redis backlink store", "addr", config.RedisAddr())
	} else {
		memory := cache.NewMemory[[]domain.BacklinkRecord](0)
		defer memory.Stop()
		store = memory
		logger.Info("Using in-process backlink store")
	}

	// Bound the rate of tenant fan-outs hitting the database
	refreshLimiter := ratelimiting.NewWindowLimitRequestLimiter(
		REFRESH_WORKERS,
		time.Second,
		time.Now,
		time.After,
	)
	jobs := scheduler.NewPool(ctx, scheduler.PoolOptions{
		Workers:    REFRESH_WORKERS,
		QueueSize:  REFRESH_QUEUE_SIZE,
		Limiter:    refreshLimiter,
		MaxJobTime: MAX_REFRESH_TIME,
	})

	backlinkCache := cache.NewSWR(store, jobs, cache.SWROptions[[]domain.BacklinkRecord]{
		TTL:     config.CacheTTL(),
		IsEmpty: func(records []domain.BacklinkRecord) bool { return len(records) == 0 },
	})

	searchBacklinks := app.BuildSearchBacklinks(tenants, searcher, app.DEFAULT_TENANT_PARALLELISM)

	titleLimit := config.TitleLimit()
	normalizeHits := app.BuildNormalizeHits(profiles, resolver, app.NormalizerOptions{
		TitleLimit: &titleLimit,
	})

	renderer := render.NewRenderer(render.Options{
		FaviconURLTemplate: config.FaviconURLTemplate(),
	})

	orchestratorOptions := app.OrchestratorOptions{}
	if !config.ShowBacklinks() {
		orchestratorOptions.Show = func(ctx context.Context, item domain.ContentItem) bool {
			return false
		}
	}

	getBacklinksMarkup := app.BuildGetBacklinksMarkup(
		urlkeys.NewDeriver(nil),
		backlinkCache,
		searchBacklinks,
		normalizeHits,
		renderer,
		render.ContextAssetLoader{},
		orchestratorOptions,
	)

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	http.HandleFunc(
		"OPTIONS /v1/backlinks",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"GET /v1/backlinks",
		ports.MakeGetBacklinksHandler(
			getBacklinksMarkup,
			allowedOrigins,
			logger.With("port", "getbacklinks"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"GET /assets/",
		ports.MakeAssetsHandler(),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), nil)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
