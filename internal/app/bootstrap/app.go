package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/silentequity/lead-intake/internal/api/router"
	appconfig "github.com/silentequity/lead-intake/internal/config"
	"github.com/silentequity/lead-intake/internal/database"
	"github.com/silentequity/lead-intake/internal/http/handlers"
	"github.com/silentequity/lead-intake/internal/leadexport"
	"github.com/silentequity/lead-intake/internal/leads"
	"github.com/silentequity/lead-intake/internal/observability/metrics"
	"github.com/silentequity/lead-intake/pkg/logging"
)

// App is the fully wired HTTP surface plus the resources it owns.
type App struct {
	Handler http.Handler
	Pool    *database.LazyPool

	sqlDB *sql.DB
	redis *redis.Client
}

// Build wires stores, notifiers, metrics and routes from cfg. awsCfg may be
// nil when no AWS-backed feature is configured. Nothing connects to Postgres
// until the first request needs it.
func Build(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{Pool: database.NewLazyPool(cfg.DatabaseURL, cfg.DBMaxConns)}

	store := BuildLeadStore(app.Pool, logger)
	leadsHandler := leads.NewHandler(store, logger.Component("leads")).WithTimeout(cfg.SaveLeadTimeout)
	if notifiers := BuildNotifiers(cfg, awsCfg, logger); len(notifiers) > 0 {
		leadsHandler.WithNotifier(notifiers)
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		leadsHandler.WithMetrics(metrics.NewLeadMetrics(reg))
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	app.redis = BuildRedisClient(ctx, cfg, logger, true)

	adminLeads, sqlDB, err := BuildAdminLeads(cfg, awsCfg, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.sqlDB = sqlDB

	app.Handler = router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		AdminLeads:         adminLeads,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        BuildRateLimiter(app.redis, cfg, logger),
	})
	return app, nil
}

// BuildLeadStore uses Postgres when a connection string is set and process
// memory otherwise.
func BuildLeadStore(pool *database.LazyPool, logger *logging.Logger) leads.Store {
	if pool != nil && pool.Configured() {
		return leads.NewLazyPostgresRepository(pool)
	}
	if logger != nil {
		logger.Warn("POSTGRES_URL not set; leads are kept in memory only")
	}
	return leads.NewInMemoryRepository()
}

// BuildAdminLeads wires the read-only admin surface. It is skipped when there
// is no admin secret or database. The returned *sql.DB is owned by the caller.
func BuildAdminLeads(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*handlers.AdminLeadsHandler, *sql.DB, error) {
	if cfg.AdminJWTSecret == "" || cfg.DatabaseURL == "" {
		return nil, nil, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: open admin db: %w", err)
	}
	db.SetMaxOpenConns(2)

	adminStore := leads.NewAdminStore(db)

	var exporter handlers.LeadExporter
	if awsCfg != nil && cfg.LeadExportBucket != "" {
		client := s3.NewFromConfig(*awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		exporter = leadexport.NewExporter(adminStore, client, cfg.LeadExportBucket, logger.Component("leadexport"))
	}

	return handlers.NewAdminLeadsHandler(adminStore, exporter, logger.Component("admin")), db, nil
}

// Close releases the pool, the admin DB handle and Redis.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.sqlDB != nil {
		errs = append(errs, a.sqlDB.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
