package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/melodiq/practice-league/external/encore"
	"github.com/melodiq/practice-league/external/jobqueue"
	"github.com/melodiq/practice-league/internal/config"
	"github.com/melodiq/practice-league/internal/domain/epoch"
	"github.com/melodiq/practice-league/internal/domain/jobscheduler"
	"github.com/melodiq/practice-league/internal/domain/league"
	cacherepo "github.com/melodiq/practice-league/internal/infrastructure/repository/cache"
	"github.com/melodiq/practice-league/internal/infrastructure/repository/memory"
	"github.com/melodiq/practice-league/internal/infrastructure/repository/postgres"
	"github.com/melodiq/practice-league/internal/interfaces/httpapi"
	basecache "github.com/melodiq/practice-league/internal/platform/cache"
	idgen "github.com/melodiq/practice-league/internal/platform/id"
	"github.com/melodiq/practice-league/internal/platform/logging"
	"github.com/melodiq/practice-league/internal/platform/resilience"
	"github.com/melodiq/practice-league/internal/usecase"
)

// NewHTTPServer wires storage, services, and transport into a ready server.
// The returned cleanup closes resources the server owns; call it after
// Shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	leagueRepo, dispatchRepo, db, err := newLeagueStorage(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if db != nil {
			return db.Close()
		}
		return nil
	}

	queue := newJobQueue(cfg, logger)

	leagueSvc := usecase.NewLeagueService(leagueRepo, idgen.NewRandomGenerator("lg"))
	standingSvc := usecase.NewLeagueStandingService(leagueRepo)
	xpSvc := usecase.NewLeagueXPService(leagueRepo)
	auditSvc := usecase.NewLeagueAuditService(
		leagueRepo,
		queue,
		dispatchRepo,
		usecase.LeagueAuditConfig{
			MaxWorkers:   cfg.LeagueAuditMaxWorkers,
			SelfSchedule: cfg.LeagueAuditSelfSchedule,
		},
		logger,
	)

	verifier := encore.NewClient(nil, encore.ClientConfig{
		BaseURL:         cfg.EncoreBaseURL,
		IntrospectPath:  cfg.EncoreIntrospectPath,
		AdminKey:        cfg.EncoreAdminKey,
		Timeout:         cfg.EncoreTimeout,
		CacheTTL:        cfg.EncoreCacheTTL,
		CacheMaxEntries: cfg.EncoreCacheMaxEntries,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EncoreCircuitEnabled,
			FailureThreshold: cfg.EncoreCircuitFailureCount,
			OpenTimeout:      cfg.EncoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EncoreCircuitHalfOpenMaxReq,
		},
	}, logger)

	handler := httpapi.NewHandler(leagueSvc, standingSvc, xpSvc, auditSvc, dispatchRepo, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// newLeagueStorage selects the configured storage backend. The *sqlx.DB is
// non-nil only for the postgres driver; the memory driver runs without a
// dispatch ledger.
func newLeagueStorage(cfg config.Config, logger *logging.Logger) (league.Repository, jobscheduler.Repository, *sqlx.DB, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		repo := memory.NewLeagueRepository(nil)
		if cfg.SeedDemoData {
			now := time.Now().UTC()
			weekStart := epoch.WeekID(now)
			if err := memory.SeedDemoWeek(context.Background(), repo, weekStart, now); err != nil {
				return nil, nil, nil, fmt.Errorf("seed demo data: %w", err)
			}
			logger.Info("demo leagues seeded", "week_start", weekStart)
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver)
		return repo, nil, nil, nil

	case config.StorageDriverPostgres:
		db, err := otelsqlx.Connect(
			"postgres",
			normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		var leagueRepo league.Repository = postgres.NewLeagueRepository(db)
		if cfg.CacheEnabled {
			leagueRepo = cacherepo.NewLeagueRepository(leagueRepo, basecache.NewStore(cfg.CacheTTL))
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db", dbNameFromURL(cfg.DBURL), "cache_enabled", cfg.CacheEnabled)
		return leagueRepo, postgres.NewJobDispatchRepository(db), db, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func newJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		logger.Info("qstash disabled, using noop job queue")
		return usecase.NewNoopJobQueue()
	}

	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
}
