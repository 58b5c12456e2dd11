package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/services/aggregate"
	"github.com/de-tools/finance-atlas/pkg/services/board"
	"github.com/de-tools/finance-atlas/pkg/services/config"
	"github.com/de-tools/finance-atlas/pkg/services/ingest"
	"github.com/de-tools/finance-atlas/pkg/services/ledger"
	"github.com/de-tools/finance-atlas/pkg/services/refresh"
	"github.com/de-tools/finance-atlas/pkg/services/report"
	boardstore "github.com/de-tools/finance-atlas/pkg/store/board"
	"github.com/de-tools/finance-atlas/pkg/store/cache"
	"github.com/de-tools/finance-atlas/pkg/store/duckdb"
	ledgerstore "github.com/de-tools/finance-atlas/pkg/store/ledger"
	"github.com/de-tools/finance-atlas/pkg/store/postgres"
	"github.com/de-tools/finance-atlas/pkg/telemetry/metrics"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds the wired services shared by the web server and the CLI.
type App struct {
	Config   *config.Config
	Profile  *domain.BoardProfile
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Reports  report.Service
	Ledger   ledger.Service
	Importer *ingest.Importer

	// Refresher is set when the board cache is connected and a refresh interval is configured.
	Refresher *refresh.DefaultController

	db      *sqlx.DB
	closers []io.Closer
}

// New opens the ledger database and builds the services. The board profile may be nil for
// commands that only touch the ledger; reports then fail on the first board fetch.
func New(ctx context.Context, cfg *config.Config, profile *domain.BoardProfile) (*App, error) {
	logger := zerolog.Ctx(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a := &App{Config: cfg, Profile: profile, Registry: reg, Metrics: m}

	db, err := OpenLedgerDB(ctx, cfg.Ledger)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, db)

	store, err := ledgerstore.NewStore(db, cfg.Ledger.Table, cfg.Ledger.QueryTimeout)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create ledger store: %w", err)
	}
	a.Ledger = ledger.NewService(store, m)
	a.Importer = ingest.NewImporter(a.Ledger, m)

	if profile == nil {
		profile = &domain.BoardProfile{APIURL: boardstore.DefaultAPIURL}
	}
	transport, err := boardstore.NewClient(boardstore.Settings{
		APIURL:      profile.APIURL,
		APIKey:      profile.APIKey,
		MinInterval: cfg.Board.MinRequestInterval,
	}, nil)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create board client: %w", err)
	}

	flattener := board.NewFlattener(transport, cfg.Board.PageSize, cfg.Board.MaxItems, m)
	var source board.Source = flattener
	if cfg.Cache.Enabled {
		client, err := cache.Connect(ctx, cfg.Cache.Addr)
		if err != nil {
			// Reports still work without the cache.
			logger.Warn().Err(err).Msg("board cache disabled")
		} else {
			a.closers = append(a.closers, client)
			snapshots := cache.NewBoardCache(client, cfg.Cache.TTL)
			source = board.Cached(flattener, snapshots, m)
			if cfg.Cache.RefreshInterval > 0 {
				a.Refresher = refresh.NewController(flattener, snapshots, refresh.RunnerConfig{
					Interval: cfg.Cache.RefreshInterval,
				})
			}
		}
	}

	a.Reports = report.NewService(source, a.Ledger, report.Config{
		Boards: profile.SalesBoards,
		Columns: aggregate.RevenueColumns{
			Date:   cfg.Board.DateColumn,
			Amount: cfg.Board.AmountColumn,
		},
		TopN: cfg.Report.TopN,
	}, m)

	return a, nil
}

// OpenLedgerDB opens the configured ledger backend. Postgres schemas are migrated when
// migrate_on_start is set; DuckDB creates its schema on connect.
func OpenLedgerDB(ctx context.Context, cfg config.LedgerConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case duckdb.DriverName:
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		return db, nil
	case postgres.DriverName:
		db, err := postgres.NewDB(ctx, postgres.Settings{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", cfg.Driver)
	}
}

// Boards returns the configured sales boards, or none without a profile.
func (a *App) Boards() []domain.Board {
	if a.Profile == nil {
		return nil
	}
	return a.Profile.SalesBoards
}

// StartRefresh begins background snapshot refreshes for every sales board. It is a no-op
// without a refresher.
func (a *App) StartRefresh(ctx context.Context) error {
	if a.Refresher == nil {
		return nil
	}
	for _, b := range a.Boards() {
		if err := a.Refresher.Start(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Close() error {
	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
