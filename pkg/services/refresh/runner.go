package refresh

import (
	"context"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/services/board"
	"github.com/rs/zerolog"
)

const (
	DefaultInterval      = 5 * time.Minute
	DefaultRetryInterval = 30 * time.Second
)

type RunnerConfig struct {
	Interval      time.Duration
	RetryInterval time.Duration
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	return c
}

type RunnerProgress struct {
	Board       domain.Board
	Rows        int
	RefreshedAt time.Time
}

// Runner refetches one board on a fixed interval and stores the snapshot in the cache.
type Runner struct {
	board    domain.Board
	source   board.Source
	cache    board.SnapshotCache
	done     chan struct{}
	progress chan RunnerProgress
	config   RunnerConfig
}

func NewRunner(b domain.Board, source board.Source, cache board.SnapshotCache, config RunnerConfig) *Runner {
	return &Runner{
		board:    b,
		source:   source,
		cache:    cache,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, 100),
		config:   config.withDefaults(),
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Progress reports each successful refresh. Updates are dropped while the buffer is full.
func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("board", r.board.ID).Logger()
	defer close(r.done)
	defer close(r.progress)

	for {
		wait := r.config.Interval
		if err := r.refresh(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info().Msg("board refresh stopped")
				return
			}
			logger.Error().Err(err).Msg("board refresh failed")
			wait = r.config.RetryInterval
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("board refresh stopped")
			return
		case <-time.After(wait):
		}
	}
}

func (r *Runner) refresh(ctx context.Context) error {
	table, err := r.source.Table(ctx, r.board.ID)
	if err != nil {
		return err
	}
	if err := r.cache.Set(ctx, r.board.ID, table); err != nil {
		return err
	}

	select {
	case r.progress <- RunnerProgress{Board: r.board, Rows: len(table.Rows), RefreshedAt: time.Now()}:
	default:
	}
	return nil
}
