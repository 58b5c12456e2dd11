package board

import (
	"context"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/telemetry/metrics"
	"github.com/rs/zerolog"
)

// SnapshotCache stores flattened tables by board id.
type SnapshotCache interface {
	Get(ctx context.Context, boardID string) (domain.Table, bool, error)
	Set(ctx context.Context, boardID string, table domain.Table) error
}

type cachedSource struct {
	next    Source
	cache   SnapshotCache
	metrics *metrics.Metrics
}

// Cached serves tables from cache and fills it from next on a miss. Cache failures fall through
// to next; fetch errors are never cached.
func Cached(next Source, cache SnapshotCache, m *metrics.Metrics) Source {
	return &cachedSource{next: next, cache: cache, metrics: m}
}

func (c *cachedSource) Table(ctx context.Context, boardID string) (domain.Table, error) {
	logger := zerolog.Ctx(ctx)

	table, ok, err := c.cache.Get(ctx, boardID)
	if err != nil {
		logger.Warn().Err(err).Str("board", boardID).Msg("board cache unavailable")
	}
	c.metrics.CacheLookup(ok)
	if ok {
		return table, nil
	}

	table, err = c.next.Table(ctx, boardID)
	if err != nil {
		return domain.Table{}, err
	}

	if err := c.cache.Set(ctx, boardID, table); err != nil {
		logger.Warn().Err(err).Str("board", boardID).Msg("failed to cache board snapshot")
	}
	return table, nil
}
