package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix  = "finance_atlas:board:"
	DefaultTTL = 5 * time.Minute
)

// BoardCache keeps flattened board snapshots in redis.
type BoardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBoardCache(client *redis.Client, ttl time.Duration) *BoardCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BoardCache{client: client, ttl: ttl}
}

// Connect opens a client and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func boardKey(boardID string) string {
	return keyPrefix + boardID
}

// Get returns the cached table of a board. ok is false on a miss.
func (c *BoardCache) Get(ctx context.Context, boardID string) (table domain.Table, ok bool, err error) {
	key := boardKey(boardID)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Table{}, false, nil
	}
	if err != nil {
		return domain.Table{}, false, fmt.Errorf("failed to read board snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &table); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("board", boardID).Msg("dropping corrupted board snapshot")
		_ = c.client.Del(ctx, key).Err()
		return domain.Table{}, false, nil
	}
	return table, true, nil
}

func (c *BoardCache) Set(ctx context.Context, boardID string, table domain.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode board snapshot: %w", err)
	}
	if err := c.client.Set(ctx, boardKey(boardID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write board snapshot: %w", err)
	}
	return nil
}

func (c *BoardCache) Invalidate(ctx context.Context, boardID string) error {
	return c.client.Del(ctx, boardKey(boardID)).Err()
}
