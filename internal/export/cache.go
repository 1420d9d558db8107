package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nezhnik/omonete-sub001/pkg/model"
)

// PageCache keeps rendered list pages warm in Redis so the read-only front
// end serves them without touching the store. The cache is an optimization:
// the JSON artifacts remain the source of truth.
type PageCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewPageCache(addr string, db int, password string, ttl time.Duration, logger *zap.Logger) (*PageCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &PageCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func pageKey(limit, offset int) string {
	return fmt.Sprintf("coins:page:%d:%d", limit, offset)
}

// SetPage stores one rendered page.
func (c *PageCache) SetPage(ctx context.Context, limit, offset int, list *model.CoinList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, pageKey(limit, offset), data, c.ttl).Err()
}

// GetPage returns a cached page, or nil on a miss.
func (c *PageCache) GetPage(ctx context.Context, limit, offset int) (*model.CoinList, error) {
	data, err := c.rdb.Get(ctx, pageKey(limit, offset)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var list model.CoinList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Warm renders and caches the first n pages of the snapshot.
func (c *PageCache) Warm(ctx context.Context, s *Serializer, pageSize, pages int) error {
	for i := 0; i < pages; i++ {
		offset := i * pageSize
		list, err := s.Export(ctx, Page{Limit: pageSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("warm page %d: %w", i, err)
		}
		if err := c.SetPage(ctx, pageSize, offset, list); err != nil {
			return fmt.Errorf("warm page %d: %w", i, err)
		}
		if len(list.Coins) < pageSize {
			break
		}
	}
	c.logger.Info("export.cache_warmed", zap.Int("page_size", pageSize))
	return nil
}

func (c *PageCache) Close() error {
	return c.rdb.Close()
}
