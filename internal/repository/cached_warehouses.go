package repository

import (
	"context"
	"errors"
	"time"

	"TruthSource/internal/domain/repository"
	"TruthSource/pkg/cache"
	"TruthSource/pkg/logger"
)

const defaultWarehouseTTL = time.Hour

// CachedWarehouses remembers postal codes per warehouse. Lookup failures
// are not cached.
type CachedWarehouses struct {
	next  repository.WarehouseDirectory
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

var _ repository.WarehouseDirectory = (*CachedWarehouses)(nil)

func NewCachedWarehouses(next repository.WarehouseDirectory, c cache.Service, ttl time.Duration, l *logger.Logger) *CachedWarehouses {
	if ttl <= 0 {
		ttl = defaultWarehouseTTL
	}
	if l == nil {
		l = logger.NewNop()
	}
	return &CachedWarehouses{next: next, cache: c, ttl: ttl, log: l}
}

func (w *CachedWarehouses) PostalCode(ctx context.Context, warehouseID string) (string, error) {
	key := cache.Key("warehouse", warehouseID, "zip")
	zip, err := w.cache.Get(ctx, key)
	if err == nil {
		return zip, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		w.log.Warn("warehouse cache read failed", logger.String("warehouse_id", warehouseID), logger.Error(err))
	}

	zip, err = w.next.PostalCode(ctx, warehouseID)
	if err != nil {
		return "", err
	}
	if err := w.cache.Set(ctx, key, zip, w.ttl); err != nil {
		w.log.Warn("warehouse cache write failed", logger.String("warehouse_id", warehouseID), logger.Error(err))
	}
	return zip, nil
}
