package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"integrity/internal/platform/cache"
	"integrity/internal/platform/metrics"
	pkgerrors "integrity/pkg/domain-errors"
	"integrity/pkg/platform/sentinel"
)

// CachedStore applies the read-through/write-through discipline over a Store.
//
// Read path: a cache hit is returned immediately, including hits on the
// negative entry ("no such setting"). A miss loads from the store and caches
// the result either way. A failing cache backend degrades to the store; the
// cache is an optimization, never a correctness dependency.
//
// Write path: the authoritative store is written first. Only after a
// confirmed write is the fresh record pushed into the cache, keeping it warm
// instead of forcing a re-read. If the cache refresh fails the entry is
// evicted; a stale entry must not survive, since entries never expire.
type CachedStore struct {
	store   Store
	cache   cache.Cache
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedStore wraps store with the given cache backend.
func NewCachedStore(store Store, c cache.Cache, log *slog.Logger, m *metrics.Metrics) *CachedStore {
	return &CachedStore{store: store, cache: c, log: log, metrics: m}
}

// CacheKey builds the composite cache key for a setting.
func CacheKey(policyName string, contextID int64) string {
	return fmt.Sprintf("settings:%s:%d", policyName, contextID)
}

// Get returns the setting for (policy, context), or nil when none exists.
func (s *CachedStore) Get(ctx context.Context, policyName string, contextID int64) (*Setting, error) {
	key := CacheKey(policyName, contextID)

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.cacheError(ctx, "get", key, err)
	} else if found {
		s.metrics.CacheRequests.WithLabelValues("hit").Inc()
		if raw == nil {
			return nil, nil
		}
		var setting Setting
		if err := json.Unmarshal(raw, &setting); err == nil {
			return &setting, nil
		}
		// Corrupt entry: fall through to the store and rewrite it below.
		s.log.WarnContext(ctx, "corrupt cache entry", "key", key)
	} else {
		s.metrics.CacheRequests.WithLabelValues("miss").Inc()
	}

	setting, err := s.store.Get(ctx, policyName, contextID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.fill(ctx, key, nil)
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "load setting")
	}
	s.fill(ctx, key, setting)
	return setting, nil
}

// SetEnabled creates or updates the setting, then refreshes the cache with
// the row the store actually persisted.
func (s *CachedStore) SetEnabled(ctx context.Context, policyName string, contextID int64, enabled bool, modifiedBy int64) (*Setting, error) {
	stored, err := s.store.Upsert(ctx, &Setting{
		PolicyName: policyName,
		ContextID:  contextID,
		Enabled:    enabled,
		ModifiedBy: modifiedBy,
	})
	if err != nil {
		// Authoritative write failed: the cache must remain untouched.
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "store setting")
	}
	if err := s.refresh(ctx, CacheKey(policyName, contextID), stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Delete removes the setting and evicts its cache entry.
func (s *CachedStore) Delete(ctx context.Context, policyName string, contextID int64) error {
	if err := s.store.Delete(ctx, policyName, contextID); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeStorage, "delete setting")
	}
	key := CacheKey(policyName, contextID)
	if err := s.cache.Delete(ctx, key); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeStorage, "evict setting cache entry")
	}
	return nil
}

// IsEnabled reports whether the policy is enabled in the context. False when
// no setting row exists.
func (s *CachedStore) IsEnabled(ctx context.Context, policyName string, contextID int64) (bool, error) {
	setting, err := s.Get(ctx, policyName, contextID)
	if err != nil {
		return false, err
	}
	return setting != nil && setting.Enabled, nil
}

// fill is the read-path cache population: best effort, a failure only logs.
func (s *CachedStore) fill(ctx context.Context, key string, setting *Setting) {
	var payload []byte
	if setting != nil {
		payload, _ = json.Marshal(setting)
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		s.cacheError(ctx, "fill", key, err)
	}
}

// refresh is the write-path cache update: falls back to eviction, and only
// when both fail does the mutation surface an error.
func (s *CachedStore) refresh(ctx context.Context, key string, setting *Setting) error {
	payload, _ := json.Marshal(setting)
	if err := s.cache.Set(ctx, key, payload); err != nil {
		s.cacheError(ctx, "refresh", key, err)
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			return pkgerrors.Wrap(delErr, pkgerrors.CodeStorage, "cache refresh and eviction both failed")
		}
	}
	return nil
}

func (s *CachedStore) cacheError(ctx context.Context, op, key string, err error) {
	s.metrics.CacheRequests.WithLabelValues("error").Inc()
	s.log.WarnContext(ctx, "settings cache unavailable", "op", op, "key", key, "error", err.Error())
}
