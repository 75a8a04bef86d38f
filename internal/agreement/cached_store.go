package agreement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"integrity/internal/platform/cache"
	"integrity/internal/platform/metrics"
	pkgerrors "integrity/pkg/domain-errors"
)

// CachedStore caches the per-(policy, user) set of agreed context ids and
// keeps it consistent with the authoritative store on every mutation.
//
// After a confirmed insert or delete the set is re-read from the store and
// written into the cache, so a worker only ever caches a value it has just
// confirmed against the authoritative store. Bulk deletions do not attempt
// per-row invalidation; callers purge the whole cache afterwards instead.
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

// CacheKey builds the composite cache key for a user's agreement set.
func CacheKey(policyName string, userID int64) string {
	return fmt.Sprintf("agreements:%s:%d", policyName, userID)
}

// ListContextIDs returns the set of contexts the user agreed to for a policy.
func (s *CachedStore) ListContextIDs(ctx context.Context, policyName string, userID int64) ([]int64, error) {
	key := CacheKey(policyName, userID)

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.cacheError(ctx, "get", key, err)
	} else if found {
		s.metrics.CacheRequests.WithLabelValues("hit").Inc()
		if raw == nil {
			return nil, nil
		}
		var ids []int64
		if err := json.Unmarshal(raw, &ids); err == nil {
			return ids, nil
		}
		s.log.WarnContext(ctx, "corrupt cache entry", "key", key)
	} else {
		s.metrics.CacheRequests.WithLabelValues("miss").Inc()
	}

	ids, err := s.store.ListContextIDs(ctx, policyName, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "load agreed contexts")
	}
	s.fill(ctx, key, ids)
	return ids, nil
}

// HasAgreed reports whether the user agreed to the policy in the context.
func (s *CachedStore) HasAgreed(ctx context.Context, policyName string, userID, contextID int64) (bool, error) {
	ids, err := s.ListContextIDs(ctx, policyName, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, contextID), nil
}

// Agree records the agreement. Agreeing twice is a no-op.
func (s *CachedStore) Agree(ctx context.Context, policyName string, userID, contextID int64) error {
	agreed, err := s.HasAgreed(ctx, policyName, userID, contextID)
	if err != nil {
		return err
	}
	if agreed {
		return nil
	}
	if err := s.store.Insert(ctx, &Agreement{
		PolicyName: policyName,
		UserID:     userID,
		ContextID:  contextID,
	}); err != nil {
		// Authoritative write failed: the cache must remain untouched.
		return pkgerrors.Wrap(err, pkgerrors.CodeStorage, "store agreement")
	}
	return s.refresh(ctx, policyName, userID)
}

// Revoke removes the agreement. Revoking a missing agreement is a no-op.
func (s *CachedStore) Revoke(ctx context.Context, policyName string, userID, contextID int64) error {
	if err := s.store.Delete(ctx, policyName, userID, contextID); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeStorage, "delete agreement")
	}
	return s.refresh(ctx, policyName, userID)
}

// refresh re-reads the authoritative set after a mutation and writes it into
// the cache, falling back to eviction when the cache write fails.
func (s *CachedStore) refresh(ctx context.Context, policyName string, userID int64) error {
	key := CacheKey(policyName, userID)
	ids, err := s.store.ListContextIDs(ctx, policyName, userID)
	if err != nil {
		// Could not confirm the new set; evict so the next read reloads.
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			return pkgerrors.Wrap(delErr, pkgerrors.CodeStorage, "cache refresh and eviction both failed")
		}
		return nil
	}
	payload, _ := json.Marshal(ids)
	if err := s.cache.Set(ctx, key, payload); err != nil {
		s.cacheError(ctx, "refresh", key, err)
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			return pkgerrors.Wrap(delErr, pkgerrors.CodeStorage, "cache refresh and eviction both failed")
		}
	}
	return nil
}

// fill is the read-path cache population: best effort, a failure only logs.
func (s *CachedStore) fill(ctx context.Context, key string, ids []int64) {
	var payload []byte
	if ids != nil {
		payload, _ = json.Marshal(ids)
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		s.cacheError(ctx, "fill", key, err)
	}
}

func (s *CachedStore) cacheError(ctx context.Context, op, key string, err error) {
	s.metrics.CacheRequests.WithLabelValues("error").Inc()
	s.log.WarnContext(ctx, "agreement cache unavailable", "op", op, "key", key, "error", err.Error())
}
