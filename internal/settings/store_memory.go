package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"integrity/pkg/platform/sentinel"
)

// InMemoryStore keeps settings in a map for unit tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings map[string]Setting
	clock    func() time.Time
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemoryStore returns an empty settings store.
func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		settings: make(map[string]Setting),
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func mapKey(policyName string, contextID int64) string {
	return fmt.Sprintf("%s/%d", policyName, contextID)
}

func (s *InMemoryStore) Get(_ context.Context, policyName string, contextID int64) (*Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[mapKey(policyName, contextID)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &setting, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, setting *Setting) (*Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	key := mapKey(setting.PolicyName, setting.ContextID)

	stored := Setting{
		PolicyName: setting.PolicyName,
		ContextID:  setting.ContextID,
		Enabled:    setting.Enabled,
		ModifiedBy: setting.ModifiedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing, ok := s.settings[key]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	s.settings[key] = stored
	return &stored, nil
}

func (s *InMemoryStore) Delete(_ context.Context, policyName string, contextID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.settings, mapKey(policyName, contextID))
	return nil
}

func (s *InMemoryStore) DeleteByContexts(_ context.Context, contextIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, setting := range s.settings {
		for _, id := range contextIDs {
			if setting.ContextID == id {
				delete(s.settings, key)
				break
			}
		}
	}
	return nil
}

func (s *InMemoryStore) AnonymizeUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, setting := range s.settings {
		if setting.ModifiedBy == userID {
			setting.ModifiedBy = 0
			s.settings[key] = setting
		}
	}
	return nil
}

func (s *InMemoryStore) ListModifiedBy(_ context.Context, userID int64) ([]Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Setting
	for _, setting := range s.settings {
		if setting.ModifiedBy == userID {
			out = append(out, setting)
		}
	}
	return out, nil
}

// Count reports the number of rows. Exposed for natural-key tests.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.settings)
}
