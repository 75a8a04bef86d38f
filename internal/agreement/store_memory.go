package agreement

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// InMemoryStore keeps agreements in a map for unit tests and local development.
type InMemoryStore struct {
	mu         sync.RWMutex
	agreements map[string]Agreement
	clock      func() time.Time
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

// NewInMemoryStore returns an empty agreement store.
func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		agreements: make(map[string]Agreement),
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func tripleKey(policyName string, userID, contextID int64) string {
	return fmt.Sprintf("%s/%d/%d", policyName, userID, contextID)
}

func (s *InMemoryStore) ListContextIDs(_ context.Context, policyName string, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []int64
	for _, a := range s.agreements {
		if a.PolicyName == policyName && a.UserID == userID {
			out = append(out, a.ContextID)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *InMemoryStore) Insert(_ context.Context, agreement *Agreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tripleKey(agreement.PolicyName, agreement.UserID, agreement.ContextID)
	if _, ok := s.agreements[key]; ok {
		return nil
	}
	s.agreements[key] = Agreement{
		PolicyName: agreement.PolicyName,
		UserID:     agreement.UserID,
		ContextID:  agreement.ContextID,
		CreatedAt:  s.clock(),
	}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, policyName string, userID, contextID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.agreements, tripleKey(policyName, userID, contextID))
	return nil
}

func (s *InMemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agreements = make(map[string]Agreement)
	return nil
}

func (s *InMemoryStore) DeleteByContexts(_ context.Context, contextIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.agreements {
		if slices.Contains(contextIDs, a.ContextID) {
			delete(s.agreements, key)
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteByUsers(_ context.Context, userIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.agreements {
		if slices.Contains(userIDs, a.UserID) {
			delete(s.agreements, key)
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteByPolicies(_ context.Context, policyNames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, a := range s.agreements {
		if slices.Contains(policyNames, a.PolicyName) {
			delete(s.agreements, key)
		}
	}
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID int64) ([]Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Agreement
	for _, a := range s.agreements {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b Agreement) int {
		if a.PolicyName != b.PolicyName {
			if a.PolicyName < b.PolicyName {
				return -1
			}
			return 1
		}
		return int(a.ContextID - b.ContextID)
	})
	return out, nil
}

// Count reports the number of rows. Exposed for idempotence tests.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.agreements)
}
