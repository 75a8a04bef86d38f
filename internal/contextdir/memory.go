package contextdir

import (
	"context"
	"slices"
	"sync"
)

// InMemoryDirectory is a map-backed Directory for tests and development.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	byCourse map[int64][]int64
}

// NewInMemoryDirectory returns an empty directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{byCourse: make(map[int64][]int64)}
}

// Add registers a context under a course.
func (d *InMemoryDirectory) Add(courseID, contextID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.Contains(d.byCourse[courseID], contextID) {
		d.byCourse[courseID] = append(d.byCourse[courseID], contextID)
	}
}

func (d *InMemoryDirectory) ContextIDsForCourses(_ context.Context, courseIDs []int64) ([]int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []int64
	for _, courseID := range courseIDs {
		out = append(out, d.byCourse[courseID]...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
