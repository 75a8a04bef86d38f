// Package contextdir resolves course ids to the context ids that live under
// them. The host owns the real context tree; this directory is the narrow
// slice the reset tooling needs to expand a course selector into contexts.
package contextdir

import "context"

// Directory maps courses to their member contexts.
type Directory interface {
	// ContextIDsForCourses returns every context belonging to any of the
	// given courses. Unknown course ids contribute nothing.
	ContextIDsForCourses(ctx context.Context, courseIDs []int64) ([]int64, error)
}
