package integrity

import (
	"context"

	"integrity/internal/platform/middleware"
)

// PrincipalAuthorizer grants the on-behalf capability to operator principals.
// It reads the principal the auth middleware stored in the request context;
// deployments with a richer permission system supply their own Authorizer.
type PrincipalAuthorizer struct{}

func (PrincipalAuthorizer) CanAgreeOnBehalf(ctx context.Context, _ int64) (bool, error) {
	p, ok := middleware.GetPrincipal(ctx)
	return ok && p.Admin, nil
}
