// Package tenant carries the caller's tenant identity through a context and
// resolves it for the relationship managers.
package tenant

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type ctxKey string

const tenantContextKey ctxKey = "taskboard.tenant"

// WithTenant returns a copy of ctx carrying the tenant id.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenantID)
}

// FromContext returns the tenant id stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tenantContextKey).(string)
	return v, ok
}

// Guard resolves the tenant from the request context.
type Guard struct{}

var _ types.TenantResolver = Guard{}

// Tenant returns the context's tenant id, or ErrUnauthorized when it is
// missing or blank.
func (Guard) Tenant(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok || strings.TrimSpace(id) == "" {
		return "", types.ErrUnauthorized
	}
	return id, nil
}

// Static resolves every context to a fixed tenant. A tenant already present
// in the context takes precedence.
type Static string

var _ types.TenantResolver = Static("")

// Tenant implements types.TenantResolver.
func (s Static) Tenant(ctx context.Context) (string, error) {
	if id, ok := FromContext(ctx); ok && strings.TrimSpace(id) != "" {
		return id, nil
	}
	if strings.TrimSpace(string(s)) == "" {
		return "", types.ErrUnauthorized
	}
	return string(s), nil
}
