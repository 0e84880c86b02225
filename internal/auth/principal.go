package auth

import (
	"context"
	"strings"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

// Principal is the authenticated identity resolved once per request by the
// authentication gate and passed explicitly into every service call.
type Principal struct {
	UserID      string
	Email       string
	Authorities []string
}

// HasAnyRole matches role names with or without the "ROLE_" prefix, so a rule
// asking for "ADMIN" accepts an authority stored as "ROLE_ADMIN".
func (p Principal) HasAnyRole(names ...string) bool {
	for _, authority := range p.Authorities {
		for _, name := range names {
			if normalizeRole(authority) == normalizeRole(name) {
				return true
			}
		}
	}
	return false
}

func normalizeRole(name string) string {
	return strings.TrimPrefix(name, "ROLE_")
}

type contextKey string

const principalKey = contextKey("principal")

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// RequirePrincipal is what handlers call before delegating to a service: the
// request must carry a recognized identity or the operation fails as
// "authentication required".
func RequirePrincipal(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return Principal{}, apperror.NewAuthentication("authentication required")
	}
	return p, nil
}
