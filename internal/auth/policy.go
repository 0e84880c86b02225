package auth

import (
	"net/http"
	"strings"

	"github.com/jkowalski/ExpenseTracker/internal/api"
	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

// accessRule maps a path prefix to its role requirement. Rules are evaluated
// top to bottom, first match wins; paths matching no rule require any
// authenticated principal.
type accessRule struct {
	prefix  string
	public  bool
	anyRole []string
}

var accessRules = []accessRule{
	{prefix: "/login", public: true},
	{prefix: "/register", public: true},
	{prefix: "/expenses", anyRole: []string{"ADMIN", "USER"}},
	{prefix: "/categories", anyRole: []string{"ADMIN", "USER"}},
	{prefix: "/roles", anyRole: []string{"ADMIN"}},
	{prefix: "/user", anyRole: []string{"ADMIN"}},
	{prefix: "/delete", anyRole: []string{"ADMIN"}},
	{prefix: "/profiles", anyRole: []string{"ADMIN"}},
}

func matchRule(path string) (accessRule, bool) {
	for _, rule := range accessRules {
		if path == rule.prefix || strings.HasPrefix(path, rule.prefix+"/") {
			return rule, true
		}
	}
	return accessRule{}, false
}

// RequireAccess enforces the policy table before any handler runs. An
// unauthenticated request to a protected pattern gets 401, an authenticated
// one without the required role gets 403.
func RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rule, matched := matchRule(r.URL.Path)
		if matched && rule.public {
			next.ServeHTTP(w, r)
			return
		}

		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			api.RespondError(w, apperror.NewAuthentication("authentication required"))
			return
		}

		if matched && len(rule.anyRole) > 0 && !principal.HasAnyRole(rule.anyRole...) {
			api.RespondError(w, apperror.NewAuthorization("access denied"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
