package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAnyRole(t *testing.T) {
	principal := Principal{
		UserID:      "user-1",
		Email:       "john@example.com",
		Authorities: []string{"ROLE_USER"},
	}

	assert.True(t, principal.HasAnyRole("USER"))
	assert.True(t, principal.HasAnyRole("ROLE_USER"))
	assert.True(t, principal.HasAnyRole("ADMIN", "USER"))
	assert.False(t, principal.HasAnyRole("ADMIN"))
	assert.False(t, principal.HasAnyRole())
}

func TestMatchRule(t *testing.T) {
	tests := []struct {
		path    string
		matched bool
		public  bool
	}{
		{"/login", true, true},
		{"/register", true, true},
		{"/expenses", true, false},
		{"/expenses/42", true, false},
		{"/categories/7", true, false},
		{"/profiles", true, false},
		// prefix match is segment-aware, /profile is not /profiles
		{"/profile", false, false},
		{"/loginx", false, false},
		{"/somewhere-else", false, false},
	}
	for _, tt := range tests {
		rule, matched := matchRule(tt.path)
		assert.Equal(t, tt.matched, matched, tt.path)
		if matched {
			assert.Equal(t, tt.public, rule.public, tt.path)
		}
	}
}

func requireAccessStatus(t *testing.T, path string, principal *Principal) int {
	t.Helper()

	handler := RequireAccess(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if principal != nil {
		req = req.WithContext(WithPrincipal(req.Context(), *principal))
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Result().StatusCode
}

func TestRequireAccess_PublicPath(t *testing.T) {
	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/login", nil))
	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/register", nil))
}

func TestRequireAccess_Unauthenticated(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, requireAccessStatus(t, "/expenses", nil))
	assert.Equal(t, http.StatusUnauthorized, requireAccessStatus(t, "/somewhere-else", nil))
}

func TestRequireAccess_RoleEnforcement(t *testing.T) {
	user := &Principal{UserID: "user-1", Authorities: []string{"ROLE_USER"}}
	admin := &Principal{UserID: "admin-1", Authorities: []string{"ROLE_ADMIN"}}

	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/expenses", user))
	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/categories", user))
	assert.Equal(t, http.StatusForbidden, requireAccessStatus(t, "/roles", user))
	assert.Equal(t, http.StatusForbidden, requireAccessStatus(t, "/user/abc", user))
	assert.Equal(t, http.StatusForbidden, requireAccessStatus(t, "/delete", user))
	assert.Equal(t, http.StatusForbidden, requireAccessStatus(t, "/profiles", user))

	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/roles", admin))
	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/expenses", admin))
	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/profiles", admin))
}

func TestRequireAccess_UnmatchedPathNeedsAuthenticationOnly(t *testing.T) {
	user := &Principal{UserID: "user-1", Authorities: []string{"ROLE_USER"}}
	assert.Equal(t, http.StatusOK, requireAccessStatus(t, "/somewhere-else", user))
}
