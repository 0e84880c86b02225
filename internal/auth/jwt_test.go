package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestJWTManager(ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte("test-secret"), ttl: ttl}
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	manager := newTestJWTManager(time.Hour)

	token, err := manager.GenerateToken("john@example.com", []string{"ROLE_USER"})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	email, err := manager.ExtractEmail(token)
	assert.NoError(t, err)
	assert.Equal(t, "john@example.com", email)
}

func TestExtractEmail_ExpiredToken(t *testing.T) {
	manager := newTestJWTManager(-time.Minute)

	token, err := manager.GenerateToken("john@example.com", []string{"ROLE_USER"})
	assert.NoError(t, err)

	_, err = manager.ExtractEmail(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestExtractEmail_MalformedToken(t *testing.T) {
	manager := newTestJWTManager(time.Hour)

	_, err := manager.ExtractEmail("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestExtractEmail_WrongSecret(t *testing.T) {
	manager := newTestJWTManager(time.Hour)
	other := &JWTManager{secret: []byte("other-secret"), ttl: time.Hour}

	token, err := other.GenerateToken("john@example.com", []string{"ROLE_USER"})
	assert.NoError(t, err)

	_, err = manager.ExtractEmail(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestValidateToken(t *testing.T) {
	manager := newTestJWTManager(time.Hour)

	token, err := manager.GenerateToken("john@example.com", []string{"ROLE_USER", "ROLE_ADMIN"})
	assert.NoError(t, err)

	tests := []struct {
		name        string
		email       string
		authorities []string
		want        bool
	}{
		{"exact match", "john@example.com", []string{"ROLE_USER", "ROLE_ADMIN"}, true},
		{"token covers a superset of what is required", "john@example.com", []string{"ROLE_USER"}, true},
		{"no authorities required", "john@example.com", nil, true},
		{"missing authority", "john@example.com", []string{"ROLE_MANAGER"}, false},
		{"wrong subject", "jane@example.com", []string{"ROLE_USER"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, manager.ValidateToken(token, tt.email, tt.authorities))
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	manager := newTestJWTManager(-time.Minute)

	token, err := manager.GenerateToken("john@example.com", []string{"ROLE_USER"})
	assert.NoError(t, err)

	assert.False(t, manager.ValidateToken(token, "john@example.com", []string{"ROLE_USER"}))
}
