package auth

import (
	"crypto/rand"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidJWTToken = errors.New("JWT token is invalid")
	ErrExpiredJWTToken = errors.New("JWT token is expired")
)

const defaultJWTDuration = time.Hour

// TokenClaims is the payload of every issued token: the subject is the
// principal's email and Roles carries the literal role names granted at
// issuance time.
type TokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type JWTManagerInterface interface {
	GenerateToken(email string, roles []string) (string, error)
	ExtractEmail(tokenString string) (string, error)
	ValidateToken(tokenString, email string, authorities []string) bool
}

type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager uses JWT_SECRET when provided. Without it a fresh key is
// generated for this process only, so every outstanding token becomes
// unverifiable after a restart.
func NewJWTManager() *JWTManager {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return &JWTManager{secret: []byte(secret), ttl: defaultJWTDuration}
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatal().Err(err).Msg("could not generate JWT signing key")
	}
	log.Warn().Msg("JWT_SECRET not set, using an in-memory signing key; issued tokens will not survive a restart")
	return &JWTManager{secret: key, ttl: defaultJWTDuration}
}

func (j *JWTManager) GenerateToken(email string, roles []string) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ExtractEmail parses and signature-verifies the token and returns its
// subject. Expired tokens are reported separately from malformed ones so the
// authentication gate can fail them with a distinguishable message.
func (j *JWTManager) ExtractEmail(tokenString string) (string, error) {
	claims, err := j.parseClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ValidateToken reports whether the token belongs to email, is unexpired and
// covers every expected authority. The embedded roles may be a superset of
// the expected ones: a token issued before a role was revoked still passes as
// long as it covers what is required now.
func (j *JWTManager) ValidateToken(tokenString, email string, authorities []string) bool {
	claims, err := j.parseClaims(tokenString)
	if err != nil {
		return false
	}
	if claims.Subject != email {
		return false
	}

	granted := make(map[string]bool, len(claims.Roles))
	for _, role := range claims.Roles {
		granted[role] = true
	}
	for _, authority := range authorities {
		if !granted[authority] {
			return false
		}
	}
	return true
}

func (j *JWTManager) parseClaims(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredJWTToken
		}
		return nil, ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}
