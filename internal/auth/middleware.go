package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jkowalski/ExpenseTracker/internal/api"
	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

// JWTAuthenticationMiddleware is the authentication gate. It runs once per
// request: without a bearer token the request continues anonymously and the
// access policy decides its fate; with one, a malformed or expired token
// fails the request outright.
func (s *service) JWTAuthenticationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			email, err := s.jwtManager.ExtractEmail(tokenString)
			if err != nil {
				if errors.Is(err, ErrExpiredJWTToken) {
					api.RespondError(w, apperror.NewAuthentication(ErrExpiredJWTToken.Error()))
					return
				}
				api.RespondError(w, apperror.NewAuthentication(ErrInvalidJWTToken.Error()))
				return
			}

			ctx := r.Context()
			if _, ok := PrincipalFromContext(ctx); !ok {
				credentials, err := s.credentials.LoadByEmail(email)
				if err != nil {
					if apperror.IsNotFound(err) {
						api.RespondError(w, apperror.NewAuthentication("user not found for email: %s", email))
						return
					}
					api.RespondError(w, err)
					return
				}

				if s.jwtManager.ValidateToken(tokenString, credentials.Email, credentials.Authorities) {
					ctx = WithPrincipal(ctx, Principal{
						UserID:      credentials.UserID,
						Email:       credentials.Email,
						Authorities: credentials.Authorities,
					})
				} else {
					log.Warn().Str("email", email).Msg("JWT token validation failed")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
