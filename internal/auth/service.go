package auth

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

// Credentials is the stored shape of a principal as the authentication layer
// needs it: identity, password hash and the literal set of role names.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
	Authorities  []string
}

// CredentialStore adapts the user store to the authentication layer. It is
// implemented by the user service.
type CredentialStore interface {
	LoadByEmail(email string) (Credentials, error)
}

type Service interface {
	Login(email, password string) (string, error)
	JWTAuthenticationMiddleware() func(http.Handler) http.Handler
}

type service struct {
	credentials CredentialStore
	jwtManager  JWTManagerInterface
}

func NewAuthService(credentials CredentialStore, jwtManager JWTManagerInterface) Service {
	return &service{
		credentials: credentials,
		jwtManager:  jwtManager,
	}
}

// Login verifies the password against the stored hash and issues a token
// carrying the principal's current role names. Unknown emails and wrong
// passwords fail identically.
func (s *service) Login(email, password string) (string, error) {
	credentials, err := s.credentials.LoadByEmail(email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return "", apperror.NewAuthentication("bad credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credentials.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewAuthentication("bad credentials")
	}

	token, err := s.jwtManager.GenerateToken(credentials.Email, credentials.Authorities)
	if err != nil {
		return "", err
	}
	log.Info().Str("email", email).Msg("generated token")
	return token, nil
}
