package user

import (
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
	"github.com/jkowalski/ExpenseTracker/internal/auth"
)

const (
	bcryptCost        = 12
	minPasswordLength = 5
	defaultRoleName   = "ROLE_USER"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Roles     []string  `json:"roleNames"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfileInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

type RegisterRequest struct {
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Profile  *ProfileInput `json:"profile"`
}

// ProfilePatch and UserPatch carry partial updates: a nil field is left
// untouched, a present one overwrites the stored value.
type ProfilePatch struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
}

type UserPatch struct {
	Username  *string       `json:"username"`
	Email     *string       `json:"email"`
	Password  *string       `json:"password"`
	RoleNames []string      `json:"roleNames"`
	Profile   *ProfilePatch `json:"profile"`
}

type Service interface {
	Register(req RegisterRequest) (*User, error)
	GetUser(p auth.Principal) (*User, error)
	UpdateUser(p auth.Principal, patch UserPatch) (*User, error)
	UpdateUserByID(userID string, patch UserPatch) (*User, error)
	DeleteUser(p auth.Principal) error
	LoadByEmail(email string) (auth.Credentials, error)
}

type service struct {
	repo Repository
}

func NewUserService(repo Repository) Service {
	return &service{repo: repo}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

// Register creates the principal with the default ROLE_USER role and an
// optional profile. Requested role names in the payload are ignored; roles
// are granted through the admin endpoints.
func (s *service) Register(req RegisterRequest) (*User, error) {
	validationErrors := &apperror.ValidationErrors{}
	if req.Username == "" {
		validationErrors.Add(apperror.NewValidation("name should not be empty"))
	}
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		validationErrors.Add(apperror.NewValidation("enter valid email"))
	}
	if len(req.Password) < minPasswordLength {
		validationErrors.Add(apperror.NewValidation("password should be at least %d characters long", minPasswordLength))
	}
	if len(validationErrors.Errors) > 0 {
		return nil, validationErrors
	}

	exists, err := s.repo.existsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("user is already registered with email %s", req.Email)
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		Password: passwordHash,
		Roles:    []string{defaultRoleName},
	}

	if err := s.repo.createUser(user, req.Profile); err != nil {
		return nil, err
	}
	log.Info().Str("email", user.Email).Msg("registered new user")
	return user, nil
}

func (s *service) GetUser(p auth.Principal) (*User, error) {
	return s.repo.getUserByID(p.UserID)
}

func (s *service) UpdateUser(p auth.Principal, patch UserPatch) (*User, error) {
	return s.UpdateUserByID(p.UserID, patch)
}

func (s *service) UpdateUserByID(userID string, patch UserPatch) (*User, error) {
	currentUser, err := s.repo.getUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.applyPatch(currentUser, patch); err != nil {
		return nil, err
	}

	if err := s.repo.updateUser(currentUser, patch.Profile); err != nil {
		return nil, err
	}
	log.Info().Str("userID", currentUser.ID).Msg("updated user")
	return currentUser, nil
}

func (s *service) applyPatch(currentUser *User, patch UserPatch) error {
	if patch.Username != nil {
		if *patch.Username == "" {
			return apperror.NewValidation("username cannot be empty")
		}
		currentUser.Username = *patch.Username
	}
	if patch.Email != nil {
		if err := checkmail.ValidateFormat(*patch.Email); err != nil {
			return apperror.NewValidation("invalid email format")
		}
		currentUser.Email = *patch.Email
	}
	if patch.Password != nil && *patch.Password != "" {
		passwordHash, err := hashPassword(*patch.Password)
		if err != nil {
			return err
		}
		currentUser.Password = passwordHash
	}

	if len(patch.RoleNames) == 0 {
		return apperror.NewValidation("at least one role is required")
	}
	for _, roleName := range patch.RoleNames {
		exists, err := s.repo.roleExistsByName(roleName)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("role %s not found", roleName)
		}
	}
	currentUser.Roles = patch.RoleNames
	return nil
}

// DeleteUser removes the account and everything it owns. Role links go
// first, then expenses, categories and the profile, then the row itself.
func (s *service) DeleteUser(p auth.Principal) error {
	if _, err := s.repo.getUserByID(p.UserID); err != nil {
		return err
	}
	if err := s.repo.deleteUser(p.UserID); err != nil {
		return err
	}
	log.Info().Str("userID", p.UserID).Msg("deleted user")
	return nil
}

// LoadByEmail is the credential store adapter: it translates a stored user
// into the shape the authentication layer works with. Authorities are the
// literal role names, no hierarchy expansion.
func (s *service) LoadByEmail(email string) (auth.Credentials, error) {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		return auth.Credentials{}, err
	}
	return auth.Credentials{
		UserID:       user.ID,
		Email:        user.Email,
		PasswordHash: user.Password,
		Authorities:  user.Roles,
	}, nil
}
