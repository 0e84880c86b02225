package role

import (
	"github.com/rs/zerolog/log"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"roleName"`
}

// Patch updates only the fields present in the payload.
type Patch struct {
	Name *string `json:"roleName"`
}

type Service interface {
	CreateRole(name string) (*Role, error)
	ReadRole(id int64) (*Role, error)
	UpdateRole(id int64, patch Patch) (*Role, error)
	ReadAllRoles() ([]Role, error)
}

type service struct {
	repo Repository
}

func NewRoleService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateRole(name string) (*Role, error) {
	if name == "" {
		return nil, apperror.NewValidation("role name should not be empty")
	}

	exists, err := s.repo.existsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("role with %s already exists", name)
	}

	role := &Role{Name: name}
	if err := s.repo.save(role); err != nil {
		return nil, err
	}
	log.Info().Str("roleName", role.Name).Msg("created role")
	return role, nil
}

func (s *service) ReadRole(id int64) (*Role, error) {
	return s.repo.findByID(id)
}

func (s *service) UpdateRole(id int64, patch Patch) (*Role, error) {
	currentRole, err := s.repo.findByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		currentRole.Name = *patch.Name
	}
	if err := s.repo.update(currentRole); err != nil {
		return nil, err
	}
	return currentRole, nil
}

func (s *service) ReadAllRoles() ([]Role, error) {
	roles, err := s.repo.findAll()
	if err != nil {
		return nil, err
	}
	if roles == nil {
		return []Role{}, nil
	}
	return roles, nil
}
