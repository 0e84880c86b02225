package category

import (
	"github.com/rs/zerolog/log"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
	"github.com/jkowalski/ExpenseTracker/internal/auth"
)

const (
	minNameLength        = 3
	maxNameLength        = 100
	maxDescriptionLength = 255

	// bulkDeletePageSize is the fixed page size of DeleteAllCategoriesForUser.
	bulkDeletePageSize = 20
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      string `json:"-"`
}

// Patch applies only the fields present in the payload.
type Patch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type Service interface {
	GetAllCategories(p auth.Principal, page, limit int) ([]Category, error)
	SaveCategory(p auth.Principal, name, description string) (*Category, error)
	UpdateCategory(p auth.Principal, id int64, patch Patch) (*Category, error)
	DeleteCategoryByID(p auth.Principal, id int64) error
	DeleteAllCategoriesForUser(p auth.Principal) error
	GetCategoryByName(p auth.Principal, name string) (*Category, error)
	ResolveCategory(p auth.Principal, name, description string) (*Category, error)
}

type service struct {
	repo Repository
}

func NewCategoryService(repo Repository) Service {
	return &service{repo: repo}
}

func validateName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return apperror.NewValidation("category name must be between %d and %d characters", minNameLength, maxNameLength)
	}
	return nil
}

func (s *service) GetAllCategories(p auth.Principal, page, limit int) ([]Category, error) {
	categories, _, err := s.repo.findPageByUserID(p.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		return []Category{}, nil
	}
	return categories, nil
}

func (s *service) SaveCategory(p auth.Principal, name, description string) (*Category, error) {
	validationErrors := &apperror.ValidationErrors{}
	if err := validateName(name); err != nil {
		validationErrors.Add(err)
	}
	if len(description) > maxDescriptionLength {
		validationErrors.Add(apperror.NewValidation("description must not exceed %d characters", maxDescriptionLength))
	}
	if len(validationErrors.Errors) > 0 {
		return nil, validationErrors
	}

	exists, err := s.repo.existsByNameAndUserID(name, p.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("category with name: %s already exists", name)
	}

	category := &Category{Name: name, Description: description, UserID: p.UserID}
	if err := s.repo.save(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) UpdateCategory(p auth.Principal, id int64, patch Patch) (*Category, error) {
	existingCategory, err := s.repo.findByUserIDAndID(p.UserID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != existingCategory.Name {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		exists, err := s.repo.existsByNameAndUserID(*patch.Name, p.UserID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.NewConflict("category with name: %s already exists", *patch.Name)
		}
		existingCategory.Name = *patch.Name
	}
	if patch.Description != nil {
		existingCategory.Description = *patch.Description
	}

	if err := s.repo.update(existingCategory); err != nil {
		return nil, err
	}
	return existingCategory, nil
}

func (s *service) DeleteCategoryByID(p auth.Principal, id int64) error {
	if _, err := s.repo.findByUserIDAndID(p.UserID, id); err != nil {
		return err
	}
	if err := s.repo.delete(p.UserID, id); err != nil {
		return err
	}
	log.Info().Int64("categoryID", id).Msg("deleted category")
	return nil
}

// DeleteAllCategoriesForUser deletes page by page until the store reports no
// further page. Nothing to delete on the very first page is an error, not a
// no-op.
func (s *service) DeleteAllCategoriesForUser(p auth.Principal) error {
	deletedAny := false
	for {
		categories, hasNext, err := s.repo.findPageByUserID(p.UserID, bulkDeletePageSize, 0)
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			break
		}

		ids := make([]int64, len(categories))
		for i, category := range categories {
			ids[i] = category.ID
		}
		if err := s.repo.deleteAll(p.UserID, ids); err != nil {
			return err
		}
		deletedAny = true

		if !hasNext {
			break
		}
	}

	if !deletedAny {
		return apperror.NewNotFound("no categories found for user %s", p.UserID)
	}
	log.Info().Str("userID", p.UserID).Msg("deleted all categories for user")
	return nil
}

func (s *service) GetCategoryByName(p auth.Principal, name string) (*Category, error) {
	return s.repo.findByNameAndUserID(name, p.UserID)
}

// ResolveCategory returns the owner's category with the given name, creating
// it on the fly when missing. Saving an expense is allowed to vivify its
// category instead of failing.
func (s *service) ResolveCategory(p auth.Principal, name, description string) (*Category, error) {
	category, err := s.repo.findByNameAndUserID(name, p.UserID)
	if err == nil {
		return category, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	category = &Category{Name: name, Description: description, UserID: p.UserID}
	if err := s.repo.save(category); err != nil {
		return nil, err
	}
	log.Debug().Str("name", name).Str("userID", p.UserID).Msg("created category on demand")
	return category, nil
}
