package expense

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
	"github.com/jkowalski/ExpenseTracker/internal/auth"
	"github.com/jkowalski/ExpenseTracker/internal/category"
)

const (
	minNameLength = 3
	maxNameLength = 100

	// bulkDeletePageSize is the fixed page size of DeleteAllExpensesForUser.
	bulkDeletePageSize = 20
)

type Expense struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Date        Date               `json:"date"`
	Notes       string             `json:"notes"`
	Category    *category.Category `json:"category,omitempty"`
	UserID      string             `json:"-"`
}

// CategoryInput names the category an expense belongs to. The category is
// created for the owner when it does not exist yet.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SaveRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
	Date        Date           `json:"date"`
	Notes       string         `json:"notes"`
	Category    *CategoryInput `json:"category"`
}

// Patch applies only the fields present in the payload.
type Patch struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Amount      *float64       `json:"amount"`
	Date        *Date          `json:"date"`
	Notes       *string        `json:"notes"`
	Category    *CategoryInput `json:"category"`
}

type Service interface {
	GetAllExpenses(p auth.Principal, page, limit int) ([]Expense, error)
	GetExpenseByID(p auth.Principal, id int64) (*Expense, error)
	SaveExpense(p auth.Principal, req SaveRequest) (*Expense, error)
	UpdateExpense(p auth.Principal, id int64, patch Patch) (*Expense, error)
	DeleteExpenseByID(p auth.Principal, id int64) error
	DeleteAllExpensesForUser(p auth.Principal) error
	GetExpensesByName(p auth.Principal, keyword string, page, limit int) ([]Expense, error)
	GetExpensesByDate(p auth.Principal, start, end *time.Time, page, limit int) ([]Expense, error)
	GetExpensesByCategoryName(p auth.Principal, name string, page, limit int) ([]Expense, error)
}

type service struct {
	repo       Repository
	categories category.Service
}

func NewExpenseService(repo Repository, categories category.Service) Service {
	return &service{repo: repo, categories: categories}
}

func RoundToTwoDecimalPlaces(value float64) float64 {
	return math.Round(value*100) / 100
}

func validateName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return apperror.NewValidation("expense name must be between %d and %d characters", minNameLength, maxNameLength)
	}
	return nil
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return apperror.NewValidation("expense amount must be greater than zero")
	}
	return nil
}

func (s *service) GetAllExpenses(p auth.Principal, page, limit int) ([]Expense, error) {
	expenses, _, err := s.repo.findPageByUserID(p.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		return []Expense{}, nil
	}
	return expenses, nil
}

func (s *service) GetExpenseByID(p auth.Principal, id int64) (*Expense, error) {
	return s.repo.findByUserIDAndID(p.UserID, id)
}

func (s *service) SaveExpense(p auth.Principal, req SaveRequest) (*Expense, error) {
	validationErrors := &apperror.ValidationErrors{}
	if err := validateName(req.Name); err != nil {
		validationErrors.Add(err)
	}
	if err := validateAmount(req.Amount); err != nil {
		validationErrors.Add(err)
	}
	if req.Date.IsZero() {
		validationErrors.Add(apperror.NewValidation("expense date must be provided"))
	}
	if req.Category == nil || req.Category.Name == "" {
		validationErrors.Add(apperror.NewValidation("category name must be provided to add an expense"))
	}
	if len(validationErrors.Errors) > 0 {
		return nil, validationErrors
	}

	cat, err := s.categories.ResolveCategory(p, req.Category.Name, req.Category.Description)
	if err != nil {
		return nil, err
	}

	expense := &Expense{
		Name:        req.Name,
		Description: req.Description,
		Amount:      RoundToTwoDecimalPlaces(req.Amount),
		Date:        req.Date,
		Notes:       req.Notes,
		Category:    cat,
		UserID:      p.UserID,
	}
	if err := s.repo.save(expense); err != nil {
		return nil, err
	}
	log.Info().Int64("expenseID", expense.ID).Str("userID", p.UserID).Msg("saved expense")
	return expense, nil
}

func (s *service) UpdateExpense(p auth.Principal, id int64, patch Patch) (*Expense, error) {
	existingExpense, err := s.repo.findByUserIDAndID(p.UserID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		existingExpense.Name = *patch.Name
	}
	if patch.Description != nil {
		existingExpense.Description = *patch.Description
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
		existingExpense.Amount = RoundToTwoDecimalPlaces(*patch.Amount)
	}
	if patch.Date != nil {
		existingExpense.Date = *patch.Date
	}
	if patch.Notes != nil {
		existingExpense.Notes = *patch.Notes
	}

	// A patched category must already exist for the owner. Updates never
	// vivify categories the way saves do.
	if patch.Category != nil && patch.Category.Name != "" {
		cat, err := s.categories.GetCategoryByName(p, patch.Category.Name)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("category not found for name: %s", patch.Category.Name)
			}
			return nil, err
		}
		if patch.Category.Description != "" && patch.Category.Description != cat.Description {
			cat, err = s.categories.UpdateCategory(p, cat.ID, category.Patch{Description: &patch.Category.Description})
			if err != nil {
				return nil, err
			}
		}
		existingExpense.Category = cat
	}

	if err := s.repo.update(existingExpense); err != nil {
		return nil, err
	}
	return existingExpense, nil
}

func (s *service) DeleteExpenseByID(p auth.Principal, id int64) error {
	if _, err := s.repo.findByUserIDAndID(p.UserID, id); err != nil {
		return err
	}
	if err := s.repo.delete(p.UserID, id); err != nil {
		return err
	}
	log.Info().Int64("expenseID", id).Msg("deleted expense")
	return nil
}

// DeleteAllExpensesForUser deletes page by page until the store reports no
// further page. Nothing to delete on the very first page is an error, not a
// no-op.
func (s *service) DeleteAllExpensesForUser(p auth.Principal) error {
	deletedAny := false
	for {
		expenses, hasNext, err := s.repo.findPageByUserID(p.UserID, bulkDeletePageSize, 0)
		if err != nil {
			return err
		}
		if len(expenses) == 0 {
			break
		}

		ids := make([]int64, len(expenses))
		for i, expense := range expenses {
			ids[i] = expense.ID
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
		return apperror.NewNotFound("no expenses found for user %s", p.UserID)
	}
	log.Info().Str("userID", p.UserID).Msg("deleted all expenses for user")
	return nil
}

func (s *service) GetExpensesByName(p auth.Principal, keyword string, page, limit int) ([]Expense, error) {
	if keyword == "" {
		return nil, apperror.NewValidation("keyword must be provided")
	}
	expenses, err := s.repo.findByUserIDAndNameContaining(p.UserID, keyword, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		return []Expense{}, nil
	}
	return expenses, nil
}

// GetExpensesByDate defaults an absent start to the epoch and an absent end to
// now, so either bound may be given alone.
func (s *service) GetExpensesByDate(p auth.Principal, start, end *time.Time, page, limit int) ([]Expense, error) {
	startDate := time.Unix(0, 0).UTC()
	if start != nil {
		startDate = *start
	}
	endDate := time.Now().UTC()
	if end != nil {
		endDate = *end
	}

	expenses, err := s.repo.findByUserIDAndDateBetween(p.UserID, startDate, endDate, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		return []Expense{}, nil
	}
	return expenses, nil
}

func (s *service) GetExpensesByCategoryName(p auth.Principal, name string, page, limit int) ([]Expense, error) {
	cat, err := s.categories.GetCategoryByName(p, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("category not found for name: %s", name)
		}
		return nil, err
	}

	expenses, err := s.repo.findByUserIDAndCategoryID(p.UserID, cat.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		return []Expense{}, nil
	}
	return expenses, nil
}
