package expense

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
	"github.com/jkowalski/ExpenseTracker/internal/category"
)

type Repository interface {
	findPageByUserID(userID string, limit, offset int) ([]Expense, bool, error)
	findByUserIDAndID(userID string, id int64) (*Expense, error)
	findByUserIDAndNameContaining(userID, keyword string, limit, offset int) ([]Expense, error)
	findByUserIDAndDateBetween(userID string, start, end time.Time, limit, offset int) ([]Expense, error)
	findByUserIDAndCategoryID(userID string, categoryID int64, limit, offset int) ([]Expense, error)
	save(expense *Expense) error
	update(expense *Expense) error
	delete(userID string, id int64) error
	deleteAll(userID string, ids []int64) error
}

type expenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) Repository {
	return &expenseRepository{db: db}
}

const selectExpense = `
	SELECT e.id, e.name, e.description, e.amount, e.date, e.notes, e.user_id,
	       c.id, c.name, c.description
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id
`

func scanExpense(row interface{ Scan(...interface{}) error }) (*Expense, error) {
	var expense Expense
	var date time.Time
	var categoryID sql.NullInt64
	var categoryName, categoryDescription sql.NullString

	err := row.Scan(&expense.ID, &expense.Name, &expense.Description, &expense.Amount, &date, &expense.Notes, &expense.UserID,
		&categoryID, &categoryName, &categoryDescription)
	if err != nil {
		return nil, err
	}

	expense.Date = NewDate(date)
	if categoryID.Valid {
		expense.Category = &category.Category{
			ID:          categoryID.Int64,
			Name:        categoryName.String,
			Description: categoryDescription.String,
			UserID:      expense.UserID,
		}
	}
	return &expense, nil
}

// findPageByUserID fetches one page plus a single extra row to learn whether
// a next page exists.
func (r *expenseRepository) findPageByUserID(userID string, limit, offset int) ([]Expense, bool, error) {
	query := selectExpense + `
		WHERE e.user_id = $1
		ORDER BY e.id
		LIMIT $2 OFFSET $3
	`
	expenses, err := r.queryPage(query, userID, limit+1, offset)
	if err != nil {
		return nil, false, err
	}

	hasNext := len(expenses) > limit
	if hasNext {
		expenses = expenses[:limit]
	}
	return expenses, hasNext, nil
}

func (r *expenseRepository) findByUserIDAndID(userID string, id int64) (*Expense, error) {
	query := selectExpense + `
		WHERE e.user_id = $1 AND e.id = $2
	`
	expense, err := scanExpense(r.db.QueryRow(query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("expense is not found for id: %d", id)
		}
		return nil, fmt.Errorf("could not find expense: %v", err)
	}
	return expense, nil
}

func (r *expenseRepository) findByUserIDAndNameContaining(userID, keyword string, limit, offset int) ([]Expense, error) {
	query := selectExpense + `
		WHERE e.user_id = $1 AND e.name ILIKE '%' || $2 || '%'
		ORDER BY e.id
		LIMIT $3 OFFSET $4
	`
	return r.queryPage(query, userID, keyword, limit, offset)
}

func (r *expenseRepository) findByUserIDAndDateBetween(userID string, start, end time.Time, limit, offset int) ([]Expense, error) {
	query := selectExpense + `
		WHERE e.user_id = $1 AND e.date BETWEEN $2 AND $3
		ORDER BY e.date
		LIMIT $4 OFFSET $5
	`
	return r.queryPage(query, userID, start, end, limit, offset)
}

func (r *expenseRepository) findByUserIDAndCategoryID(userID string, categoryID int64, limit, offset int) ([]Expense, error) {
	query := selectExpense + `
		WHERE e.user_id = $1 AND e.category_id = $2
		ORDER BY e.id
		LIMIT $3 OFFSET $4
	`
	return r.queryPage(query, userID, categoryID, limit, offset)
}

func (r *expenseRepository) queryPage(query string, args ...interface{}) ([]Expense, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list expenses: %v", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func categoryID(expense *Expense) interface{} {
	if expense.Category == nil {
		return nil
	}
	return expense.Category.ID
}

func (r *expenseRepository) save(expense *Expense) error {
	query := `
		INSERT INTO expenses (name, description, amount, date, notes, category_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(query, expense.Name, expense.Description, expense.Amount, expense.Date.Time, expense.Notes, categoryID(expense), expense.UserID).Scan(&expense.ID)
	if err != nil {
		return fmt.Errorf("could not create expense: %v", err)
	}
	return nil
}

func (r *expenseRepository) update(expense *Expense) error {
	query := `
		UPDATE expenses
		SET name = $3, description = $4, amount = $5, date = $6, notes = $7, category_id = $8
		WHERE user_id = $1 AND id = $2
	`
	_, err := r.db.Exec(query, expense.UserID, expense.ID, expense.Name, expense.Description, expense.Amount, expense.Date.Time, expense.Notes, categoryID(expense))
	if err != nil {
		return fmt.Errorf("could not update expense: %v", err)
	}
	return nil
}

func (r *expenseRepository) delete(userID string, id int64) error {
	return r.deleteAll(userID, []int64{id})
}

func (r *expenseRepository) deleteAll(userID string, ids []int64) error {
	placeholders, args := idList(userID, ids)
	if _, err := r.db.Exec(`DELETE FROM expenses WHERE user_id = $1 AND id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("could not delete expenses: %v", err)
	}
	return nil
}

func idList(userID string, ids []int64) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, userID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	return strings.Join(placeholders, ", "), args
}
