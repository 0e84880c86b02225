package category

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type Repository interface {
	findPageByUserID(userID string, limit, offset int) ([]Category, bool, error)
	findByUserIDAndID(userID string, id int64) (*Category, error)
	findByNameAndUserID(name, userID string) (*Category, error)
	existsByNameAndUserID(name, userID string) (bool, error)
	save(category *Category) error
	update(category *Category) error
	delete(userID string, id int64) error
	deleteAll(userID string, ids []int64) error
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) Repository {
	return &categoryRepository{db: db}
}

// findPageByUserID fetches one page plus a single extra row to learn whether
// a next page exists.
func (r *categoryRepository) findPageByUserID(userID string, limit, offset int) ([]Category, bool, error) {
	query := `
		SELECT id, name, description, user_id
		FROM categories
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(query, userID, limit+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("could not list categories: %v", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.UserID); err != nil {
			return nil, false, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	hasNext := len(categories) > limit
	if hasNext {
		categories = categories[:limit]
	}
	return categories, hasNext, nil
}

func (r *categoryRepository) findByUserIDAndID(userID string, id int64) (*Category, error) {
	query := `
		SELECT id, name, description, user_id
		FROM categories
		WHERE user_id = $1 AND id = $2
	`
	return r.queryOne(query, userID, id)
}

func (r *categoryRepository) findByNameAndUserID(name, userID string) (*Category, error) {
	query := `
		SELECT id, name, description, user_id
		FROM categories
		WHERE user_id = $1 AND name = $2
	`
	return r.queryOne(query, userID, name)
}

func (r *categoryRepository) queryOne(query string, args ...interface{}) (*Category, error) {
	var category Category
	err := r.db.QueryRow(query, args...).Scan(&category.ID, &category.Name, &category.Description, &category.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("category is not found")
		}
		return nil, fmt.Errorf("could not find category: %v", err)
	}
	return &category, nil
}

func (r *categoryRepository) existsByNameAndUserID(name, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND user_id = $2)`
	err := r.db.QueryRow(query, name, userID).Scan(&exists)
	return exists, err
}

func (r *categoryRepository) save(category *Category) error {
	query := `
		INSERT INTO categories (name, description, user_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRow(query, category.Name, category.Description, category.UserID).Scan(&category.ID); err != nil {
		return fmt.Errorf("could not create category: %v", err)
	}
	return nil
}

func (r *categoryRepository) update(category *Category) error {
	query := `
		UPDATE categories
		SET name = $3, description = $4
		WHERE user_id = $1 AND id = $2
	`
	if _, err := r.db.Exec(query, category.UserID, category.ID, category.Name, category.Description); err != nil {
		return fmt.Errorf("could not update category: %v", err)
	}
	return nil
}

func (r *categoryRepository) delete(userID string, id int64) error {
	return r.deleteAll(userID, []int64{id})
}

// deleteAll detaches the owner's expenses from the removed categories before
// deleting them, keeping the expense rows valid.
func (r *categoryRepository) deleteAll(userID string, ids []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback()

	placeholders, args := idList(userID, ids)
	if _, err := tx.Exec(`UPDATE expenses SET category_id = NULL WHERE user_id = $1 AND category_id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("could not detach expenses: %v", err)
	}
	if _, err := tx.Exec(`DELETE FROM categories WHERE user_id = $1 AND id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("could not delete categories: %v", err)
	}

	return tx.Commit()
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
