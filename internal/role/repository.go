package role

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type Repository interface {
	save(role *Role) error
	findByID(id int64) (*Role, error)
	findAll() ([]Role, error)
	existsByName(name string) (bool, error)
	update(role *Role) error
}

type roleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) Repository {
	return &roleRepository{db: db}
}

func (r *roleRepository) save(role *Role) error {
	query := `INSERT INTO roles (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRow(query, role.Name).Scan(&role.ID); err != nil {
		return fmt.Errorf("could not create role: %v", err)
	}
	return nil
}

func (r *roleRepository) findByID(id int64) (*Role, error) {
	var role Role
	err := r.db.QueryRow(`SELECT id, name FROM roles WHERE id = $1`, id).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("role not found for id: %d", id)
		}
		return nil, fmt.Errorf("could not find role: %v", err)
	}
	return &role, nil
}

func (r *roleRepository) findAll() ([]Role, error) {
	rows, err := r.db.Query(`SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not list roles: %v", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) existsByName(name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *roleRepository) update(role *Role) error {
	_, err := r.db.Exec(`UPDATE roles SET name = $2 WHERE id = $1`, role.ID, role.Name)
	if err != nil {
		return fmt.Errorf("could not update role: %v", err)
	}
	return nil
}
