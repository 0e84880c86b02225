package user

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type Repository interface {
	createUser(user *User, profile *ProfileInput) error
	getUserByID(id string) (*User, error)
	getUserByEmail(email string) (*User, error)
	existsByEmail(email string) (bool, error)
	roleExistsByName(name string) (bool, error)
	updateUser(user *User, profilePatch *ProfilePatch) error
	deleteUser(userID string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{db: db}
}

func (r *userRepository) createUser(user *User, profile *ProfileInput) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	if _, err := tx.Exec(query, user.ID, user.Username, user.Email, user.Password); err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}

	if err := replaceRoles(tx, user.ID, user.Roles); err != nil {
		return err
	}

	if profile != nil {
		query = `
			INSERT INTO profiles (user_id, first_name, last_name, phone_number, address)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(query, user.ID, profile.FirstName, profile.LastName, profile.PhoneNumber, profile.Address); err != nil {
			return fmt.Errorf("could not create profile: %v", err)
		}
	}

	return tx.Commit()
}

func replaceRoles(tx *sql.Tx, userID string, roleNames []string) error {
	if _, err := tx.Exec(`DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("could not clear user roles: %v", err)
	}
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
	`
	for _, roleName := range roleNames {
		result, err := tx.Exec(query, userID, roleName)
		if err != nil {
			return fmt.Errorf("could not assign role %s: %v", roleName, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.NewNotFound("role %s not found", roleName)
		}
	}
	return nil
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	return r.getUser(`WHERE id = $1`, id)
}

func (r *userRepository) getUserByEmail(email string) (*User, error) {
	return r.getUser(`WHERE email = $1`, email)
}

func (r *userRepository) getUser(where string, arg interface{}) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users ` + where

	var user User
	err := r.db.QueryRow(query, arg).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}

	roles, err := r.getRoleNames(user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *userRepository) getRoleNames(userID string) ([]string, error) {
	query := `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load roles: %v", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

func (r *userRepository) existsByEmail(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *userRepository) roleExistsByName(name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *userRepository) updateUser(user *User, profilePatch *ProfilePatch) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.Exec(query, user.ID, user.Username, user.Email, user.Password); err != nil {
		return fmt.Errorf("could not update user: %v", err)
	}

	if err := replaceRoles(tx, user.ID, user.Roles); err != nil {
		return err
	}

	if profilePatch != nil {
		query = `
			UPDATE profiles
			SET first_name   = COALESCE($2, first_name),
			    last_name    = COALESCE($3, last_name),
			    phone_number = COALESCE($4, phone_number),
			    address      = COALESCE($5, address)
			WHERE user_id = $1
		`
		if _, err := tx.Exec(query, user.ID, profilePatch.FirstName, profilePatch.LastName, profilePatch.PhoneNumber, profilePatch.Address); err != nil {
			return fmt.Errorf("could not update profile: %v", err)
		}
	}

	return tx.Commit()
}

// deleteUser clears everything the account owns in one transaction: role
// links first so no dangling join rows survive, then the owned rows.
func (r *userRepository) deleteUser(userID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM user_roles WHERE user_id = $1`,
		`DELETE FROM expenses WHERE user_id = $1`,
		`DELETE FROM categories WHERE user_id = $1`,
		`DELETE FROM profiles WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	}
	for _, statement := range statements {
		if _, err := tx.Exec(statement, userID); err != nil {
			return fmt.Errorf("could not delete user data: %v", err)
		}
	}

	return tx.Commit()
}
