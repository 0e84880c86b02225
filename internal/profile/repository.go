package profile

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type Repository interface {
	findByUserID(userID string) (*Profile, error)
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) Repository {
	return &profileRepository{db: db}
}

func (r *profileRepository) findByUserID(userID string) (*Profile, error) {
	query := `
		SELECT id, first_name, last_name, phone_number, address, user_id
		FROM profiles
		WHERE user_id = $1
	`

	var profile Profile
	err := r.db.QueryRow(query, userID).Scan(&profile.ID, &profile.FirstName, &profile.LastName, &profile.PhoneNumber, &profile.Address, &profile.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("profile not found for user with id: %s", userID)
		}
		return nil, fmt.Errorf("could not find profile: %v", err)
	}
	return &profile, nil
}
