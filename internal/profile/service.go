package profile

import (
	"github.com/jkowalski/ExpenseTracker/internal/auth"
)

type Profile struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	UserID      string `json:"-"`
}

type Service interface {
	GetProfile(p auth.Principal) (*Profile, error)
}

type service struct {
	repo Repository
}

func NewProfileService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(p auth.Principal) (*Profile, error) {
	return s.repo.findByUserID(p.UserID)
}
