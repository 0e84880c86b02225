package api

import (
	"net/http"
	"strconv"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// ParsePagination reads the page and limit query parameters, falling back to
// defaults when absent.
func ParsePagination(r *http.Request) (page, limit int, err error) {
	page = defaultPage
	limit = defaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, apperror.NewValidation("page must be a positive integer")
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, apperror.NewValidation("limit must be between 1 and %d", maxLimit)
		}
	}
	return page, limit, nil
}
