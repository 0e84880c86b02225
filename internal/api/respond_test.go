package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

func TestRespondError_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperror.NewValidation("name is required"), http.StatusBadRequest},
		{"authentication", apperror.NewAuthentication("bad credentials"), http.StatusUnauthorized},
		{"authorization", apperror.NewAuthorization("access denied"), http.StatusForbidden},
		{"not found", apperror.NewNotFound("expense is not found"), http.StatusNotFound},
		{"conflict", apperror.NewConflict("already exists"), http.StatusConflict},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondError(w, tt.err)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.status, res.StatusCode)

			var body ErrorObject
			assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
			assert.Equal(t, tt.status, body.StatusCode)
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}

func TestRespondError_InternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondError(w, errors.New("pq: connection refused"))

	var body ErrorObject
	assert.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestRespondError_AggregatedValidation(t *testing.T) {
	validationErrors := &apperror.ValidationErrors{}
	validationErrors.Add(apperror.NewValidation("username must be provided"))
	validationErrors.Add(apperror.NewValidation("email is not valid"))

	w := httptest.NewRecorder()
	RespondError(w, validationErrors)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var body ValidationErrorObject
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, body.StatusCode)
	assert.Equal(t, []string{"username must be provided", "email is not valid"}, body.Messages)
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	page, limit, err := ParsePagination(req)
	assert.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	req = httptest.NewRequest(http.MethodGet, "/expenses?page=3&limit=5", nil)
	page, limit, err = ParsePagination(req)
	assert.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, limit)

	req = httptest.NewRequest(http.MethodGet, "/expenses?page=0", nil)
	_, _, err = ParsePagination(req)
	assert.True(t, apperror.IsValidation(err))

	req = httptest.NewRequest(http.MethodGet, "/expenses?limit=9999", nil)
	_, _, err = ParsePagination(req)
	assert.True(t, apperror.IsValidation(err))
}
