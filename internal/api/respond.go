package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

// ErrorObject is the body of every error response.
type ErrorObject struct {
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// ValidationErrorObject carries the aggregated per-field messages of a failed
// validation instead of a single message.
type ValidationErrorObject struct {
	StatusCode int       `json:"statusCode"`
	Messages   []string  `json:"messages"`
	Timestamp  time.Time `json:"timestamp"`
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("could not encode response payload")
		}
	}
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError is the single boundary translator: domain services return
// typed errors and nothing below this function formats an HTTP response.
func RespondError(w http.ResponseWriter, err error) {
	var validationErrors *apperror.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		RespondJSON(w, http.StatusBadRequest, ValidationErrorObject{
			StatusCode: http.StatusBadRequest,
			Messages:   validationErrors.Messages(),
			Timestamp:  time.Now().UTC(),
		})
	case apperror.IsValidation(err):
		respondErrorObject(w, http.StatusBadRequest, err.Error())
	case apperror.IsAuthentication(err):
		respondErrorObject(w, http.StatusUnauthorized, err.Error())
	case apperror.IsAuthorization(err):
		respondErrorObject(w, http.StatusForbidden, err.Error())
	case apperror.IsNotFound(err):
		respondErrorObject(w, http.StatusNotFound, err.Error())
	case apperror.IsConflict(err):
		respondErrorObject(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("unhandled error")
		respondErrorObject(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func respondErrorObject(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorObject{
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	})
}
