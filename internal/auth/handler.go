package auth

import (
	"encoding/json"
	"net/http"

	"github.com/jkowalski/ExpenseTracker/internal/api"
	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	validationErrors := &apperror.ValidationErrors{}
	if req.Email == "" {
		validationErrors.Add(apperror.NewValidation("email should not be empty"))
	}
	if req.Password == "" {
		validationErrors.Add(apperror.NewValidation("password should not be empty"))
	}
	if len(validationErrors.Errors) > 0 {
		api.RespondError(w, validationErrors)
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, loginResponse{Token: token})
}
