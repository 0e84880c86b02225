package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jkowalski/ExpenseTracker/internal/api"
	"github.com/jkowalski/ExpenseTracker/internal/apperror"
	"github.com/jkowalski/ExpenseTracker/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	user, err := h.service.Register(req)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, user)
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	user, err := h.service.GetUser(principal)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var patch UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	user, err := h.service.UpdateUser(principal, patch)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleUpdateUserByID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var patch UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	user, err := h.service.UpdateUserByID(userID, patch)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	if err := h.service.DeleteUser(principal); err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondNoContent(w)
}
