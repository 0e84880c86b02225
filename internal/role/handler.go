package role

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jkowalski/ExpenseTracker/internal/api"
	"github.com/jkowalski/ExpenseTracker/internal/apperror"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type createRoleRequest struct {
	Name string `json:"roleName"`
}

func (h *Handler) HandleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	role, err := h.service.CreateRole(req.Name)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, role)
}

func (h *Handler) HandleReadRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseRoleID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	role, err := h.service.ReadRole(id)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, role)
}

func (h *Handler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseRoleID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	role, err := h.service.UpdateRole(id, patch)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, role)
}

func (h *Handler) HandleReadAllRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ReadAllRoles()
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, roles)
}

func parseRoleID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.NewValidation("invalid role id")
	}
	return id, nil
}
