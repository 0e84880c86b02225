package category

import (
	"encoding/json"
	"net/http"
	"strconv"

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

type saveCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) HandleGetAllCategories(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	page, limit, err := api.ParsePagination(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	categories, err := h.service.GetAllCategories(principal, page, limit)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, categories)
}

func (h *Handler) HandleSaveCategory(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var req saveCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	category, err := h.service.SaveCategory(principal, req.Name, req.Description)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, category)
}

func (h *Handler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	id, err := parseCategoryID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	category, err := h.service.UpdateCategory(principal, id, patch)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, category)
}

func (h *Handler) HandleDeleteCategoryByID(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	id, err := parseCategoryID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	if err := h.service.DeleteCategoryByID(principal, id); err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondNoContent(w)
}

func (h *Handler) HandleDeleteAllCategories(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	if err := h.service.DeleteAllCategoriesForUser(principal); err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondNoContent(w)
}

func parseCategoryID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.NewValidation("invalid category id")
	}
	return id, nil
}
