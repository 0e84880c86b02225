package expense

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

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

func (h *Handler) HandleGetAllExpenses(w http.ResponseWriter, r *http.Request) {
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

	expenses, err := h.service.GetAllExpenses(principal, page, limit)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, expenses)
}

func (h *Handler) HandleGetExpenseByID(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	id, err := parseExpenseID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	expense, err := h.service.GetExpenseByID(principal, id)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, expense)
}

func (h *Handler) HandleSaveExpense(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	expense, err := h.service.SaveExpense(principal, req)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, expense)
}

func (h *Handler) HandleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	id, err := parseExpenseID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.RespondError(w, apperror.NewValidation("invalid request body"))
		return
	}

	expense, err := h.service.UpdateExpense(principal, id, patch)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, expense)
}

func (h *Handler) HandleDeleteExpenseByID(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	id, err := parseExpenseID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	if err := h.service.DeleteExpenseByID(principal, id); err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondNoContent(w)
}

func (h *Handler) HandleDeleteAllExpenses(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.RespondError(w, err)
		return
	}

	if err := h.service.DeleteAllExpensesForUser(principal); err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondNoContent(w)
}

func (h *Handler) HandleGetExpensesByName(w http.ResponseWriter, r *http.Request) {
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

	expenses, err := h.service.GetExpensesByName(principal, r.URL.Query().Get("keyword"), page, limit)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, expenses)
}

func (h *Handler) HandleGetExpensesByDate(w http.ResponseWriter, r *http.Request) {
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

	start, err := parseDateParam(r, "startDate")
	if err != nil {
		api.RespondError(w, err)
		return
	}
	end, err := parseDateParam(r, "endDate")
	if err != nil {
		api.RespondError(w, err)
		return
	}

	expenses, err := h.service.GetExpensesByDate(principal, start, end, page, limit)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, expenses)
}

func (h *Handler) HandleGetExpensesByCategoryName(w http.ResponseWriter, r *http.Request) {
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

	expenses, err := h.service.GetExpensesByCategoryName(principal, chi.URLParam(r, "name"), page, limit)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, expenses)
}

func parseExpenseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperror.NewValidation("invalid expense id")
	}
	return id, nil
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperror.NewValidation("%s must use the format %s", name, dateLayout)
	}
	return &t, nil
}
