package bonds

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sebuszqo/khata/internal/bonds/bondset"
	"github.com/sebuszqo/khata/internal/ctxutil"
	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
)

type Handler struct {
	bondService  Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]map[string]string)
}

func NewHandler(
	bondService Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]map[string]string),
) *Handler {
	if bondService == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &Handler{
		bondService:  bondService,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type categoryView struct {
	Name      string  `json:"name"`
	Bonds     []int64 `json:"bonds"`
	Formatted string  `json:"formatted"`
	Count     int     `json:"count"`
}

type registryView struct {
	ID         string         `json:"id"`
	Customer   string         `json:"customer"`
	Categories []categoryView `json:"categories"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func newRegistryView(reg *Registry) registryView {
	view := registryView{
		ID:         reg.ID,
		Customer:   reg.Customer,
		Categories: make([]categoryView, 0, len(reg.Categories)),
		CreatedAt:  reg.CreatedAt,
		UpdatedAt:  reg.UpdatedAt,
	}
	for _, c := range reg.Categories {
		view.Categories = append(view.Categories, categoryView{
			Name:      c.Name,
			Bonds:     c.Bonds,
			Formatted: bondset.Format(c.Bonds),
			Count:     len(c.Bonds),
		})
	}
	return view
}

type registryRequest struct {
	Customer   string          `json:"customer"`
	Categories []CategoryInput `json:"categories"`
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, action string) {
	var parseErr *bondset.Error
	switch {
	case ledgerErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", ledgerErrors.FieldMessages(err))
	case errors.As(err, &parseErr):
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", []map[string]string{{parseErr.Field: parseErr.Msg}})
	case errors.Is(err, ledgerErrors.ErrUnauthorized):
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrRegistryExists):
		h.respondError(w, http.StatusConflict, ErrRegistryExists.Error())
	case errors.Is(err, ErrRegistryNotFound), errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrBondNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("[Bonds] failed to %s: %v", action, err)
		h.respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return userID, ok
}

func (h *Handler) categoryIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid category index")
		return 0, false
	}
	return index, true
}

func (h *Handler) respondRegistry(w http.ResponseWriter, status int, message string, reg *Registry) {
	h.respondJSON(w, status, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data":    newRegistryView(reg),
	})
}

func (h *Handler) ListRegistries(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	registries, err := h.bondService.ListRegistries(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "retrieve bonds")
		return
	}

	views := make([]registryView, 0, len(registries))
	for i := range registries {
		views = append(views, newRegistryView(&registries[i]))
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   views,
	})
}

func (h *Handler) GetRegistry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	reg, err := h.bondService.GetRegistry(r.Context(), userID, r.PathValue("registryID"))
	if err != nil {
		h.handleServiceError(w, err, "retrieve bonds")
		return
	}
	h.respondRegistry(w, http.StatusOK, "Bonds retrieved successfully.", reg)
}

func (h *Handler) GetRegistryByCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	customer := r.URL.Query().Get("customer")
	if customer == "" {
		h.respondError(w, http.StatusBadRequest, "Query parameter 'customer' is required")
		return
	}
	reg, err := h.bondService.GetRegistryByCustomer(r.Context(), userID, customer)
	if err != nil {
		h.handleServiceError(w, err, "retrieve bonds")
		return
	}
	h.respondRegistry(w, http.StatusOK, "Bonds retrieved successfully.", reg)
}

func (h *Handler) CreateRegistry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req registryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reg, err := h.bondService.CreateRegistry(r.Context(), userID, req.Customer, req.Categories)
	if err != nil {
		h.handleServiceError(w, err, "create bonds")
		return
	}
	h.respondRegistry(w, http.StatusCreated, "Bonds added successfully.", reg)
}

func (h *Handler) UpdateRegistry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req registryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reg, err := h.bondService.UpdateRegistry(r.Context(), userID, r.PathValue("registryID"), req.Customer, req.Categories)
	if err != nil {
		h.handleServiceError(w, err, "update bonds")
		return
	}
	h.respondRegistry(w, http.StatusOK, "Bonds updated successfully.", reg)
}

func (h *Handler) DeleteRegistry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.bondService.DeleteRegistry(r.Context(), userID, r.PathValue("registryID")); err != nil {
		h.handleServiceError(w, err, "delete bonds")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Bonds deleted successfully.",
	})
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var in CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reg, err := h.bondService.AddCategory(r.Context(), userID, r.PathValue("registryID"), in)
	if err != nil {
		h.handleServiceError(w, err, "add category")
		return
	}
	h.respondRegistry(w, http.StatusCreated, "Category added successfully.", reg)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	index, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}
	var patch CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reg, err := h.bondService.UpdateCategory(r.Context(), userID, r.PathValue("registryID"), index, patch)
	if err != nil {
		h.handleServiceError(w, err, "update category")
		return
	}
	h.respondRegistry(w, http.StatusOK, "Category updated successfully.", reg)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	index, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}

	reg, err := h.bondService.DeleteCategory(r.Context(), userID, r.PathValue("registryID"), index)
	if err != nil {
		h.handleServiceError(w, err, "delete category")
		return
	}
	h.respondRegistry(w, http.StatusOK, "Category deleted successfully.", reg)
}

func (h *Handler) RemoveBond(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	index, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}
	number, err := strconv.ParseInt(r.PathValue("number"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid bond number")
		return
	}

	reg, err := h.bondService.RemoveBond(r.Context(), userID, r.PathValue("registryID"), index, number)
	if err != nil {
		h.handleServiceError(w, err, "remove bond")
		return
	}
	h.respondRegistry(w, http.StatusOK, "Bond removed successfully.", reg)
}

func (h *Handler) GetChips(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	index, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}

	chips, err := h.bondService.GetChips(r.Context(), userID, r.PathValue("registryID"), index)
	if err != nil {
		h.handleServiceError(w, err, "retrieve bonds")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   chips,
	})
}

func (h *Handler) CopyBonds(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	index, ok := h.categoryIndex(w, r)
	if !ok {
		return
	}

	text, err := h.bondService.GetCopyText(r.Context(), userID, r.PathValue("registryID"), index)
	if err != nil {
		h.handleServiceError(w, err, "copy bonds")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

func (h *Handler) GetCategoryNames(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	names, err := h.bondService.CategoryNames(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "retrieve categories")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   names,
	})
}
