package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sebuszqo/khata/internal/ctxutil"
	"github.com/sebuszqo/khata/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CustomerServiceInterface interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, customerID, userID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, userID string) ([]domain.Customer, domain.Totals, error)
	DeleteCustomer(ctx context.Context, customerID, userID string) error
}

type ExpenseServiceInterface interface {
	AddExpense(ctx context.Context, userID string, expense *domain.Expense) (decimal.Decimal, error)
	ListExpenses(ctx context.Context, customerID, userID string) ([]domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID, userID string) (decimal.Decimal, error)
}

type NameServiceInterface interface {
	GetNames(ctx context.Context, userID string) ([]string, error)
}

type LedgerHandler struct {
	customers    CustomerServiceInterface
	expenses     ExpenseServiceInterface
	names        NameServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]map[string]string)
}

func NewLedgerHandler(
	customers CustomerServiceInterface,
	expenses ExpenseServiceInterface,
	names NameServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]map[string]string),
) *LedgerHandler {
	if customers == nil || expenses == nil || names == nil {
		log.Fatal("Ledger services must not be nil")
	}
	if respondJSON == nil || respondError == nil {
		log.Fatal("Response functions must not be nil")
	}
	return &LedgerHandler{
		customers:    customers,
		expenses:     expenses,
		names:        names,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// handleServiceError maps ledger errors onto HTTP responses.
func (h *LedgerHandler) handleServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case ledgerErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", ledgerErrors.FieldMessages(err))
	case errors.Is(err, ledgerErrors.ErrUnauthorized):
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrCustomerNotFound):
		h.respondError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, domain.ErrExpenseNotFound):
		h.respondError(w, http.StatusNotFound, "Expense not found")
	case errors.Is(err, domain.ErrCustomerNameTaken):
		h.respondError(w, http.StatusConflict, "Customer with this name already exists")
	case errors.Is(err, domain.ErrBalanceStale):
		log.Printf("[Ledger] failed to %s: %v", action, err)
		h.respondError(w, http.StatusInternalServerError, "Expense change saved, but the balance could not be updated. It will be corrected automatically.")
	default:
		log.Printf("[Ledger] failed to %s: %v", action, err)
		h.respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func (h *LedgerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer := &domain.Customer{UserID: userID, Name: req.Name, Phone: req.Phone}
	if err := h.customers.CreateCustomer(r.Context(), customer); err != nil {
		h.handleServiceError(w, err, "create customer")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Customer successfully created.",
		"data":    customer,
	})
}

func (h *LedgerHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	customers, totals, err := h.customers.ListCustomers(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "retrieve customers")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Customers retrieved successfully.",
		"data": map[string]interface{}{
			"customers": customers,
			"to_get":    totals.ToGet,
			"to_pay":    totals.ToPay,
		},
	})
}

func (h *LedgerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	customer, err := h.customers.GetCustomer(r.Context(), r.PathValue("customerID"), userID)
	if err != nil {
		h.handleServiceError(w, err, "retrieve customer")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   customer,
	})
}

func (h *LedgerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.customers.DeleteCustomer(r.Context(), r.PathValue("customerID"), userID); err != nil {
		h.handleServiceError(w, err, "delete customer")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Customer deleted successfully.",
	})
}

func (h *LedgerHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		Reason string          `json:"reason"`
		Date   string          `json:"date"`
		Type   string          `json:"type"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	expense := &domain.Expense{
		CustomerID: r.PathValue("customerID"),
		Reason:     strings.TrimSpace(req.Reason),
		Date:       date,
		Type:       req.Type,
		Amount:     req.Amount,
	}
	balance, err := h.expenses.AddExpense(r.Context(), userID, expense)
	if err != nil {
		h.handleServiceError(w, err, "create expense")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Expense successfully created.",
		"data": map[string]interface{}{
			"expense": expense,
			"balance": balance,
		},
	})
}

func (h *LedgerHandler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	expenses, err := h.expenses.ListExpenses(r.Context(), r.PathValue("customerID"), userID)
	if err != nil {
		h.handleServiceError(w, err, "retrieve expenses")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expenses retrieved successfully.",
		"data":    expenses,
	})
}

func (h *LedgerHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	balance, err := h.expenses.DeleteExpense(r.Context(), r.PathValue("expenseID"), userID)
	if err != nil {
		h.handleServiceError(w, err, "delete expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense deleted successfully.",
		"data":    map[string]interface{}{"balance": balance},
	})
}

func (h *LedgerHandler) GetNames(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	names, err := h.names.GetNames(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "retrieve names")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   names,
	})
}
