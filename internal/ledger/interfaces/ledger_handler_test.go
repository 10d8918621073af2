package interfaces

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebuszqo/khata/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMux(h *LedgerHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /customers", h.CreateCustomer)
	mux.HandleFunc("GET /customers", h.GetCustomers)
	mux.HandleFunc("GET /customers/{customerID}", h.GetCustomer)
	mux.HandleFunc("DELETE /customers/{customerID}", h.DeleteCustomer)
	mux.HandleFunc("POST /customers/{customerID}/expenses", h.CreateExpense)
	mux.HandleFunc("GET /customers/{customerID}/expenses", h.GetExpenses)
	mux.HandleFunc("DELETE /expenses/{expenseID}", h.DeleteExpense)
	mux.HandleFunc("GET /names", h.GetNames)
	return mux
}

func serve(t *testing.T, h *LedgerHandler, method, path, body string, userID string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req = withUser(req, userID)
	}
	w := httptest.NewRecorder()
	newMux(h).ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return w, response
}

func TestCreateCustomer(t *testing.T) {
	customers := &MockCustomerService{}
	h := NewLedgerHandler(customers, &MockExpenseService{}, &MockNameService{}, respondJSON, respondError)

	w, response := serve(t, h, http.MethodPost, "/customers", `{"name":"Ahmed","phone":"0300"}`, "owner-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, "owner-1", customers.created.UserID)
	assert.Equal(t, "c-new", response["data"].(map[string]interface{})["id"])
}

func TestCreateCustomer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		user   string
		status int
	}{
		{"unauthenticated", nil, `{"name":"A"}`, "", http.StatusUnauthorized},
		{"bad body", nil, `{`, "owner-1", http.StatusBadRequest},
		{"validation", ledgerErrors.NewFieldValidationError("name", "Customer name is required"), `{"name":""}`, "owner-1", http.StatusBadRequest},
		{"taken", domain.ErrCustomerNameTaken, `{"name":"A"}`, "owner-1", http.StatusConflict},
		{"internal", assert.AnError, `{"name":"A"}`, "owner-1", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(&MockCustomerService{err: tt.err}, &MockExpenseService{}, &MockNameService{}, respondJSON, respondError)
			w, response := serve(t, h, http.MethodPost, "/customers", tt.body, tt.user)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "error", response["status"])
		})
	}
}

func TestCreateCustomer_ValidationErrorsListed(t *testing.T) {
	err := ledgerErrors.NewFieldValidationError("name", "Customer name is required")
	h := NewLedgerHandler(&MockCustomerService{err: err}, &MockExpenseService{}, &MockNameService{}, respondJSON, respondError)

	_, response := serve(t, h, http.MethodPost, "/customers", `{"name":""}`, "owner-1")
	errs := response["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "Customer name is required", errs[0].(map[string]interface{})["name"])
}

func TestGetCustomers_IncludesTotals(t *testing.T) {
	customers := &MockCustomerService{
		customers: []domain.Customer{{ID: "c1", Name: "A", Balance: decimal.NewFromInt(10)}},
		totals:    domain.Totals{ToGet: decimal.NewFromInt(10), ToPay: decimal.NewFromInt(-3)},
	}
	h := NewLedgerHandler(customers, &MockExpenseService{}, &MockNameService{}, respondJSON, respondError)

	w, response := serve(t, h, http.MethodGet, "/customers", "", "owner-1")
	assert.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "10", data["to_get"])
	assert.Equal(t, "-3", data["to_pay"])
	assert.Len(t, data["customers"], 1)
}

func TestGetCustomer_NotFound(t *testing.T) {
	h := NewLedgerHandler(&MockCustomerService{err: domain.ErrCustomerNotFound}, &MockExpenseService{}, &MockNameService{}, respondJSON, respondError)

	w, _ := serve(t, h, http.MethodGet, "/customers/c1", "", "owner-1")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = serve(t, h, http.MethodDelete, "/customers/c1", "", "owner-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateExpense(t *testing.T) {
	expenses := &MockExpenseService{balance: decimal.RequireFromString("150.5")}
	h := NewLedgerHandler(&MockCustomerService{}, expenses, &MockNameService{}, respondJSON, respondError)

	body := `{"reason":" loan ","date":"2024-03-01","type":"sent","amount":"150.50"}`
	w, response := serve(t, h, http.MethodPost, "/customers/c1/expenses", body, "owner-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "150.5", response["data"].(map[string]interface{})["balance"])

	require.NotNil(t, expenses.added)
	assert.Equal(t, "c1", expenses.added.CustomerID)
	assert.Equal(t, "loan", expenses.added.Reason)
	assert.Equal(t, 2024, expenses.added.Date.Year())
	assert.True(t, decimal.RequireFromString("150.5").Equal(expenses.added.Amount))
}

func TestCreateExpense_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"bad date", nil, `{"date":"01/03/2024","type":"sent","amount":1}`, http.StatusBadRequest},
		{"bad amount", nil, `{"type":"sent","amount":"abc"}`, http.StatusBadRequest},
		{"unknown customer", domain.ErrCustomerNotFound, `{"type":"sent","amount":1}`, http.StatusNotFound},
		{"validation", &ledgerErrors.ValidationErrors{Errors: []error{ledgerErrors.NewFieldValidationError("type", "bad")}}, `{"type":"x","amount":1}`, http.StatusBadRequest},
		{"balance not updated", fmt.Errorf("%w: db down", domain.ErrBalanceStale), `{"type":"sent","amount":1}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(&MockCustomerService{}, &MockExpenseService{err: tt.err}, &MockNameService{}, respondJSON, respondError)
			w, _ := serve(t, h, http.MethodPost, "/customers/c1/expenses", tt.body, "owner-1")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestDeleteExpense(t *testing.T) {
	h := NewLedgerHandler(&MockCustomerService{}, &MockExpenseService{balance: decimal.NewFromInt(5)}, &MockNameService{}, respondJSON, respondError)
	w, response := serve(t, h, http.MethodDelete, "/expenses/e1", "", "owner-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", response["data"].(map[string]interface{})["balance"])

	h = NewLedgerHandler(&MockCustomerService{}, &MockExpenseService{err: domain.ErrExpenseNotFound}, &MockNameService{}, respondJSON, respondError)
	w, _ = serve(t, h, http.MethodDelete, "/expenses/e1", "", "owner-1")
	assert.Equal(t, http.StatusNotFound, w.Code)

	h = NewLedgerHandler(&MockCustomerService{}, &MockExpenseService{err: domain.ErrBalanceStale}, &MockNameService{}, respondJSON, respondError)
	w, response = serve(t, h, http.MethodDelete, "/expenses/e1", "", "owner-1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, response["message"], "balance could not be updated")
}

func TestGetNames(t *testing.T) {
	h := NewLedgerHandler(&MockCustomerService{}, &MockExpenseService{}, &MockNameService{names: []string{"Ahmed", "Bilal"}}, respondJSON, respondError)
	w, response := serve(t, h, http.MethodGet, "/names", "", "owner-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Ahmed", "Bilal"}, response["data"])

	w, _ = serve(t, h, http.MethodGet, "/names", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
