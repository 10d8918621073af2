package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/khata/internal/ctxutil"
	"github.com/sebuszqo/khata/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]map[string]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(ctxutil.WithUserID(r.Context(), userID))
}

type MockCustomerService struct {
	customers []domain.Customer
	totals    domain.Totals
	err       error
	created   *domain.Customer
}

func (m *MockCustomerService) CreateCustomer(_ context.Context, customer *domain.Customer) error {
	if m.err != nil {
		return m.err
	}
	customer.ID = "c-new"
	m.created = customer
	return nil
}

func (m *MockCustomerService) GetCustomer(_ context.Context, customerID, _ string) (*domain.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Customer{ID: customerID, Name: "Ahmed"}, nil
}

func (m *MockCustomerService) ListCustomers(context.Context, string) ([]domain.Customer, domain.Totals, error) {
	return m.customers, m.totals, m.err
}

func (m *MockCustomerService) DeleteCustomer(context.Context, string, string) error {
	return m.err
}

type MockExpenseService struct {
	balance decimal.Decimal
	err     error
	added   *domain.Expense
}

func (m *MockExpenseService) AddExpense(_ context.Context, _ string, expense *domain.Expense) (decimal.Decimal, error) {
	if m.err != nil {
		return decimal.Zero, m.err
	}
	m.added = expense
	return m.balance, nil
}

func (m *MockExpenseService) ListExpenses(context.Context, string, string) ([]domain.Expense, error) {
	return []domain.Expense{}, m.err
}

func (m *MockExpenseService) DeleteExpense(context.Context, string, string) (decimal.Decimal, error) {
	return m.balance, m.err
}

type MockNameService struct {
	names []string
	err   error
}

func (m *MockNameService) GetNames(context.Context, string) ([]string, error) {
	return m.names, m.err
}
