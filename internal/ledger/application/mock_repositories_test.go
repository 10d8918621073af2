package application

import (
	"context"
	"sort"
	"sync"

	"github.com/sebuszqo/khata/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

type mockCustomerRepository struct {
	mu        sync.Mutex
	customers  map[string]domain.Customer
	err        error
	balanceErr error
}

func newMockCustomerRepository(customers ...domain.Customer) *mockCustomerRepository {
	repo := &mockCustomerRepository{customers: map[string]domain.Customer{}}
	for _, c := range customers {
		repo.customers[c.ID] = c
	}
	return repo
}

func (m *mockCustomerRepository) Save(_ context.Context, customer domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, c := range m.customers {
		if c.UserID == customer.UserID && c.Name == customer.Name {
			return domain.ErrCustomerNameTaken
		}
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *mockCustomerRepository) FindByID(_ context.Context, customerID, userID string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[customerID]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

func (m *mockCustomerRepository) FindByUser(_ context.Context, userID string) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Customer
	for _, c := range m.customers {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCustomerRepository) FindAll(_ context.Context) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Customer
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCustomerRepository) FindNames(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for _, c := range m.customers {
		if c.UserID == userID {
			names = append(names, c.Name)
		}
	}
	return names, m.err
}

func (m *mockCustomerRepository) UpdateBalance(_ context.Context, customerID string, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balanceErr != nil {
		return m.balanceErr
	}
	c, ok := m.customers[customerID]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	c.Balance = balance
	m.customers[customerID] = c
	return nil
}

func (m *mockCustomerRepository) Delete(_ context.Context, customerID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[customerID]
	if !ok || c.UserID != userID {
		return domain.ErrCustomerNotFound
	}
	delete(m.customers, customerID)
	return nil
}

func (m *mockCustomerRepository) balance(customerID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customers[customerID].Balance
}

type mockExpenseRepository struct {
	mu       sync.Mutex
	expenses []domain.Expense
	err      error
}

func (m *mockExpenseRepository) Save(_ context.Context, expense domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.expenses = append(m.expenses, expense)
	return nil
}

func (m *mockExpenseRepository) FindByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.expenses {
		if e.ID == expenseID {
			return &e, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *mockExpenseRepository) FindByCustomer(_ context.Context, customerID string) ([]domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Expense{}
	for _, e := range m.expenses {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) Delete(_ context.Context, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.expenses {
		if e.ID == expenseID {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}
