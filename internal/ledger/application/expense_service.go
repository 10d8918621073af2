package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/khata/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type ExpenseService struct {
	repo      domain.ExpenseRepository
	customers domain.CustomerRepository
}

func NewExpenseService(repo domain.ExpenseRepository, customers domain.CustomerRepository) *ExpenseService {
	return &ExpenseService{repo: repo, customers: customers}
}

// AddExpense records an expense for an owned customer and returns the customer's new balance.
func (s *ExpenseService) AddExpense(ctx context.Context, userID string, expense *domain.Expense) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, ledgerErrors.ErrUnauthorized
	}
	if _, err := s.customers.FindByID(ctx, expense.CustomerID, userID); err != nil {
		return decimal.Zero, err
	}

	expense.RoundToTwoDecimalPlaces()
	if err := expense.Validate(); err != nil {
		return decimal.Zero, err
	}
	expense.ID = uuid.NewString()
	expense.CreatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, *expense); err != nil {
		return decimal.Zero, err
	}
	balance, err := s.recalculate(ctx, expense.CustomerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrBalanceStale, err)
	}
	return balance, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, customerID, userID string) ([]domain.Expense, error) {
	if userID == "" {
		return nil, ledgerErrors.ErrUnauthorized
	}
	if _, err := s.customers.FindByID(ctx, customerID, userID); err != nil {
		return nil, err
	}
	return s.repo.FindByCustomer(ctx, customerID)
}

// DeleteExpense removes an expense belonging to one of the owner's customers and returns the new balance.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, ledgerErrors.ErrUnauthorized
	}
	expense, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return decimal.Zero, err
	}
	if _, err := s.customers.FindByID(ctx, expense.CustomerID, userID); err != nil {
		// another owner's expense is reported as missing
		return decimal.Zero, domain.ErrExpenseNotFound
	}

	if err := s.repo.Delete(ctx, expenseID); err != nil {
		return decimal.Zero, err
	}
	balance, err := s.recalculate(ctx, expense.CustomerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrBalanceStale, err)
	}
	return balance, nil
}

func (s *ExpenseService) recalculate(ctx context.Context, customerID string) (decimal.Decimal, error) {
	expenses, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load expenses for balance: %w", err)
	}
	balance := domain.Balance(expenses)
	if err := s.customers.UpdateBalance(ctx, customerID, balance); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
