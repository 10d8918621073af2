package domain

import (
	"context"
	"errors"
	"time"

	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrBalanceStale means the expense change was stored but the customer's
	// balance was not; the scheduled reconcile corrects it.
	ErrBalanceStale = errors.New("expense saved but balance not updated")
)

const (
	ExpenseTypeSent     = "sent"
	ExpenseTypeReceived = "received"
)

const maxReasonLength = 200

type Expense struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Reason     string          `json:"reason"`
	Date       time.Time       `json:"date"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

func IsValidExpenseType(t string) bool {
	return t == ExpenseTypeSent || t == ExpenseTypeReceived
}

func (e *Expense) Validate() error {
	var errs ledgerErrors.ValidationErrors
	if !IsValidExpenseType(e.Type) {
		errs.Add(ledgerErrors.NewFieldValidationError("type", "Type must be 'sent' or 'received'"))
	}
	if !e.Amount.IsPositive() {
		errs.Add(ledgerErrors.NewFieldValidationError("amount", "Amount must be greater than zero"))
	}
	if len(e.Reason) > maxReasonLength {
		errs.Add(ledgerErrors.NewFieldValidationError("reason", "Reason must be of length less than 200"))
	}
	if e.Date.IsZero() {
		errs.Add(ledgerErrors.NewFieldValidationError("date", "Date is required"))
	}
	return errs.ErrOrNil()
}

// RoundToTwoDecimalPlaces matches the NUMERIC(14,2) storage precision.
func (e *Expense) RoundToTwoDecimalPlaces() {
	e.Amount = e.Amount.Round(2)
}

// Balance is the sum of sent amounts minus the sum of received amounts.
func Balance(expenses []Expense) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range expenses {
		switch e.Type {
		case ExpenseTypeSent:
			balance = balance.Add(e.Amount)
		case ExpenseTypeReceived:
			balance = balance.Sub(e.Amount)
		}
	}
	return balance
}

type ExpenseRepository interface {
	Save(ctx context.Context, expense Expense) error
	FindByID(ctx context.Context, expenseID string) (*Expense, error)
	FindByCustomer(ctx context.Context, customerID string) ([]Expense, error)
	Delete(ctx context.Context, expenseID string) error
}
