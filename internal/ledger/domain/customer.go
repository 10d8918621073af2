package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerNameTaken = errors.New("customer with this name already exists")
)

const maxCustomerNameLength = 100

type Customer struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Name == "" {
		return ledgerErrors.NewFieldValidationError("name", "Customer name is required")
	}
	if len(c.Name) > maxCustomerNameLength {
		return ledgerErrors.NewFieldValidationError("name", "Customer name must be at most 100 characters")
	}
	return nil
}

// Totals summarises what the owner is owed (positive balances) and owes (negative balances).
type Totals struct {
	ToGet decimal.Decimal `json:"to_get"`
	ToPay decimal.Decimal `json:"to_pay"`
}

func SumBalances(customers []Customer) Totals {
	totals := Totals{ToGet: decimal.Zero, ToPay: decimal.Zero}
	for _, c := range customers {
		switch c.Balance.Sign() {
		case 1:
			totals.ToGet = totals.ToGet.Add(c.Balance)
		case -1:
			totals.ToPay = totals.ToPay.Add(c.Balance)
		}
	}
	return totals
}

type CustomerRepository interface {
	Save(ctx context.Context, customer Customer) error
	FindByID(ctx context.Context, customerID, userID string) (*Customer, error)
	FindByUser(ctx context.Context, userID string) ([]Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
	FindNames(ctx context.Context, userID string) ([]string, error)
	UpdateBalance(ctx context.Context, customerID string, balance decimal.Decimal) error
	Delete(ctx context.Context, customerID, userID string) error
}
