package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/khata/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type CustomerService struct {
	repo domain.CustomerRepository
}

func NewCustomerService(repo domain.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	if customer.UserID == "" {
		return ledgerErrors.ErrUnauthorized
	}
	if err := customer.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	customer.ID = uuid.NewString()
	customer.Balance = decimal.Zero
	customer.CreatedAt = now
	customer.UpdatedAt = now

	return s.repo.Save(ctx, *customer)
}

func (s *CustomerService) GetCustomer(ctx context.Context, customerID, userID string) (*domain.Customer, error) {
	if userID == "" {
		return nil, ledgerErrors.ErrUnauthorized
	}
	return s.repo.FindByID(ctx, customerID, userID)
}

// ListCustomers returns the owner's customers together with the to-get/to-pay totals.
func (s *CustomerService) ListCustomers(ctx context.Context, userID string) ([]domain.Customer, domain.Totals, error) {
	if userID == "" {
		return nil, domain.Totals{}, ledgerErrors.ErrUnauthorized
	}
	customers, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, domain.Totals{}, err
	}
	return customers, domain.SumBalances(customers), nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID, userID string) error {
	if userID == "" {
		return ledgerErrors.ErrUnauthorized
	}
	return s.repo.Delete(ctx, customerID, userID)
}
