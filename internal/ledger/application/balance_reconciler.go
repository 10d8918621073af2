package application

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/sebuszqo/khata/internal/ledger/domain"
	"golang.org/x/sync/errgroup"
)

const reconcileConcurrency = 4

// BalanceReconciler rewrites stored customer balances that drifted from their expense records.
type BalanceReconciler struct {
	customers domain.CustomerRepository
	expenses  domain.ExpenseRepository
}

func NewBalanceReconciler(customers domain.CustomerRepository, expenses domain.ExpenseRepository) *BalanceReconciler {
	return &BalanceReconciler{customers: customers, expenses: expenses}
}

// ReconcileAll returns the number of customers whose balance was corrected.
func (r *BalanceReconciler) ReconcileAll(ctx context.Context) (int, error) {
	customers, err := r.customers.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list customers: %w", err)
	}

	var updated atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)

	for _, customer := range customers {
		customer := customer
		g.Go(func() error {
			expenses, err := r.expenses.FindByCustomer(ctx, customer.ID)
			if err != nil {
				return fmt.Errorf("customer %s: %w", customer.ID, err)
			}
			balance := domain.Balance(expenses)
			if balance.Equal(customer.Balance) {
				return nil
			}
			if err := r.customers.UpdateBalance(ctx, customer.ID, balance); err != nil {
				return fmt.Errorf("customer %s: %w", customer.ID, err)
			}
			log.Printf("[Reconciler] customer %s balance %s -> %s", customer.ID, customer.Balance, balance)
			updated.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(updated.Load()), err
}
