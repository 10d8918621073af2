package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sebuszqo/khata/internal/database"
	"github.com/sebuszqo/khata/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = "id, user_id, name, phone, balance, created_at, updated_at"

func scanCustomer(row interface{ Scan(...interface{}) error }) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Balance, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CustomerRepository) Save(ctx context.Context, customer domain.Customer) error {
	query := `INSERT INTO customers (` + customerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		customer.ID, customer.UserID, customer.Name, customer.Phone,
		customer.Balance, customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrCustomerNameTaken
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID, userID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND user_id = $2`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, customerID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) FindByUser(ctx context.Context, userID string) ([]domain.Customer, error) {
	return r.query(ctx, `SELECT `+customerColumns+` FROM customers WHERE user_id = $1 ORDER BY name`, userID)
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	return r.query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY user_id, name`)
}

func (r *CustomerRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) FindNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM customers WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *CustomerRepository) UpdateBalance(ctx context.Context, customerID string, balance decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE customers SET balance = $1, updated_at = $2 WHERE id = $3`,
		balance, time.Now().UTC(), customerID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return expectOneRow(result, domain.ErrCustomerNotFound)
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1 AND user_id = $2`, customerID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return expectOneRow(result, domain.ErrCustomerNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
