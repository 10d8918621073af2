package bonds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/khata/internal/database"
)

type Repository interface {
	Create(ctx context.Context, registry Registry) error
	Update(ctx context.Context, registry Registry) error
	Delete(ctx context.Context, registryID, userID string) error
	FindByID(ctx context.Context, registryID, userID string) (*Registry, error)
	FindByCustomer(ctx context.Context, customer, userID string) (*Registry, error)
	FindByUser(ctx context.Context, userID string) ([]Registry, error)
}

type repository struct {
	db *sql.DB
}

func NewBondRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const registryColumns = "id, user_id, customer, categories, created_at, updated_at"

func scanRegistry(row interface{ Scan(...interface{}) error }) (Registry, error) {
	var (
		reg Registry
		raw []byte
	)
	if err := row.Scan(&reg.ID, &reg.UserID, &reg.Customer, &raw, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
		return Registry{}, err
	}
	categories, err := decodeCategories(raw)
	if err != nil {
		return Registry{}, fmt.Errorf("registry %s has malformed categories: %w", reg.ID, err)
	}
	reg.Categories = categories
	return reg, nil
}

func (r *repository) Create(ctx context.Context, registry Registry) error {
	categories, err := encodeCategories(registry.Categories)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO bond_registries (`+registryColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		registry.ID, registry.UserID, registry.Customer, categories, registry.CreatedAt, registry.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrRegistryExists
		}
		return fmt.Errorf("failed to insert bond registry: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, registry Registry) error {
	categories, err := encodeCategories(registry.Categories)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE bond_registries SET customer = $1, categories = $2, updated_at = $3 WHERE id = $4 AND user_id = $5`,
		registry.Customer, categories, registry.UpdatedAt, registry.ID, registry.UserID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrRegistryExists
		}
		return fmt.Errorf("failed to update bond registry: %w", err)
	}
	return expectOneRow(result)
}

func (r *repository) Delete(ctx context.Context, registryID, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bond_registries WHERE id = $1 AND user_id = $2`, registryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bond registry: %w", err)
	}
	return expectOneRow(result)
}

func (r *repository) FindByID(ctx context.Context, registryID, userID string) (*Registry, error) {
	return r.findOne(ctx, `SELECT `+registryColumns+` FROM bond_registries WHERE id = $1 AND user_id = $2`, registryID, userID)
}

func (r *repository) FindByCustomer(ctx context.Context, customer, userID string) (*Registry, error) {
	return r.findOne(ctx, `SELECT `+registryColumns+` FROM bond_registries WHERE customer = $1 AND user_id = $2`, customer, userID)
}

func (r *repository) findOne(ctx context.Context, query string, args ...interface{}) (*Registry, error) {
	reg, err := scanRegistry(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistryNotFound
		}
		return nil, fmt.Errorf("failed to get bond registry: %w", err)
	}
	return &reg, nil
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]Registry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registryColumns+` FROM bond_registries WHERE user_id = $1 ORDER BY customer`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bond registries: %w", err)
	}
	defer rows.Close()

	registries := []Registry{}
	for rows.Next() {
		reg, err := scanRegistry(rows)
		if err != nil {
			return nil, err
		}
		registries = append(registries, reg)
	}
	return registries, rows.Err()
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRegistryNotFound
	}
	return nil
}
