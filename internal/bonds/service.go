package bonds

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/khata/internal/bonds/bondset"
	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
)

const maxCustomerNameLength = 100

// NumberText keeps the raw text of a JSON string or number so range
// bounds reach the parser exactly as the user typed them.
type NumberText string

func (n *NumberText) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberText(s)
		return nil
	}
	*n = NumberText(data)
	return nil
}

// CategoryInput is one category as submitted by the bond form. Bonds carries
// numbers already stored and is only accepted when a registry is edited.
type CategoryInput struct {
	Name        string     `json:"name"`
	Bonds       []int64    `json:"bonds,omitempty"`
	BondNumbers string     `json:"bond_numbers"`
	RangeStart  NumberText `json:"range_start"`
	RangeEnd    NumberText `json:"range_end"`
}

func (in CategoryInput) parserInput() bondset.Input {
	return bondset.Input{List: in.BondNumbers, RangeStart: string(in.RangeStart), RangeEnd: string(in.RangeEnd)}
}

func (in CategoryInput) hasNewNumbers() bool {
	return strings.TrimSpace(in.BondNumbers) != "" ||
		strings.TrimSpace(string(in.RangeStart)) != "" ||
		strings.TrimSpace(string(in.RangeEnd)) != ""
}

// CategoryPatch renames a category and/or merges new numbers into it.
type CategoryPatch struct {
	Name        *string    `json:"name"`
	BondNumbers string     `json:"bond_numbers"`
	RangeStart  NumberText `json:"range_start"`
	RangeEnd    NumberText `json:"range_end"`
}

type Service interface {
	CreateRegistry(ctx context.Context, userID, customer string, categories []CategoryInput) (*Registry, error)
	UpdateRegistry(ctx context.Context, userID, registryID, customer string, categories []CategoryInput) (*Registry, error)
	DeleteRegistry(ctx context.Context, userID, registryID string) error
	GetRegistry(ctx context.Context, userID, registryID string) (*Registry, error)
	GetRegistryByCustomer(ctx context.Context, userID, customer string) (*Registry, error)
	ListRegistries(ctx context.Context, userID string) ([]Registry, error)
	AddCategory(ctx context.Context, userID, registryID string, in CategoryInput) (*Registry, error)
	UpdateCategory(ctx context.Context, userID, registryID string, index int, patch CategoryPatch) (*Registry, error)
	DeleteCategory(ctx context.Context, userID, registryID string, index int) (*Registry, error)
	RemoveBond(ctx context.Context, userID, registryID string, index int, number int64) (*Registry, error)
	GetChips(ctx context.Context, userID, registryID string, index int) ([]bondset.Chip, error)
	GetCopyText(ctx context.Context, userID, registryID string, index int) (string, error)
	CategoryNames(ctx context.Context, userID string) ([]string, error)
	CustomerNames(ctx context.Context, userID string) ([]string, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewBondService(repo Repository) Service {
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func validateCustomer(customer string) (string, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return "", ledgerErrors.NewFieldValidationError("customer", "Customer name is required")
	}
	if len(customer) > maxCustomerNameLength {
		return "", ledgerErrors.NewFieldValidationError("customer", "Customer name must be at most 100 characters")
	}
	return customer, nil
}

// buildCategory validates the name and parses new numbers. Stored numbers in
// in.Bonds are only honoured when keepStored is set, as on a full registry edit.
func buildCategory(index int, in CategoryInput, keepStored bool, errs *ledgerErrors.ValidationErrors) Category {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.Add(ledgerErrors.NewIndexedValidationError(index, "name", "Category name is required"))
	}

	var bonds []int64
	if len(in.Bonds) > 0 {
		if !keepStored {
			errs.Add(ledgerErrors.NewIndexedValidationError(index, bondset.FieldBonds, "Enter new bonds as bond_numbers or a range"))
			return Category{Name: name}
		}
		if err := bondset.Validate(in.Bonds); err != nil {
			errs.Add(indexedParseError(index, err))
			return Category{Name: name}
		}
		bonds = bondset.Canonical(in.Bonds)
	}

	if in.hasNewNumbers() || len(bonds) == 0 {
		parsed, err := bondset.Parse(in.parserInput())
		if err != nil {
			errs.Add(indexedParseError(index, err))
			return Category{Name: name, Bonds: bonds}
		}
		bonds = bondset.Merge(bonds, parsed)
		if err := bondset.Validate(bonds); err != nil {
			errs.Add(indexedParseError(index, err))
		}
	}
	return Category{Name: name, Bonds: bonds}
}

func indexedParseError(index int, err error) error {
	var parseErr *bondset.Error
	if errors.As(err, &parseErr) {
		return ledgerErrors.NewIndexedValidationError(index, parseErr.Field, parseErr.Msg)
	}
	return ledgerErrors.NewIndexedValidationError(index, bondset.FieldBondNumbers, err.Error())
}

func buildCategories(inputs []CategoryInput, keepStored bool) ([]Category, error) {
	var errs ledgerErrors.ValidationErrors
	if len(inputs) == 0 {
		errs.Add(ledgerErrors.NewFieldValidationError("categories", "At least one category is required"))
	}
	categories := make([]Category, 0, len(inputs))
	for i, in := range inputs {
		categories = append(categories, buildCategory(i, in, keepStored, &errs))
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *service) CreateRegistry(ctx context.Context, userID, customer string, inputs []CategoryInput) (*Registry, error) {
	if userID == "" {
		return nil, ledgerErrors.ErrUnauthorized
	}
	customer, err := validateCustomer(customer)
	if err != nil {
		return nil, err
	}
	categories, err := buildCategories(inputs, false)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByCustomer(ctx, customer, userID); err == nil {
		return nil, ErrRegistryExists
	} else if !errors.Is(err, ErrRegistryNotFound) {
		return nil, err
	}

	now := s.now()
	registry := Registry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Customer:   customer,
		Categories: categories,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, registry); err != nil {
		return nil, err
	}
	return &registry, nil
}

func (s *service) UpdateRegistry(ctx context.Context, userID, registryID, customer string, inputs []CategoryInput) (*Registry, error) {
	registry, err := s.GetRegistry(ctx, userID, registryID)
	if err != nil {
		return nil, err
	}
	customer, err = validateCustomer(customer)
	if err != nil {
		return nil, err
	}
	categories, err := buildCategories(inputs, true)
	if err != nil {
		return nil, err
	}

	if customer != registry.Customer {
		other, err := s.repo.FindByCustomer(ctx, customer, userID)
		if err == nil && other.ID != registry.ID {
			return nil, ErrRegistryExists
		}
		if err != nil && !errors.Is(err, ErrRegistryNotFound) {
			return nil, err
		}
	}

	registry.Customer = customer
	registry.Categories = categories
	return s.save(ctx, registry)
}

func (s *service) save(ctx context.Context, registry *Registry) (*Registry, error) {
	registry.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *registry); err != nil {
		return nil, err
	}
	return registry, nil
}

func (s *service) DeleteRegistry(ctx context.Context, userID, registryID string) error {
	if userID == "" {
		return ledgerErrors.ErrUnauthorized
	}
	return s.repo.Delete(ctx, registryID, userID)
}

func (s *service) GetRegistry(ctx context.Context, userID, registryID string) (*Registry, error) {
	if userID == "" {
		return nil, ledgerErrors.ErrUnauthorized
	}
	return s.repo.FindByID(ctx, registryID, userID)
}

func (s *service) GetRegistryByCustomer(ctx context.Context, userID, customer string) (*Registry, error) {
	if userID == "" {
		return nil, ledgerErrors.ErrUnauthorized
	}
	return s.repo.FindByCustomer(ctx, strings.TrimSpace(customer), userID)
}

func (s *service) ListRegistries(ctx context.Context, userID string) ([]Registry, error) {
	if userID == "" {
		return nil, ledgerErrors.ErrUnauthorized
	}
	return s.repo.FindByUser(ctx, userID)
}

func (s *service) AddCategory(ctx context.Context, userID, registryID string, in CategoryInput) (*Registry, error) {
	registry, err := s.GetRegistry(ctx, userID, registryID)
	if err != nil {
		return nil, err
	}

	var errs ledgerErrors.ValidationErrors
	category := buildCategory(len(registry.Categories), in, false, &errs)
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	registry.Categories = append(registry.Categories, category)
	return s.save(ctx, registry)
}

func (s *service) UpdateCategory(ctx context.Context, userID, registryID string, index int, patch CategoryPatch) (*Registry, error) {
	registry, err := s.GetRegistry(ctx, userID, registryID)
	if err != nil {
		return nil, err
	}
	category, err := registry.category(index)
	if err != nil {
		return nil, err
	}

	var errs ledgerErrors.ValidationErrors
	name := category.Name
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			errs.Add(ledgerErrors.NewIndexedValidationError(index, "name", "Category name is required"))
		}
	}

	in := CategoryInput{BondNumbers: patch.BondNumbers, RangeStart: patch.RangeStart, RangeEnd: patch.RangeEnd}
	bonds := category.Bonds
	if in.hasNewNumbers() {
		added, err := bondset.Parse(in.parserInput())
		if err != nil {
			errs.Add(indexedParseError(index, err))
		} else {
			bonds = bondset.Merge(bonds, added)
			if err := bondset.Validate(bonds); err != nil {
				errs.Add(indexedParseError(index, err))
			}
		}
	} else if patch.Name == nil {
		errs.Add(ledgerErrors.NewValidationError("Nothing to update"))
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	category.Name = name
	category.Bonds = bonds
	return s.save(ctx, registry)
}

func (s *service) DeleteCategory(ctx context.Context, userID, registryID string, index int) (*Registry, error) {
	registry, err := s.GetRegistry(ctx, userID, registryID)
	if err != nil {
		return nil, err
	}
	if _, err := registry.category(index); err != nil {
		return nil, err
	}

	registry.Categories = append(registry.Categories[:index], registry.Categories[index+1:]...)
	return s.save(ctx, registry)
}

func (s *service) RemoveBond(ctx context.Context, userID, registryID string, index int, number int64) (*Registry, error) {
	registry, err := s.GetRegistry(ctx, userID, registryID)
	if err != nil {
		return nil, err
	}
	category, err := registry.category(index)
	if err != nil {
		return nil, err
	}

	remaining, found := bondset.Remove(category.Bonds, number)
	if !found {
		return nil, ErrBondNotFound
	}
	category.Bonds = remaining
	return s.save(ctx, registry)
}

func (s *service) categoryBonds(ctx context.Context, userID, registryID string, index int) ([]int64, error) {
	registry, err := s.GetRegistry(ctx, userID, registryID)
	if err != nil {
		return nil, err
	}
	category, err := registry.category(index)
	if err != nil {
		return nil, err
	}
	return category.Bonds, nil
}

func (s *service) GetChips(ctx context.Context, userID, registryID string, index int) ([]bondset.Chip, error) {
	bonds, err := s.categoryBonds(ctx, userID, registryID, index)
	if err != nil {
		return nil, err
	}
	return bondset.Chips(bonds), nil
}

// GetCopyText returns the category's numbers joined by commas for pasting elsewhere.
func (s *service) GetCopyText(ctx context.Context, userID, registryID string, index int) (string, error) {
	bonds, err := s.categoryBonds(ctx, userID, registryID, index)
	if err != nil {
		return "", err
	}
	return bondset.Join(bonds, ","), nil
}

func (s *service) CategoryNames(ctx context.Context, userID string) ([]string, error) {
	registries, err := s.ListRegistries(ctx, userID)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, reg := range registries {
		for _, c := range reg.Categories {
			names = append(names, c.Name)
		}
	}
	return uniqueSorted(names), nil
}

func (s *service) CustomerNames(ctx context.Context, userID string) ([]string, error) {
	registries, err := s.ListRegistries(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(registries))
	for _, reg := range registries {
		names = append(names, reg.Customer)
	}
	return uniqueSorted(names), nil
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
