package application

import (
	"context"
	"sort"
	"strings"

	"github.com/sebuszqo/khata/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/khata/internal/ledger/errors"
)

// NameSource supplies additional customer names for autocomplete, such as bond registry owners.
type NameSource interface {
	CustomerNames(ctx context.Context, userID string) ([]string, error)
}

type NameService struct {
	customers domain.CustomerRepository
	sources   []NameSource
}

func NewNameService(customers domain.CustomerRepository, sources ...NameSource) *NameService {
	return &NameService{customers: customers, sources: sources}
}

// GetNames returns the sorted, de-duplicated union of every known customer name for the owner.
func (s *NameService) GetNames(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ledgerErrors.ErrUnauthorized
	}
	names, err := s.customers.FindNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, source := range s.sources {
		more, err := source.CustomerNames(ctx, userID)
		if err != nil {
			return nil, err
		}
		names = append(names, more...)
	}
	return uniqueSorted(names), nil
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
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
