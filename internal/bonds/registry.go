package bonds

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrRegistryNotFound = errors.New("bond registry not found")
	ErrRegistryExists   = errors.New("bonds for this customer already exist, please edit instead")
	ErrCategoryNotFound = errors.New("bond category not found")
	ErrBondNotFound     = errors.New("bond number not found in category")
)

// Category is a named group of bond numbers kept in ascending order without duplicates.
type Category struct {
	Name  string  `json:"name"`
	Bonds []int64 `json:"bonds"`
}

// Registry holds every bond category one owner keeps for one customer.
type Registry struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	Customer   string     `json:"customer"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (r *Registry) category(index int) (*Category, error) {
	if index < 0 || index >= len(r.Categories) {
		return nil, ErrCategoryNotFound
	}
	return &r.Categories[index], nil
}

func encodeCategories(categories []Category) (string, error) {
	if categories == nil {
		categories = []Category{}
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeCategories(data []byte) ([]Category, error) {
	categories := []Category{}
	if len(data) == 0 {
		return categories, nil
	}
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Bonds == nil {
			categories[i].Bonds = []int64{}
		}
	}
	return categories, nil
}
