// Package jsonfile provides the flat JSON file implementation of the
// billing data store.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/energix/fulfillment-service/internal/domain/models"
)

// Store serves lookups from an in-memory dataset loaded once at
// construction. All reads are predicate scans; the dataset is never
// mutated.
type Store struct {
	data models.Dataset
}

// NewStore loads the dataset from the given JSON file.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	var data models.Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	return &Store{data: data}, nil
}

// NewStoreFromDataset wraps an already-built dataset. Used by tests.
func NewStoreFromDataset(data models.Dataset) *Store {
	return &Store{data: data}
}

// FindCustomerByPartialDNI matches the explicit dni_last4 field first,
// then falls back to a suffix match on the full account DNI.
func (s *Store) FindCustomerByPartialDNI(ctx context.Context, dniLast4 string) (*models.Customer, error) {
	candidate := strings.ToUpper(strings.TrimSpace(dniLast4))
	if candidate == "" {
		return nil, nil
	}
	for i := range s.data.Customers {
		c := &s.data.Customers[i]
		if strings.EqualFold(strings.TrimSpace(c.DNILast4), candidate) {
			return c, nil
		}
		if account := strings.ToUpper(strings.TrimSpace(c.AccountDNI)); account != "" && strings.HasSuffix(account, candidate) {
			return c, nil
		}
	}
	return nil, nil
}

// SuppliesForUser lists the supply points of a customer.
func (s *Store) SuppliesForUser(ctx context.Context, userID string) ([]models.Supply, error) {
	var supplies []models.Supply
	for _, sp := range s.data.Supplies {
		if sp.UserID == userID {
			supplies = append(supplies, sp)
		}
	}
	return supplies, nil
}

// InvoicesForSupply lists a supply's invoices, most recent first.
func (s *Store) InvoicesForSupply(ctx context.Context, userID, supplyID string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	for _, inv := range s.data.Invoices {
		if inv.UserID == userID && inv.SupplyID == supplyID {
			invoices = append(invoices, inv)
		}
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		if invoices[i].IssueDate != invoices[j].IssueDate {
			return invoices[i].IssueDate > invoices[j].IssueDate
		}
		return invoices[i].DueDate > invoices[j].DueDate
	})
	return invoices, nil
}

// Ping always succeeds: the dataset lives in memory.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close releases nothing; it exists to satisfy the store interface.
func (s *Store) Close(ctx context.Context) error {
	return nil
}
