// Package datastore defines the read-only billing data store interface.
package datastore

import (
	"context"

	"github.com/energix/fulfillment-service/internal/domain/models"
)

// Type represents the type of data store backend.
type Type string

const (
	// TypeJSONFile is the flat JSON file store used for demos and tests.
	TypeJSONFile Type = "jsonfile"
	// TypeMongoDB is the MongoDB-backed store.
	TypeMongoDB Type = "mongodb"
)

// Store exposes the lookup-by-key operations the fulfillment core
// needs. The store is read-only from this service's perspective.
type Store interface {
	// FindCustomerByPartialDNI looks up a customer whose stored DNI
	// fragment equals the candidate, or whose full account DNI ends
	// with it. Returns (nil, nil) when no customer matches.
	FindCustomerByPartialDNI(ctx context.Context, dniLast4 string) (*models.Customer, error)

	// SuppliesForUser lists the supply points of a customer.
	SuppliesForUser(ctx context.Context, userID string) ([]models.Supply, error)

	// InvoicesForSupply lists the invoices of a user's supply, most
	// recent first (issue date, then due date, descending).
	InvoicesForSupply(ctx context.Context, userID, supplyID string) ([]models.Invoice, error)

	// Ping checks the store connection.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
