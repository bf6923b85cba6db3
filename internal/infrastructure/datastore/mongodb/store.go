// Package mongodb provides the MongoDB implementation of the billing
// data store.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/energix/fulfillment-service/internal/domain/models"
)

const (
	// CustomersCollection is the name of the customers collection.
	CustomersCollection = "customers"
	// SuppliesCollection is the name of the supplies collection.
	SuppliesCollection = "supplies"
	// InvoicesCollection is the name of the invoices collection.
	InvoicesCollection = "invoices"
)

// Store implements the datastore.Store interface on MongoDB.
type Store struct {
	client    *mongo.Client
	customers *mongo.Collection
	supplies  *mongo.Collection
	invoices  *mongo.Collection
}

// Config holds MongoDB connection configuration.
type Config struct {
	URI          string
	DatabaseName string
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.DatabaseName)
	return &Store{
		client:    client,
		customers: db.Collection(CustomersCollection),
		supplies:  db.Collection(SuppliesCollection),
		invoices:  db.Collection(InvoicesCollection),
	}, nil
}

// EnsureIndexes creates the lookup indexes the store queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "dni_last4", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index customers: %w", err)
	}
	_, err = s.supplies.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index supplies: %w", err)
	}
	_, err = s.invoices.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "cups_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index invoices: %w", err)
	}
	return nil
}

// FindCustomerByPartialDNI matches the explicit dni_last4 field first,
// then falls back to a suffix match on the full account DNI.
func (s *Store) FindCustomerByPartialDNI(ctx context.Context, dniLast4 string) (*models.Customer, error) {
	candidate := strings.ToUpper(strings.TrimSpace(dniLast4))
	if candidate == "" {
		return nil, nil
	}

	var customer models.Customer
	err := s.customers.FindOne(ctx, bson.M{"dni_last4": candidate}).Decode(&customer)
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to find customer by dni fragment: %w", err)
	}

	suffix := bson.M{"account_dni": bson.M{
		"$regex":   regexp.QuoteMeta(candidate) + "$",
		"$options": "i",
	}}
	err = s.customers.FindOne(ctx, suffix).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by account dni: %w", err)
	}
	return &customer, nil
}

// SuppliesForUser lists the supply points of a customer.
func (s *Store) SuppliesForUser(ctx context.Context, userID string) ([]models.Supply, error) {
	cursor, err := s.supplies.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to find supplies: %w", err)
	}
	defer cursor.Close(ctx)

	var supplies []models.Supply
	if err := cursor.All(ctx, &supplies); err != nil {
		return nil, fmt.Errorf("failed to decode supplies: %w", err)
	}
	return supplies, nil
}

// InvoicesForSupply lists a supply's invoices, most recent first.
func (s *Store) InvoicesForSupply(ctx context.Context, userID, supplyID string) ([]models.Invoice, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "issue_date", Value: -1},
		{Key: "due_date", Value: -1},
	})
	cursor, err := s.invoices.Find(ctx, bson.M{"user_id": userID, "cups_id": supplyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

// Ping verifies the connection to MongoDB.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
