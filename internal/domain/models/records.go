// Package models defines the domain records and session state for the
// billing fulfillment service.
package models

// InvoiceStatus is the payment status of an invoice.
type InvoiceStatus string

const (
	// StatusDue marks an invoice issued and not yet paid.
	StatusDue InvoiceStatus = "DUE"
	// StatusOverdue marks an unpaid invoice past its due date.
	StatusOverdue InvoiceStatus = "OVERDUE"
	// StatusPaid marks a settled invoice.
	StatusPaid InvoiceStatus = "PAID"
)

// Customer is a billing account holder. The store keeps both the
// abbreviated DNI fragment and the full account DNI so partial lookups
// work against either format.
type Customer struct {
	UserID     string `json:"user_id" bson:"user_id"`
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
	DNILast4   string `json:"dni_last4" bson:"dni_last4"`
	AccountDNI string `json:"account_dni,omitempty" bson:"account_dni,omitempty"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email      string `json:"email,omitempty" bson:"email,omitempty"`
}

// Supply is one supply point (account) of a customer. CUPS is the full
// supply code; SupplyID is the internal identifier echoed to the NLU
// engine as cups_id.
type Supply struct {
	SupplyID string `json:"cups_id" bson:"cups_id"`
	UserID   string `json:"user_id" bson:"user_id"`
	CUPS     string `json:"cups" bson:"cups"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
}

// Invoice is one billing period of a supply. Period is YYYY-MM.
type Invoice struct {
	InvoiceID string        `json:"invoice_id" bson:"invoice_id"`
	UserID    string        `json:"user_id" bson:"user_id"`
	SupplyID  string        `json:"cups_id" bson:"cups_id"`
	Period    string        `json:"period" bson:"period"`
	Amount    float64       `json:"amount" bson:"amount"`
	Status    InvoiceStatus `json:"status" bson:"status"`
	IssueDate string        `json:"issue_date" bson:"issue_date"`
	DueDate   string        `json:"due_date" bson:"due_date"`
}

// Unpaid reports whether the invoice still needs a payment.
func (i Invoice) Unpaid() bool {
	return i.Status == StatusDue || i.Status == StatusOverdue
}

// UnpaidInvoices filters invoices down to the unpaid ones, preserving
// order.
func UnpaidInvoices(invoices []Invoice) []Invoice {
	var unpaid []Invoice
	for _, inv := range invoices {
		if inv.Unpaid() {
			unpaid = append(unpaid, inv)
		}
	}
	return unpaid
}

// OutstandingAmount sums the amounts of the unpaid invoices.
func OutstandingAmount(invoices []Invoice) float64 {
	var total float64
	for _, inv := range invoices {
		if inv.Unpaid() {
			total += inv.Amount
		}
	}
	return total
}

// Dataset is the flat record set used by the JSON-file store and by
// tests.
type Dataset struct {
	Customers []Customer `json:"customers"`
	Supplies  []Supply   `json:"supplies"`
	Invoices  []Invoice  `json:"invoices"`
}
