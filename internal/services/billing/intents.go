// Package billing implements the per-intent business handlers: simple
// single-pass lookups over the billing data store.
package billing

import "github.com/energix/fulfillment-service/internal/services/dispatch"

// Intent display names recognized by the webhook.
const (
	IntentAccountStatus      = "Billing.Info.AccountStatus"
	IntentUnpaidInvoices     = "Billing.Info.UnpaidInvoices"
	IntentOutstandingAmount  = "Billing.Info.OutstandingAmount"
	IntentSendInvoiceLast    = "Billing.SendInvoice.Last"
	IntentSendInvoiceByMonth = "Billing.SendInvoice.ByMonth"
	IntentSendPaymentLink    = "Payments.SendLink"
	IntentNextInvoiceDate    = "Info.NextInvoiceDate"
	IntentProvideIdentity    = "Auth.ProvideIdentity"
)

// Guard messages for handlers invoked without a resolved identity.
const (
	msgNoSupply = "No hemos podido identificar el suministro. Por favor, vuelva a intentarlo más tarde."
	msgNoUser   = "No hemos podido identificarlo. Por favor, vuelva a intentarlo más tarde."
)

// Register wires every billing handler into the dispatcher.
func Register(d *dispatch.Dispatcher) {
	d.Register(IntentAccountStatus, HandleAccountStatus)
	d.Register(IntentUnpaidInvoices, HandleUnpaidInvoices)
	d.Register(IntentOutstandingAmount, HandleOutstandingAmount)
	d.Register(IntentSendInvoiceLast, HandleSendInvoice)
	d.Register(IntentSendInvoiceByMonth, HandleSendInvoice)
	d.Register(IntentSendPaymentLink, HandleSendPaymentLink)
	d.Register(IntentNextInvoiceDate, HandleNextInvoiceDate)
	d.Register(IntentProvideIdentity, HandleProvideIdentity)
}
