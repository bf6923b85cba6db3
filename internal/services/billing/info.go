package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/energix/fulfillment-service/internal/core/datastore"
	"github.com/energix/fulfillment-service/internal/domain/models"
	"github.com/energix/fulfillment-service/internal/pkg/format"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
)

// identified extracts the resolved identity pair, or returns a
// full-control guard response when a handler is reached without one.
func identified(params dialogflow.Params) (userID, supplyID string, guard *dispatch.Result) {
	userID = params.String("user_id")
	supplyID = params.String("cups_id")
	if userID == "" {
		return "", "", &dispatch.Result{Response: dialogflow.NewResponse(msgNoUser)}
	}
	if supplyID == "" {
		return "", "", &dispatch.Result{Response: dialogflow.NewResponse(msgNoSupply)}
	}
	return userID, supplyID, nil
}

// HandleAccountStatus answers Billing.Info.AccountStatus: whether the
// account has unpaid invoices and for how much.
func HandleAccountStatus(ctx context.Context, store datastore.Store, params dialogflow.Params) (*dispatch.Result, error) {
	userID, supplyID, guard := identified(params)
	if guard != nil {
		return guard, nil
	}

	invoices, err := store.InvoicesForSupply(ctx, userID, supplyID)
	if err != nil {
		return nil, err
	}
	unpaid := models.UnpaidInvoices(invoices)

	var text string
	switch len(unpaid) {
	case 0:
		text = "Estás al corriente de pago. No tienes facturas pendientes."
	case 1:
		text = fmt.Sprintf("Tienes 1 factura pendiente por un total de %s.", format.EUR(models.OutstandingAmount(unpaid)))
	default:
		text = fmt.Sprintf("Tienes %d facturas pendientes por un total de %s.", len(unpaid), format.EUR(models.OutstandingAmount(unpaid)))
	}
	return &dispatch.Result{Message: text, Params: params}, nil
}

// HandleUnpaidInvoices answers Billing.Info.UnpaidInvoices with up to
// three pending invoices, most recent first.
func HandleUnpaidInvoices(ctx context.Context, store datastore.Store, params dialogflow.Params) (*dispatch.Result, error) {
	userID, supplyID, guard := identified(params)
	if guard != nil {
		return guard, nil
	}

	invoices, err := store.InvoicesForSupply(ctx, userID, supplyID)
	if err != nil {
		return nil, err
	}
	unpaid := models.UnpaidInvoices(invoices)

	if len(unpaid) == 0 {
		return &dispatch.Result{Message: "No tienes facturas pendientes.", Params: params}, nil
	}

	lines := make([]string, 0, 3)
	for _, inv := range unpaid {
		if len(lines) == 3 {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s | %s | vence %s | %s", inv.Period, format.EUR(inv.Amount), inv.DueDate, inv.Status))
	}
	text := "Estas son tus facturas pendientes (máx. 3):\n" + strings.Join(lines, "\n")
	return &dispatch.Result{Message: text, Params: params}, nil
}

// HandleOutstandingAmount answers Billing.Info.OutstandingAmount with
// the total amount due.
func HandleOutstandingAmount(ctx context.Context, store datastore.Store, params dialogflow.Params) (*dispatch.Result, error) {
	userID, supplyID, guard := identified(params)
	if guard != nil {
		return guard, nil
	}

	invoices, err := store.InvoicesForSupply(ctx, userID, supplyID)
	if err != nil {
		return nil, err
	}
	unpaid := models.UnpaidInvoices(invoices)

	if len(unpaid) == 0 {
		return &dispatch.Result{Message: "No tienes importe pendiente.", Params: params}, nil
	}
	text := fmt.Sprintf("Tu importe pendiente total es %s (%d factura(s)).",
		format.EUR(models.OutstandingAmount(unpaid)), len(unpaid))
	return &dispatch.Result{Message: text, Params: params}, nil
}
