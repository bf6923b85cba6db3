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

const invoiceLinkBase = "https://pagos.demo.local/factura/"

// HandleSendInvoice serves both Billing.SendInvoice.Last and
// Billing.SendInvoice.ByMonth: without a period it resends the most
// recent invoice, with one it resends that period's invoice.
func HandleSendInvoice(ctx context.Context, store datastore.Store, params dialogflow.Params) (*dispatch.Result, error) {
	userID, supplyID, guard := identified(params)
	if guard != nil {
		return guard, nil
	}

	invoices, err := store.InvoicesForSupply(ctx, userID, supplyID)
	if err != nil {
		return nil, err
	}

	period := format.NormalizePeriod(params.String("period"), params.String("date"), params.String("month"))

	var invoice *models.Invoice
	var message string
	switch {
	case period != "":
		invoice = findByPeriod(invoices, period)
		if invoice == nil {
			return &dispatch.Result{
				Response: dialogflow.NewResponse(fmt.Sprintf("No se ha encontrado factura para el periodo %s.", format.PeriodText(period))),
			}, nil
		}
		period = invoice.Period
		message = fmt.Sprintf("Perfecto. Te reenviaremos la factura del periodo %s. Por favor, revise su buzón en unos minutos.", format.PeriodText(period))
	default:
		if len(invoices) == 0 {
			return &dispatch.Result{
				Response: dialogflow.NewResponse("No tengo facturas disponibles para tu contrato."),
			}, nil
		}
		invoice = &invoices[0]
		period = invoice.Period
		message = fmt.Sprintf("Perfecto. A continuación te reenviaremos la última factura disponible. Es la factura correspondiente al periodo de %s.", format.PeriodText(period))
	}

	link := invoiceLinkBase + invoice.InvoiceID
	message = fmt.Sprintf("%s\nImporte: %s. Puede descargarla a través del siguiente link: %s", message, format.EUR(invoice.Amount), link)

	out := params.Clone()
	out["period"] = period
	return &dispatch.Result{Message: message, Params: out}, nil
}

// findByPeriod matches an exact YYYY-MM period, or the most recent
// invoice of that month when only the month is known. Invoices arrive
// most recent first.
func findByPeriod(invoices []models.Invoice, period string) *models.Invoice {
	if suffix, monthOnly := format.MonthOnly(period); monthOnly {
		for i := range invoices {
			if strings.HasSuffix(invoices[i].Period, suffix) {
				return &invoices[i]
			}
		}
		return nil
	}
	for i := range invoices {
		if invoices[i].Period == period {
			return &invoices[i]
		}
	}
	return nil
}
