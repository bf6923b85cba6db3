package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/energix/fulfillment-service/internal/core/datastore"
	"github.com/energix/fulfillment-service/internal/pkg/format"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
)

// HandleNextInvoiceDate answers Info.NextInvoiceDate. Billing runs
// monthly, so the next emission is always the first day of the coming
// month. Needs no identity and no store lookup.
func HandleNextInvoiceDate(ctx context.Context, store datastore.Store, params dialogflow.Params) (*dispatch.Result, error) {
	now := time.Now().UTC()
	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	period := fmt.Sprintf("%04d-%02d", next.Year(), int(next.Month()))
	text := fmt.Sprintf("La próxima fecha de emisión de factura es en %s.", format.PeriodText(period))
	return &dispatch.Result{Message: text, Params: params}, nil
}
