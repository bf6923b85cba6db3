package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/energix/fulfillment-service/internal/core/datastore"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
)

const paymentLinkBase = "https://pagos.demo.local/pago"

// HandleSendPaymentLink answers Payments.SendLink with a simulated
// payment link for the resolved account.
func HandleSendPaymentLink(ctx context.Context, store datastore.Store, params dialogflow.Params) (*dispatch.Result, error) {
	userID, _, guard := identified(params)
	if guard != nil {
		return guard, nil
	}

	link := fmt.Sprintf("%s?c=%s&t=%d", paymentLinkBase, userID, time.Now().UTC().Unix())
	text := fmt.Sprintf("Listo. He enviado un enlace de pago al móvil indicado en tu contrato. (Simulado)\nEnlace: %s", link)
	return &dispatch.Result{Message: text, Params: params}, nil
}
