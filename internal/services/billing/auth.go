package billing

import (
	"context"

	"github.com/energix/fulfillment-service/internal/core/datastore"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
)

// HandleProvideIdentity acknowledges Auth.ProvideIdentity when the
// user identified themselves with no action pending. With a pending
// action the state machine resumes it instead of dispatching this
// intent.
func HandleProvideIdentity(ctx context.Context, store datastore.Store, params dialogflow.Params) (*dispatch.Result, error) {
	text := "Perfecto, te hemos identificado correctamente. ¿En qué puedo ayudarte?"
	return &dispatch.Result{Message: text, Params: params}, nil
}
