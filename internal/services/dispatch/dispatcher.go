// Package dispatch maps intent names to business handlers and
// normalizes their heterogeneous outputs into one result shape.
package dispatch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/energix/fulfillment-service/internal/core/datastore"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
)

// Boundary messages. The NLU engine never sees a fault code; a
// malformed reply there is worse than a generic one to the end user.
const (
	// MsgApology replaces any handler failure.
	MsgApology = "Ha ocurrido un error procesando tu solicitud. ¿Puedes intentarlo de nuevo?"
	// MsgUnwiredFmt announces an intent with no registered handler.
	MsgUnwiredFmt = "El intent '%s' aún no está conectado al webhook. (Demo)"
)

// Handler executes one business intent. A handler either returns a
// plain message plus echoed parameters (the state machine builds the
// contexts), or a fully-formed response (the handler took full
// control; the state machine still overlays identity contexts).
type Handler func(ctx context.Context, store datastore.Store, params dialogflow.Params) (*Result, error)

// Result is the normalized handler output. Exactly one of
// Message/Response is meaningful: when Response is set the handler
// took full control of the reply.
type Result struct {
	Message  string
	Params   dialogflow.Params
	Response *dialogflow.WebhookResponse
}

// Dispatcher holds the static intent→handler registry.
type Dispatcher struct {
	store    datastore.Store
	handlers map[string]Handler
	log      zerolog.Logger
}

// New creates a dispatcher over the given data store.
func New(store datastore.Store) *Dispatcher {
	return &Dispatcher{
		store:    store,
		handlers: make(map[string]Handler),
		log:      log.With().Str("component", "dispatch").Logger(),
	}
}

// Register wires an intent name to a handler. Last registration wins.
func (d *Dispatcher) Register(intent string, h Handler) {
	d.handlers[intent] = h
}

// Known reports whether the intent has a registered handler.
func (d *Dispatcher) Known(intent string) bool {
	_, ok := d.handlers[intent]
	return ok
}

// Execute runs the handler for the intent and normalizes its output.
// An unregistered intent yields the explicit un-wired notice, never a
// crash. Errors and panics inside handlers are contained here and
// converted into the generic apology; nothing is retried
// automatically.
func (d *Dispatcher) Execute(ctx context.Context, intent string, params dialogflow.Params) (result *Result) {
	handler, ok := d.handlers[intent]
	if !ok {
		d.log.Warn().Str("intent", intent).Msg("no handler registered")
		return &Result{Response: dialogflow.NewResponse(fmt.Sprintf(MsgUnwiredFmt, intent))}
	}

	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error().Interface("panic", rec).Str("intent", intent).Msg("handler panicked")
			result = &Result{Response: dialogflow.NewResponse(MsgApology)}
		}
	}()

	res, err := handler(ctx, d.store, params)
	if err != nil {
		d.log.Error().Err(err).Str("intent", intent).Msg("handler failed")
		return &Result{Response: dialogflow.NewResponse(MsgApology)}
	}
	if res == nil {
		d.log.Error().Str("intent", intent).Msg("handler returned no result")
		return &Result{Response: dialogflow.NewResponse(MsgApology)}
	}
	if res.Params == nil && res.Response == nil {
		res.Params = params
	}
	return res
}
