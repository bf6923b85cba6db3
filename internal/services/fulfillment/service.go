// Package fulfillment implements the session state machine: the
// per-turn orchestration of identity resolution, deferred-action
// tracking and context lifecycle.
package fulfillment

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/energix/fulfillment-service/internal/domain/models"
	"github.com/energix/fulfillment-service/internal/services/billing"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
	"github.com/energix/fulfillment-service/internal/services/identity"
)

// IntentNegativeFeedback is the retry intent: the user signalled the
// previous answer missed the mark.
const IntentNegativeFeedback = "Default.FeedBack.Negative"

// MsgRetryAsk is the reply when a retry arrives with nothing to retry.
const MsgRetryAsk = "Entendido. ¿Qué estabas intentando hacer exactamente?"

// authIntents are the business intents that require a resolved
// identity before they run.
var authIntents = map[string]struct{}{
	billing.IntentAccountStatus:      {},
	billing.IntentUnpaidInvoices:     {},
	billing.IntentOutstandingAmount:  {},
	billing.IntentSendInvoiceLast:    {},
	billing.IntentSendInvoiceByMonth: {},
	billing.IntentSendPaymentLink:    {},
}

// Config holds the context lifespans, in turns.
type Config struct {
	// StatePendingLifespan applies to session_state while identity is
	// incomplete.
	StatePendingLifespan int
	// StateLifespan applies to session_state after an action ran.
	StateLifespan int
	// AwaitingLifespan applies to the awaiting_identity marker.
	AwaitingLifespan int
	// VerifiedLifespan applies to identity_verified. It intentionally
	// outlives session_state so downstream intents can trust it
	// independently.
	VerifiedLifespan int
}

// DefaultConfig returns the standard lifespans.
func DefaultConfig() Config {
	return Config{
		StatePendingLifespan: 7,
		StateLifespan:        10,
		AwaitingLifespan:     3,
		VerifiedLifespan:     20,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.StatePendingLifespan <= 0 {
		c.StatePendingLifespan = d.StatePendingLifespan
	}
	if c.StateLifespan <= 0 {
		c.StateLifespan = d.StateLifespan
	}
	if c.AwaitingLifespan <= 0 {
		c.AwaitingLifespan = d.AwaitingLifespan
	}
	if c.VerifiedLifespan <= 0 {
		c.VerifiedLifespan = d.VerifiedLifespan
	}
	return c
}

// Service is the session state machine. It owns the read-merge-write
// of session state for the duration of one turn; across turns the
// contexts echoed to the NLU engine are the only persistence.
type Service struct {
	dispatcher *dispatch.Dispatcher
	resolver   *identity.Resolver
	cfg        Config
	log        zerolog.Logger
}

// NewService creates the state machine with explicitly injected
// collaborators. The dispatcher and resolver each carry their own
// data store handle.
func NewService(dispatcher *dispatch.Dispatcher, resolver *identity.Resolver, cfg Config) *Service {
	return &Service{
		dispatcher: dispatcher,
		resolver:   resolver,
		cfg:        cfg.withDefaults(),
		log:        log.With().Str("component", "fulfillment").Logger(),
	}
}

// HandleTurn processes one conversational turn. A nil return means the
// intent is not a business intent; the caller's static router handles
// it instead. The response is always transport-level success: failures
// inside a turn become the generic apology, never a fault code.
func (s *Service) HandleTurn(ctx context.Context, req *dialogflow.WebhookRequest) *dialogflow.WebhookResponse {
	intent := req.QueryResult.Intent.DisplayName
	params := req.QueryResult.Parameters.Clone()
	state := models.StateFromParams(dialogflow.ContextParams(req, dialogflow.ContextSessionState))

	// Identity-shaped turn parameters merge into state up front: the
	// latest non-empty value wins, and a later lookup miss never
	// clears them, so the user is not forced to repeat correct input.
	if dni := identity.ExtractDNI(params); dni != "" {
		state.DNILast4 = dni
	}
	if cups := identity.ExtractCUPS(params); cups != "" {
		state.CUPSLast6 = cups
	}

	logger := s.log.With().Str("session", req.Session).Str("intent", intent).Logger()

	intentToRun, runParams := intent, params
	switch {
	case intent == IntentNegativeFeedback:
		// Retry re-targets the turn: the deferred action first, then
		// the last executed one.
		switch {
		case state.PendingAction != "":
			intentToRun, runParams = state.PendingAction, state.PendingParams.Clone()
		case state.LastAction != "":
			intentToRun, runParams = state.LastAction, state.LastParams.Clone()
		default:
			logger.Info().Msg("retry with no action to replay")
			return dialogflow.NewResponse(MsgRetryAsk,
				dialogflow.UpsertContext(req, dialogflow.ContextSessionState, state.Params(), s.cfg.StateLifespan))
		}
		logger.Info().Str("action", intentToRun).Msg("retrying action")
	case !isBusinessIntent(intent) && intent != billing.IntentProvideIdentity:
		return nil
	}

	merged := state.Params().Merge(runParams)
	res, err := s.resolver.Resolve(ctx, merged)
	if err != nil {
		logger.Error().Err(err).Msg("identity resolution failed")
		return dialogflow.NewResponse(dispatch.MsgApology,
			dialogflow.UpsertContext(req, dialogflow.ContextSessionState, state.Params(), s.cfg.StatePendingLifespan))
	}
	logger.Info().Str("status", string(res.Status)).Msg("identity resolved")

	if res.Status != identity.StatusOK {
		return s.promptForIdentity(req, state, intentToRun, runParams, res)
	}

	state.UserID = res.UserID
	state.SupplyID = res.SupplyID
	if res.DNILast4 != "" {
		state.DNILast4 = res.DNILast4
	}
	state.AuthLevel = models.AuthLevelBasic

	// Resume the deferred action when the user just provided identity;
	// otherwise run the current intent. Pending markers are cleared
	// exactly once, at the moment the deferred action is chosen.
	action, actionParams := intentToRun, runParams
	if intentToRun == billing.IntentProvideIdentity && state.PendingAction != "" {
		action = state.PendingAction
		actionParams = state.PendingParams.Clone()
		state.ClearPending()
		logger.Info().Str("action", action).Msg("resuming deferred action")
	}
	actionParams = actionParams.Merge(dialogflow.Params{
		"user_id": res.UserID,
		"cups_id": res.SupplyID,
	})

	result := s.dispatcher.Execute(ctx, action, actionParams)

	if result.Response != nil {
		// The handler took full control of the reply; the state
		// machine still owns the context lifecycle.
		state.ClearPending()
		result.Response.OutputContexts = s.closingContexts(req, state.Params(), res)
		return result.Response
	}

	state.LastAction = action
	state.LastParams = actionParams
	state.ClearPending()
	stateParams := state.Params().Merge(result.Params)
	return dialogflow.NewResponse(result.Message, s.closingContexts(req, stateParams, res)...)
}

// promptForIdentity persists the merged state plus the awaiting marker
// and returns the disambiguation prompt. The requested business intent
// is stashed as the pending action; an already-pending action is never
// overwritten, first request wins until satisfied.
func (s *Service) promptForIdentity(req *dialogflow.WebhookRequest, state *models.SessionState, intentToRun string, runParams dialogflow.Params, res identity.Resolution) *dialogflow.WebhookResponse {
	if intentToRun != billing.IntentProvideIdentity && isBusinessIntent(intentToRun) && state.PendingAction == "" {
		state.PendingAction = intentToRun
		state.PendingParams = runParams.Clone()
	}
	if res.UserID != "" {
		// The DNI fragment matched; only the supply is still open.
		state.UserID = res.UserID
		state.AuthLevel = models.AuthLevelBasic
	}
	if res.DNILast4 != "" {
		state.DNILast4 = res.DNILast4
	}

	expected := "DNI"
	if res.Status == identity.StatusNeedSupply {
		expected = "CUPS"
	}
	return dialogflow.NewResponse(res.Prompt,
		dialogflow.UpsertContext(req, dialogflow.ContextSessionState, state.Params(), s.cfg.StatePendingLifespan),
		dialogflow.MakeContext(req.Session, dialogflow.ContextAwaitingIdentity, s.cfg.AwaitingLifespan, dialogflow.Params{"expected": expected}),
	)
}

// closingContexts builds the contexts emitted after an action ran: the
// updated session state, the expiry of the awaiting marker, and, only
// when both identity fields are known, the identity_verified marker.
func (s *Service) closingContexts(req *dialogflow.WebhookRequest, stateParams dialogflow.Params, res identity.Resolution) []dialogflow.Context {
	contexts := []dialogflow.Context{
		dialogflow.UpsertContext(req, dialogflow.ContextSessionState, stateParams, s.cfg.StateLifespan),
		dialogflow.MakeContext(req.Session, dialogflow.ContextAwaitingIdentity, 0, nil),
	}
	if res.UserID != "" && res.SupplyID != "" {
		contexts = append(contexts, dialogflow.MakeContext(req.Session, dialogflow.ContextIdentityVerified, s.cfg.VerifiedLifespan, dialogflow.Params{
			"user_id": res.UserID,
			"cups_id": res.SupplyID,
		}))
	}
	return contexts
}

func isBusinessIntent(intent string) bool {
	_, ok := authIntents[intent]
	return ok
}
