package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/energix/fulfillment-service/internal/services/convlog"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
	"github.com/energix/fulfillment-service/internal/services/fulfillment"
)

// WebhookHandler handles the Dialogflow fulfillment endpoint.
type WebhookHandler struct {
	fulfillment *fulfillment.Service
	dispatcher  *dispatch.Dispatcher
	turnLog     *convlog.Service
	log         zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler. The turn log service
// may be nil when the cache is disabled.
func NewWebhookHandler(svc *fulfillment.Service, dispatcher *dispatch.Dispatcher, turnLog *convlog.Service) *WebhookHandler {
	return &WebhookHandler{
		fulfillment: svc,
		dispatcher:  dispatcher,
		turnLog:     turnLog,
		log:         log.With().Str("component", "webhook").Logger(),
	}
}

// Handle handles POST /webhook.
//
// The response status is always 200 with a well-formed fulfillment
// body: the NLU engine treats transport faults worse than a generic
// apology, so failures never propagate as HTTP errors.
//
// @Summary Dialogflow fulfillment webhook
// @Description Processes one conversational turn and returns the reply plus updated contexts
// @Tags Webhook
// @Accept json
// @Produce json
// @Param request body dialogflow.WebhookRequest true "Dialogflow webhook payload"
// @Success 200 {object} dialogflow.WebhookResponse
// @Router /api/v1/fulfillment/webhook [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	var req dialogflow.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn().Err(err).Msg("malformed webhook payload")
		c.JSON(http.StatusOK, dialogflow.NewResponse(dispatch.MsgApology))
		return
	}

	intent := req.QueryResult.Intent.DisplayName

	// Business intents run through the session state machine; anything
	// else falls through to the static intent router.
	resp := h.fulfillment.HandleTurn(ctx, &req)
	if resp == nil {
		result := h.dispatcher.Execute(ctx, intent, req.QueryResult.Parameters.Clone())
		if result.Response != nil {
			resp = result.Response
		} else {
			resp = dialogflow.NewResponse(result.Message)
		}
	}

	h.recordTurn(c, &req, resp)
	c.JSON(http.StatusOK, resp)
}

// recordTurn appends the handled turn to the session trail. Best
// effort: a failed write is logged and forgotten.
func (h *WebhookHandler) recordTurn(c *gin.Context, req *dialogflow.WebhookRequest, resp *dialogflow.WebhookResponse) {
	if h.turnLog == nil || req.Session == "" {
		return
	}
	entry := convlog.Entry{
		Intent: req.QueryResult.Intent.DisplayName,
		Reply:  resp.FulfillmentText,
	}
	if err := h.turnLog.Record(c.Request.Context(), req.Session, entry); err != nil {
		h.log.Warn().Err(err).Str("session", req.Session).Msg("failed to record turn")
	}
}
