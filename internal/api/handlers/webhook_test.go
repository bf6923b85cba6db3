// Package handlers_test provides unit tests for the API handlers.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energix/fulfillment-service/internal/api/handlers"
	"github.com/energix/fulfillment-service/internal/domain/models"
	"github.com/energix/fulfillment-service/internal/infrastructure/datastore/jsonfile"
	"github.com/energix/fulfillment-service/internal/services/billing"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/dispatch"
	"github.com/energix/fulfillment-service/internal/services/fulfillment"
	"github.com/energix/fulfillment-service/internal/services/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupWebhookRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store := jsonfile.NewStoreFromDataset(models.Dataset{
		Customers: []models.Customer{
			{UserID: "u-1", DNILast4: "5678Z"},
		},
		Supplies: []models.Supply{
			{SupplyID: "s-1", UserID: "u-1", CUPS: "ES0021000000001234AB"},
		},
		Invoices: []models.Invoice{
			{InvoiceID: "f-1", UserID: "u-1", SupplyID: "s-1", Period: "2025-07", Amount: 55.1, Status: models.StatusDue, IssueDate: "2025-08-01", DueDate: "2025-08-15"},
		},
	})
	dispatcher := dispatch.New(store)
	billing.Register(dispatcher)
	svc := fulfillment.NewService(dispatcher, identity.NewResolver(store), fulfillment.Config{})

	handler := handlers.NewWebhookHandler(svc, dispatcher, nil)

	router := gin.New()
	router.POST("/webhook", handler.Handle)
	return router
}

func postWebhook(t *testing.T, router *gin.Engine, body any) (*httptest.ResponseRecorder, dialogflow.WebhookResponse) {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dialogflow.WebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestWebhook_BusinessIntentWithoutIdentity(t *testing.T) {
	router := setupWebhookRouter(t)

	w, resp := postWebhook(t, router, dialogflow.WebhookRequest{
		Session: "projects/p/agent/sessions/s-1",
		QueryResult: dialogflow.QueryResult{
			Intent: dialogflow.Intent{DisplayName: billing.IntentAccountStatus},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, identity.PromptAskDNI, resp.FulfillmentText)
	require.NotEmpty(t, resp.OutputContexts)
}

func TestWebhook_IdentifiedTurnEndToEnd(t *testing.T) {
	router := setupWebhookRouter(t)

	w, resp := postWebhook(t, router, dialogflow.WebhookRequest{
		Session: "projects/p/agent/sessions/s-1",
		QueryResult: dialogflow.QueryResult{
			Intent:     dialogflow.Intent{DisplayName: billing.IntentAccountStatus},
			Parameters: dialogflow.Params{"dni_last4": "5678Z"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp.FulfillmentText, "factura pendiente")
}

func TestWebhook_NonBusinessIntentUsesStaticRouter(t *testing.T) {
	router := setupWebhookRouter(t)

	w, resp := postWebhook(t, router, dialogflow.WebhookRequest{
		Session: "projects/p/agent/sessions/s-1",
		QueryResult: dialogflow.QueryResult{
			Intent: dialogflow.Intent{DisplayName: billing.IntentNextInvoiceDate},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp.FulfillmentText, "próxima fecha de emisión")
}

func TestWebhook_UnknownIntentGetsDemoNotice(t *testing.T) {
	router := setupWebhookRouter(t)

	w, resp := postWebhook(t, router, dialogflow.WebhookRequest{
		Session: "projects/p/agent/sessions/s-1",
		QueryResult: dialogflow.QueryResult{
			Intent: dialogflow.Intent{DisplayName: "Never.Wired.Intent"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp.FulfillmentText, "Never.Wired.Intent")
	assert.Contains(t, resp.FulfillmentText, "(Demo)")
}

func TestWebhook_MalformedPayloadStaysHTTP200(t *testing.T) {
	router := setupWebhookRouter(t)

	w, resp := postWebhook(t, router, "{not json")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dispatch.MsgApology, resp.FulfillmentText)
}
