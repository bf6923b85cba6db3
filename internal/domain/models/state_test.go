// Package models_test provides unit tests for the domain models.
package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/energix/fulfillment-service/internal/domain/models"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
)

func TestStateFromParams_RoundTrip(t *testing.T) {
	in := dialogflow.Params{
		"user_id":        "u-1001",
		"cups_id":        "s-2001",
		"dni_last4":      "5678z",
		"cups_last6":     "1234ab",
		"pending_action": "Billing.SendInvoice.Last",
		"pending_params": map[string]any{"period": "2025-07"},
		"last_action":    "Billing.Info.AccountStatus",
		"last_params":    map[string]any{"user_id": "u-1001"},
		"auth_level":     "basic",
	}

	state := models.StateFromParams(in)

	assert.Equal(t, "u-1001", state.UserID)
	assert.Equal(t, "s-2001", state.SupplyID)
	assert.Equal(t, "5678Z", state.DNILast4, "fragments normalize to upper case")
	assert.Equal(t, "1234AB", state.CUPSLast6)
	assert.Equal(t, "Billing.SendInvoice.Last", state.PendingAction)
	assert.Equal(t, "2025-07", state.PendingParams.String("period"))
	assert.Equal(t, "Billing.Info.AccountStatus", state.LastAction)
	assert.Equal(t, models.AuthLevelBasic, state.AuthLevel)

	out := state.Params()
	assert.Equal(t, "u-1001", out.String("user_id"))
	assert.Equal(t, "s-2001", out.String("cups_id"))
	assert.Equal(t, "5678Z", out.String("dni_last4"))
	assert.Equal(t, "Billing.SendInvoice.Last", out.String("pending_action"))
	pending, ok := out["pending_params"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "2025-07", pending["period"])
}

func TestStateFromParams_UnknownKeysPassThrough(t *testing.T) {
	in := dialogflow.Params{
		"user_id":    "u-1",
		"rating":     "5",
		"free_field": "keep-me",
	}

	state := models.StateFromParams(in)
	out := state.Params()

	assert.Equal(t, "5", out.String("rating"))
	assert.Equal(t, "keep-me", out.String("free_field"))
}

func TestStateParams_OmitsEmptyFields(t *testing.T) {
	state := models.StateFromParams(dialogflow.Params{"dni_last4": "5678Z"})

	out := state.Params()
	assert.Equal(t, dialogflow.Params{"dni_last4": "5678Z"}, out)
}

func TestSessionState_ClearPending(t *testing.T) {
	state := models.StateFromParams(dialogflow.Params{
		"pending_action": "Billing.SendInvoice.Last",
		"pending_params": map[string]any{"period": "2025-07"},
	})

	state.ClearPending()

	assert.Empty(t, state.PendingAction)
	assert.Nil(t, state.PendingParams)
	assert.NotContains(t, state.Params(), "pending_action")
	assert.NotContains(t, state.Params(), "pending_params")
}

func TestSessionState_Identified(t *testing.T) {
	state := &models.SessionState{UserID: "u-1"}
	assert.False(t, state.Identified())

	state.SupplyID = "s-1"
	assert.True(t, state.Identified())
}

func TestStateFromParams_PendingParamsWrongShapeIgnored(t *testing.T) {
	state := models.StateFromParams(dialogflow.Params{
		"pending_params": "not-a-map",
	})

	assert.Nil(t, state.PendingParams)
}
