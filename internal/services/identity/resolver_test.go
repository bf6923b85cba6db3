// Package identity_test provides unit tests for the identity resolver.
package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energix/fulfillment-service/internal/domain/models"
	"github.com/energix/fulfillment-service/internal/infrastructure/datastore/jsonfile"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
	"github.com/energix/fulfillment-service/internal/services/identity"
)

func newResolver() *identity.Resolver {
	store := jsonfile.NewStoreFromDataset(models.Dataset{
		Customers: []models.Customer{
			{UserID: "u-1", DNILast4: "5678Z", AccountDNI: "12345678Z"},
			{UserID: "u-2", DNILast4: "4321K", AccountDNI: "87654321K"},
		},
		Supplies: []models.Supply{
			{SupplyID: "s-1", UserID: "u-1", CUPS: "ES0021000000001234AB"},
			{SupplyID: "s-2", UserID: "u-2", CUPS: "ES0021000000005678CD"},
			{SupplyID: "s-3", UserID: "u-2", CUPS: "ES0031000000009012EF"},
		},
	})
	return identity.NewResolver(store)
}

func TestNormalizeDNIPartial(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5678Z", "5678Z"},
		{"  5678z  ", "5678Z"},
		{"5678", ""},
		{"678Z", ""},
		{"56789Z", ""},
		{"Z5678", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, identity.NormalizeDNIPartial(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeCUPSLast6(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5678CD", "5678CD"},
		{"ES5678CD", "5678CD"},
		{"  es5678cd  ", "5678CD"},
		{"5678C", ""},
		{"5678CDE", ""},
		{"5678C!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, identity.NormalizeCUPSLast6(tt.input), "input %q", tt.input)
	}
}

func TestExtract_ParameterAliases(t *testing.T) {
	assert.Equal(t, "5678Z", identity.ExtractDNI(dialogflow.Params{"dni_last4_letter": "5678z"}))
	assert.Equal(t, "5678Z", identity.ExtractDNI(dialogflow.Params{"DNI": "5678z"}))
	assert.Equal(t, "", identity.ExtractDNI(dialogflow.Params{"unrelated": "x"}))

	assert.Equal(t, "ES5678CD", identity.ExtractCUPS(dialogflow.Params{"cups_last6": "es5678cd"}))
	assert.Equal(t, "5678CD", identity.ExtractCUPS(dialogflow.Params{"CUPS": "5678cd"}))
}

func TestResolve_FastPathSkipsLookups(t *testing.T) {
	// A resolver over an empty dataset: any lookup would miss, so a
	// successful resolution proves the fast path short-circuited.
	resolver := identity.NewResolver(jsonfile.NewStoreFromDataset(models.Dataset{}))

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{
		"user_id": "u-1",
		"cups_id": "s-1",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusOK, res.Status)
	assert.Equal(t, "u-1", res.UserID)
	assert.Equal(t, "s-1", res.SupplyID)
}

func TestResolve_NoDNIAsksForIt(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusNeedIdentity, res.Status)
	assert.Equal(t, identity.PromptAskDNI, res.Prompt)
	assert.Empty(t, res.UserID)
}

func TestResolve_InvalidDNIShapeTreatedAsAbsent(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{"dni_last4": "nope"})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusNeedIdentity, res.Status)
	assert.Equal(t, identity.PromptAskDNI, res.Prompt)
}

func TestResolve_UnknownDNI(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{"dni_last4": "0000X"})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusNeedIdentity, res.Status)
	assert.Equal(t, identity.PromptDNINotFound, res.Prompt)
}

func TestResolve_SingleSupplyNeverAsksForCUPS(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{"dni_last4": "5678z"})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusOK, res.Status)
	assert.Equal(t, "u-1", res.UserID)
	assert.Equal(t, "s-1", res.SupplyID)
	assert.Equal(t, "5678Z", res.DNILast4)
}

func TestResolve_MultiSupplyAsksForCUPS(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{"dni_last4": "4321K"})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusNeedSupply, res.Status)
	assert.Equal(t, identity.PromptAskCUPS, res.Prompt)
	assert.Equal(t, "u-2", res.UserID, "resolved user carries forward while the supply is open")
	assert.Equal(t, "4321K", res.DNILast4)
}

func TestResolve_CUPSSuffixMatch(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{
		"dni_last4":  "4321K",
		"cups_last6": "ES9012EF",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusOK, res.Status)
	assert.Equal(t, "u-2", res.UserID)
	assert.Equal(t, "s-3", res.SupplyID)
}

func TestResolve_CUPSNoMatch(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{
		"dni_last4":  "4321K",
		"cups_last6": "000000",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusNeedSupply, res.Status)
	assert.Equal(t, identity.PromptCUPSNoMatch, res.Prompt)
	assert.Equal(t, "u-2", res.UserID)
}

func TestResolve_InvalidCUPSShapeAsksAgain(t *testing.T) {
	resolver := newResolver()

	res, err := resolver.Resolve(context.Background(), dialogflow.Params{
		"dni_last4":  "4321K",
		"cups_last6": "12",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.StatusNeedSupply, res.Status)
	assert.Equal(t, identity.PromptAskCUPS, res.Prompt)
}

func TestResolve_Idempotent(t *testing.T) {
	resolver := newResolver()
	merged := dialogflow.Params{"dni_last4": "5678Z"}

	first, err := resolver.Resolve(context.Background(), merged)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), merged)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
