// Package dialogflow defines the Dialogflow ES webhook wire format and
// the context helpers used to exchange conversational state with the
// NLU engine.
package dialogflow

import (
	"fmt"
	"strings"
)

// Params is the loosely-typed parameter mapping the NLU engine attaches
// to intents and contexts.
type Params map[string]any

// String returns the value for key rendered as a trimmed string, or ""
// when the key is absent or empty. Numeric values are rendered with
// fmt.Sprint so platform quirks (e.g. numbers for numeric-looking
// slots) do not drop data.
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Clone returns a shallow copy of the params. A nil receiver yields an
// empty, writable map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p with the non-empty values of other written
// on top. Latest non-empty wins; empty strings and nils in other never
// clear an existing value.
func (p Params) Merge(other Params) Params {
	out := p.Clone()
	for k, v := range other {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// WebhookRequest is the inbound fulfillment payload.
type WebhookRequest struct {
	Session     string      `json:"session"`
	ResponseID  string      `json:"responseId,omitempty"`
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries the recognized intent, its extracted parameters
// and the currently active contexts.
type QueryResult struct {
	QueryText      string    `json:"queryText,omitempty"`
	Intent         Intent    `json:"intent"`
	Parameters     Params    `json:"parameters"`
	OutputContexts []Context `json:"outputContexts"`
}

// Intent identifies the recognized intent by display name.
type Intent struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName"`
}

// Context is a named, lifespan-counted fragment of conversational
// state. A lifespanCount of 0 expires the context.
type Context struct {
	Name          string `json:"name"`
	LifespanCount int    `json:"lifespanCount"`
	Parameters    Params `json:"parameters,omitempty"`
}

// WebhookResponse is the outbound fulfillment payload.
type WebhookResponse struct {
	FulfillmentText string         `json:"fulfillmentText"`
	OutputContexts  []Context      `json:"outputContexts,omitempty"`
	Payload         map[string]any `json:"payload,omitempty"`
}

// NewResponse builds a response with the given reply text and contexts.
func NewResponse(text string, contexts ...Context) *WebhookResponse {
	return &WebhookResponse{
		FulfillmentText: text,
		OutputContexts:  contexts,
	}
}
