package dialogflow

import "strings"

// Context names used by the session state machine.
const (
	// ContextSessionState holds the durable conversational memory.
	ContextSessionState = "session_state"
	// ContextAwaitingIdentity marks that the bot asked for an identity
	// fragment and which one it expects.
	ContextAwaitingIdentity = "awaiting_identity"
	// ContextIdentityVerified carries the resolved identity once both
	// user and supply are known.
	ContextIdentityVerified = "identity_verified"
)

// ContextParams scans the active contexts of the inbound payload for
// one whose fully-qualified name ends with "/contexts/<name>" and
// returns its parameters. Absence is not an error: an empty mapping is
// returned so callers can read state unconditionally.
func ContextParams(req *WebhookRequest, name string) Params {
	if req == nil {
		return Params{}
	}
	suffix := "/contexts/" + name
	for _, ctx := range req.QueryResult.OutputContexts {
		if strings.HasSuffix(ctx.Name, suffix) {
			if ctx.Parameters == nil {
				return Params{}
			}
			return ctx.Parameters
		}
	}
	return Params{}
}

// MakeContext builds a context scoped to the given session. The engine
// replaces any live context of the same name when the response is
// echoed back; lifespan 0 is the deletion idiom.
func MakeContext(session, name string, lifespan int, params Params) Context {
	return Context{
		Name:          session + "/contexts/" + name,
		LifespanCount: lifespan,
		Parameters:    params,
	}
}

// UpsertContext builds a replacement for the named context of the
// session the request belongs to.
func UpsertContext(req *WebhookRequest, name string, params Params, lifespan int) Context {
	return MakeContext(req.Session, name, lifespan, params)
}
