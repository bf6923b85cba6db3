package models

import (
	"strings"

	"github.com/energix/fulfillment-service/internal/services/dialogflow"
)

// AuthLevelBasic is set once the DNI fragment matched a unique
// customer.
const AuthLevelBasic = "basic"

// Recognized session_state parameter keys. Anything else round-trips
// through Extra untouched.
const (
	keyUserID        = "user_id"
	keySupplyID      = "cups_id"
	keyDNILast4      = "dni_last4"
	keyCUPSLast6     = "cups_last6"
	keyPendingAction = "pending_action"
	keyPendingParams = "pending_params"
	keyLastAction    = "last_action"
	keyLastParams    = "last_params"
	keyAuthLevel     = "auth_level"
)

// SessionState is the durable conversational memory carried in the
// session_state context. It is read at the start of a turn, mutated by
// the session state machine, and written back as context parameters.
type SessionState struct {
	UserID   string
	SupplyID string

	// Partial identity fragments accumulated across turns. Kept even
	// when a lookup misses so the user never repeats correct input.
	DNILast4  string
	CUPSLast6 string

	// Deferred business action, set while identity is incomplete.
	PendingAction string
	PendingParams dialogflow.Params

	// Most recently executed action, for the retry intent.
	LastAction string
	LastParams dialogflow.Params

	AuthLevel string

	// Extra holds unrecognized keys so they pass through opaquely.
	Extra dialogflow.Params
}

// StateFromParams validates a loose context parameter mapping into a
// SessionState. Unrecognized keys are preserved in Extra.
func StateFromParams(p dialogflow.Params) *SessionState {
	s := &SessionState{
		UserID:        p.String(keyUserID),
		SupplyID:      p.String(keySupplyID),
		DNILast4:      strings.ToUpper(p.String(keyDNILast4)),
		CUPSLast6:     strings.ToUpper(p.String(keyCUPSLast6)),
		PendingAction: p.String(keyPendingAction),
		PendingParams: subParams(p, keyPendingParams),
		LastAction:    p.String(keyLastAction),
		LastParams:    subParams(p, keyLastParams),
		AuthLevel:     p.String(keyAuthLevel),
	}
	for k, v := range p {
		switch k {
		case keyUserID, keySupplyID, keyDNILast4, keyCUPSLast6,
			keyPendingAction, keyPendingParams, keyLastAction, keyLastParams,
			keyAuthLevel:
		default:
			if s.Extra == nil {
				s.Extra = dialogflow.Params{}
			}
			s.Extra[k] = v
		}
	}
	return s
}

// Params renders the state back into context parameters. Empty fields
// are omitted so contexts stay compact.
func (s *SessionState) Params() dialogflow.Params {
	p := dialogflow.Params{}
	for k, v := range s.Extra {
		p[k] = v
	}
	setIf(p, keyUserID, s.UserID)
	setIf(p, keySupplyID, s.SupplyID)
	setIf(p, keyDNILast4, s.DNILast4)
	setIf(p, keyCUPSLast6, s.CUPSLast6)
	setIf(p, keyPendingAction, s.PendingAction)
	setIf(p, keyLastAction, s.LastAction)
	setIf(p, keyAuthLevel, s.AuthLevel)
	if len(s.PendingParams) > 0 {
		p[keyPendingParams] = map[string]any(s.PendingParams)
	}
	if len(s.LastParams) > 0 {
		p[keyLastParams] = map[string]any(s.LastParams)
	}
	return p
}

// ClearPending drops the deferred action markers. Called exactly once,
// when the deferred action is chosen to run.
func (s *SessionState) ClearPending() {
	s.PendingAction = ""
	s.PendingParams = nil
}

// Identified reports whether both identity fields are known.
func (s *SessionState) Identified() bool {
	return s.UserID != "" && s.SupplyID != ""
}

func setIf(p dialogflow.Params, key, value string) {
	if value != "" {
		p[key] = value
	}
}

func subParams(p dialogflow.Params, key string) dialogflow.Params {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	switch m := v.(type) {
	case dialogflow.Params:
		return m.Clone()
	case map[string]any:
		return dialogflow.Params(m).Clone()
	default:
		return nil
	}
}
