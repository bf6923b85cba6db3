// Package identity resolves the caller's identity from partial
// credentials: the last 4 digits + letter of the DNI, and when the
// customer has several supply points, the last 6 characters of the
// CUPS code.
package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/energix/fulfillment-service/internal/core/datastore"
	"github.com/energix/fulfillment-service/internal/services/dialogflow"
)

// Status is the three-valued resolution outcome the session state
// machine branches on.
type Status string

const (
	// StatusOK means both user and supply are resolved.
	StatusOK Status = "OK"
	// StatusNeedIdentity means a usable DNI fragment is missing or did
	// not match any customer.
	StatusNeedIdentity Status = "NEED_IDENTITY"
	// StatusNeedSupply means the customer has several supplies and the
	// CUPS fragment is missing or did not match any of them.
	StatusNeedSupply Status = "NEED_SUPPLY"
)

// User-facing prompts for the identity flow.
const (
	PromptAskDNI      = "Por favor, dime los últimos 4 dígitos y la letra del DNI del titular."
	PromptDNINotFound = "No encuentro ese DNI parcial. ¿Puedes revisarlo y repetirlo?"
	PromptAskCUPS     = "Para poder identificar el suministro, necesitaré ES + los 6 últimos dígitos del CUPS (por ejemplo: ES123456)."
	PromptCUPSNoMatch = "Ese CUPS no coincide con tus suministros. Dime los últimos 6 caracteres correctos."
)

var (
	dniPartialRe  = regexp.MustCompile(`^\d{4}[A-Za-z]$`)
	cupsPartialRe = regexp.MustCompile(`^(ES)?[A-Za-z0-9]{6}$`)
)

// Parameter aliases historically used by the NLU agent for the same
// slots.
var (
	dniParamAliases  = []string{"dni_last4_letter", "dni_last4", "DNI"}
	cupsParamAliases = []string{"cups_last6", "CUPS", "cups"}
)

// Resolution is the result of one resolution pass. Prompt is only set
// for the NEED_* statuses.
type Resolution struct {
	Status   Status
	UserID   string
	SupplyID string
	DNILast4 string
	Prompt   string
}

// Resolver computes identity status against the billing data store.
// Resolution is idempotent and re-entrant: it never mutates the store
// and never regresses an already-satisfied field.
type Resolver struct {
	store datastore.Store
	log   zerolog.Logger
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store datastore.Store) *Resolver {
	return &Resolver{
		store: store,
		log:   log.With().Str("component", "identity").Logger(),
	}
}

// NormalizeDNIPartial validates a candidate DNI fragment: exactly 4
// digits followed by one letter, case-insensitive, trimmed. Any other
// shape is treated as absent, not as an error, so stray platform
// values never block progress.
func NormalizeDNIPartial(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if dniPartialRe.MatchString(value) {
		return value
	}
	return ""
}

// NormalizeCUPSLast6 validates a candidate CUPS fragment: 6
// alphanumeric characters, optionally prefixed with the ES country
// marker, which is stripped. Any other shape is treated as absent.
func NormalizeCUPSLast6(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if !cupsPartialRe.MatchString(value) {
		return ""
	}
	return strings.TrimPrefix(value, "ES")
}

// ExtractDNI pulls the first raw non-empty DNI-shaped value out of the
// params, checking every known alias. The value is uppercased but not
// validated; validation happens on read in Resolve.
func ExtractDNI(p dialogflow.Params) string {
	for _, key := range dniParamAliases {
		if v := p.String(key); v != "" {
			return strings.ToUpper(v)
		}
	}
	return ""
}

// ExtractCUPS pulls the first raw non-empty CUPS-shaped value out of
// the params, checking every known alias.
func ExtractCUPS(p dialogflow.Params) string {
	for _, key := range cupsParamAliases {
		if v := p.String(key); v != "" {
			return strings.ToUpper(v)
		}
	}
	return ""
}

// Resolve computes the identity status from the merged session state
// and turn parameters.
//
// Fast path: a session that already carries user_id and cups_id stays
// resolved; no re-validation happens within a session. Otherwise the
// DNI fragment is matched against the customers, then, when the
// customer has more than one supply point, the CUPS fragment against
// their supplies. Single-supply customers are never asked to
// disambiguate.
func (r *Resolver) Resolve(ctx context.Context, merged dialogflow.Params) (Resolution, error) {
	userID := merged.String("user_id")
	supplyID := merged.String("cups_id")
	if userID != "" && supplyID != "" {
		return Resolution{Status: StatusOK, UserID: userID, SupplyID: supplyID}, nil
	}

	dni := NormalizeDNIPartial(ExtractDNI(merged))
	if dni == "" {
		return Resolution{Status: StatusNeedIdentity, Prompt: PromptAskDNI}, nil
	}

	customer, err := r.store.FindCustomerByPartialDNI(ctx, dni)
	if err != nil {
		return Resolution{}, err
	}
	if customer == nil {
		return Resolution{Status: StatusNeedIdentity, Prompt: PromptDNINotFound}, nil
	}

	supplies, err := r.store.SuppliesForUser(ctx, customer.UserID)
	if err != nil {
		return Resolution{}, err
	}
	if len(supplies) == 1 {
		return Resolution{
			Status:   StatusOK,
			UserID:   customer.UserID,
			SupplyID: supplies[0].SupplyID,
			DNILast4: dni,
		}, nil
	}

	cupsLast6 := NormalizeCUPSLast6(ExtractCUPS(merged))
	if cupsLast6 == "" {
		return Resolution{
			Status:   StatusNeedSupply,
			UserID:   customer.UserID,
			DNILast4: dni,
			Prompt:   PromptAskCUPS,
		}, nil
	}

	// Suffix match, first hit wins. Two supplies sharing the same last
	// 6 characters are not disambiguated further.
	for _, s := range supplies {
		if strings.HasSuffix(strings.ToUpper(s.CUPS), cupsLast6) {
			r.log.Debug().
				Str("user_id", customer.UserID).
				Str("cups_id", s.SupplyID).
				Msg("supply matched by suffix")
			return Resolution{
				Status:   StatusOK,
				UserID:   customer.UserID,
				SupplyID: s.SupplyID,
				DNILast4: dni,
			}, nil
		}
	}

	return Resolution{
		Status:   StatusNeedSupply,
		UserID:   customer.UserID,
		DNILast4: dni,
		Prompt:   PromptCUPSNoMatch,
	}, nil
}
