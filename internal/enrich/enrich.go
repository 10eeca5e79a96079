// Package enrich defines the optional remote fallback for text the local
// rule engine cannot confidently parse. The engine treats it as a soft
// dependency: a timeout or error falls back to the rule-based result for
// that message and never fails the whole batch.
package enrich

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
)

// ErrUnparsed is the explicit could-not-parse signal from the service,
// distinct from transport failures.
var ErrUnparsed = errors.New("enrich: message could not be parsed")

// Result is the structured transaction-equivalent returned by the service.
// It mirrors the shape the rule engine produces so callers can substitute
// one for the other.
type Result struct {
	Amount      decimal.Decimal  `json:"amount"`
	Currency    domain.Currency  `json:"currency"`
	Direction   domain.Direction `json:"direction"`
	SourceLabel string           `json:"source_label"`
}

// Enricher converts one message body into a structured result.
// Implementations must respect ctx cancellation; callers attach a per-call
// timeout.
type Enricher interface {
	Enrich(ctx context.Context, body string) (*Result, error)
}
