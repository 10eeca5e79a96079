package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the ISO code of an extracted amount. Only INR is produced by
// the rule-based extractor today; the type exists so enriched results can
// carry other codes without a schema change.
type Currency string

const CurrencyINR Currency = "INR"

// Span marks the byte offsets of a match inside a message body.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Mid returns the midpoint of the span, used for nearest-cue distance.
func (s Span) Mid() int {
	return (s.Start + s.End) / 2
}

// ExtractedAmount is a monetary value pulled out of message text.
// Zero or one per message; absence is a valid outcome, not an error.
type ExtractedAmount struct {
	Value    decimal.Decimal `json:"value"`
	Currency Currency        `json:"currency"`
	Span     Span            `json:"span"`
}

// Direction labels a message as money in, money out, or undecidable.
type Direction string

const (
	DirectionCredit  Direction = "credit"
	DirectionDebit   Direction = "debit"
	DirectionUnknown Direction = "unknown"
)

// Classification is the lexical verdict for one message, independent of
// amount extraction so the two can be tested separately.
type Classification struct {
	Direction   Direction `json:"direction"`
	SourceLabel string    `json:"source_label,omitempty"`
}

// Confidence records which producer built a transaction.
type Confidence string

const (
	// ConfidenceRule marks transactions built by the local rule engine.
	ConfidenceRule Confidence = "rule-based"
	// ConfidenceEnriched marks transactions produced by the remote
	// enrichment service. Enriched overrides rule-based for the same
	// message ID.
	ConfidenceEnriched Confidence = "enriched"
)

// Transaction is a structured, classified monetary event derived from one
// RawMessage. It lives for the duration of a single aggregation request;
// persistence is the consumer's responsibility.
type Transaction struct {
	ID          string          `json:"id"`
	MessageID   string          `json:"message_id"`
	Amount      ExtractedAmount `json:"amount"`
	Direction   Direction       `json:"direction"`
	SourceLabel string          `json:"source_label,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Confidence  Confidence      `json:"confidence"`
}
