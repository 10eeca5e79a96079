// Package engine wires the amount extractor and classifier into the
// message-to-transaction pipeline and runs whole batches through it.
package engine

import (
	"github.com/google/uuid"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/classify"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/enrich"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/extract"
)

// Build converts one raw message into a rule-based transaction. Messages
// with no confident amount produce no transaction: ok=false is the normal
// outcome for OTPs, promos and balance alerts, not an error. Pure over the
// message text and timestamp apart from ID generation.
func Build(msg domain.RawMessage) (domain.Transaction, bool) {
	amount, ok := extract.Extract(msg.Body)
	if !ok {
		return domain.Transaction{}, false
	}

	cls := classify.ClassifyNear(msg.Body, amount.Span)
	if cls.SourceLabel == "" {
		// Sender ids carry the platform more often than the body does.
		cls.SourceLabel = classify.SourceLabel(msg.Sender)
	}

	return domain.Transaction{
		ID:          uuid.NewString(),
		MessageID:   msg.ID,
		Amount:      amount,
		Direction:   cls.Direction,
		SourceLabel: cls.SourceLabel,
		Timestamp:   msg.Timestamp,
		Confidence:  domain.ConfidenceRule,
	}, true
}

// fromEnrichment maps a service result onto the same transaction shape the
// rule engine produces, stamped enriched.
func fromEnrichment(msg domain.RawMessage, res *enrich.Result) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.NewString(),
		MessageID: msg.ID,
		Amount: domain.ExtractedAmount{
			Value:    res.Amount,
			Currency: res.Currency,
		},
		Direction:   res.Direction,
		SourceLabel: res.SourceLabel,
		Timestamp:   msg.Timestamp,
		Confidence:  domain.ConfidenceEnriched,
	}
}
