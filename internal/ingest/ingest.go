// Package ingest adapts the three message entry points (device inbox
// batches over JSON, single manual paste, bulk paste-box text) into
// RawMessage lists. The engine treats the resulting slice as read-only.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
)

// DecodeBatch reads a JSON array of raw messages, as sent by the device
// inbox reader. Messages without an ID get one; messages without an origin
// are assumed to come from the inbox.
func DecodeBatch(r io.Reader) ([]domain.RawMessage, error) {
	var msgs []domain.RawMessage
	if err := json.NewDecoder(r).Decode(&msgs); err != nil {
		return nil, fmt.Errorf("DecodeBatch: %w", err)
	}
	NormalizeBatch(msgs)
	return msgs, nil
}

// NormalizeBatch fills in IDs and origins left blank by the caller.
func NormalizeBatch(msgs []domain.RawMessage) {
	for i := range msgs {
		if msgs[i].ID == "" {
			msgs[i].ID = uuid.NewString()
		}
		if msgs[i].Origin == "" {
			msgs[i].Origin = domain.OriginInbox
		}
	}
}

// Manual wraps one hand-pasted message.
func Manual(body, sender string, ts time.Time) domain.RawMessage {
	return domain.RawMessage{
		ID:        uuid.NewString(),
		Body:      strings.TrimSpace(body),
		Sender:    sender,
		Timestamp: ts,
		Origin:    domain.OriginManual,
	}
}

// SplitBulk splits paste-box text into messages on blank lines. Every
// message gets the same timestamp since the paste-box carries no per-item
// metadata; callers pass the reporting period they are pasting for.
func SplitBulk(text string, ts time.Time) []domain.RawMessage {
	var msgs []domain.RawMessage
	for _, block := range strings.Split(normalizeNewlines(text), "\n\n") {
		body := strings.TrimSpace(block)
		if body == "" {
			continue
		}
		msgs = append(msgs, domain.RawMessage{
			ID:        uuid.NewString(),
			Body:      body,
			Timestamp: ts,
			Origin:    domain.OriginBulkPaste,
		})
	}
	return msgs
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
