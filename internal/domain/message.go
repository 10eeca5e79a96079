package domain

import (
	"time"
)

// Origin identifies how a raw message entered the engine.
type Origin string

const (
	// OriginInbox marks messages read from the device SMS inbox.
	OriginInbox Origin = "inbox"
	// OriginManual marks a single message pasted by hand.
	OriginManual Origin = "manual"
	// OriginBulkPaste marks messages from the bulk paste-box.
	OriginBulkPaste Origin = "bulk-paste"
)

// RawMessage is one unparsed financial notification plus metadata.
// It is created by an ingestion adapter and never mutated by the engine.
type RawMessage struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Origin    Origin    `json:"origin"`
}
