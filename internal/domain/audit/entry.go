// Package audit defines the append-only audit trail every registration attempt
// writes to. Entries are pure write-once telemetry: never updated, never
// deleted by the engine.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only audit record for a registration attempt outcome
type Entry struct {
	ID        uuid.UUID      `json:"id" bson:"_id"`
	ActorID   uuid.UUID      `json:"actor_id" bson:"actor_id"`
	InvoiceID uuid.UUID      `json:"invoice_id" bson:"invoice_id"`
	Code      string         `json:"code" bson:"code"`
	Message   string         `json:"message" bson:"message"`
	Context   map[string]any `json:"context,omitempty" bson:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// NewEntry builds an audit entry stamped with a fresh id and the current time
func NewEntry(actorID, invoiceID uuid.UUID, code, message string, context map[string]any) *Entry {
	return &Entry{
		ID:        uuid.New(),
		ActorID:   actorID,
		InvoiceID: invoiceID,
		Code:      code,
		Message:   message,
		Context:   context,
		CreatedAt: time.Now().UTC(),
	}
}
