// Package outbox implements the transactional outbox for registration outcome
// events: the outcome row is written in the same database transaction as the
// invoice status change, then published to Kafka by a poller.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/fbr-invoice-engine/internal/domain/shared"
	"github.com/google/uuid"
)

// OutcomeEvent is the payload published for every persisted registration
// outcome, successful or failed.
type OutcomeEvent struct {
	InvoiceID        uuid.UUID `json:"invoice_id"`
	OrgID            uuid.UUID `json:"org_id"`
	Success          bool      `json:"success"`
	FBRInvoiceNumber string    `json:"fbr_invoice_number,omitempty"`
	ErrorCode        string    `json:"error_code,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CorrelationID    string    `json:"correlation_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Message stores an outcome event for reliable publishing
type Message struct {
	ID            int64               `json:"id"`
	InvoiceID     uuid.UUID           `json:"invoice_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(event *OutcomeEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		InvoiceID: event.InvoiceID,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetOutcomeEvent extracts the outcome event from the payload
func (m *Message) GetOutcomeEvent() (*OutcomeEvent, error) {
	var event OutcomeEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
