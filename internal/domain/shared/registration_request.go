package shared

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationRequest defines a Kafka message asking the worker to run one
// registration attempt for one invoice on behalf of the given actor.
type RegistrationRequest struct {
	RequestID     uuid.UUID `json:"request_id"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	ActorID       uuid.UUID `json:"actor_id"`
	ActorOrgID    uuid.UUID `json:"actor_org_id"`
	ActorIsAdmin  bool      `json:"actor_is_admin,omitempty"`
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}
