package fbr

import (
	"github.com/fbr-invoice-engine/internal/domain/catalog"
	"github.com/google/uuid"
)

// Caller identifies who asked for the registration. Authentication happens
// upstream; the engine only authorizes ownership.
type Caller struct {
	ActorID uuid.UUID
	OrgID   uuid.UUID
	Admin   bool
}

// ResultKind enumerates the terminal classifications of one registration
// attempt.
type ResultKind string

const (
	ResultRegistered        ResultKind = "REGISTERED"
	ResultAlreadyRegistered ResultKind = "ALREADY_REGISTERED"
	ResultNotFound          ResultKind = "NOT_FOUND"
	ResultForbidden         ResultKind = "FORBIDDEN"
	ResultCredentialMissing ResultKind = "CREDENTIAL_MISSING"
	ResultValidationFailed  ResultKind = "VALIDATION_ERROR"
	ResultSubmissionFailed  ResultKind = "SUBMISSION_FAILED"
	ResultSystemError       ResultKind = "SYSTEM_ERROR"
)

// RegistrationResult is the single value a registration attempt resolves to.
// Exactly one kind applies; the remaining fields are populated per kind.
type RegistrationResult struct {
	Kind           ResultKind     `json:"kind"`
	Message        string         `json:"message"`
	ConfirmationID string         `json:"confirmation_id,omitempty"`
	Findings       []Finding      `json:"findings,omitempty"`
	ErrorCode      string         `json:"error_code,omitempty"`
	MatchedEntry   *catalog.Entry `json:"matched_entry,omitempty"`
	Solution       string         `json:"solution,omitempty"`
	RawResponse    string         `json:"raw_response,omitempty"`

	// Transient marks submission failures that mutated no state (timeout,
	// network, HTTP status): the caller may retry without side effects.
	Transient bool `json:"transient,omitempty"`
}

// Succeeded reports whether the invoice ended up registered
func (r *RegistrationResult) Succeeded() bool {
	return r.Kind == ResultRegistered
}
