package fbr

import (
	"context"
	"fmt"
)

// FailureKind classifies why a submission attempt produced no response body.
// All kinds are transient: no invoice state is mutated because of one, and
// the caller may safely retry.
type FailureKind string

const (
	FailureTimeout    FailureKind = "TIMEOUT"
	FailureNetwork    FailureKind = "NETWORK"
	FailureHTTPClient FailureKind = "HTTP_4XX"
	FailureHTTPServer FailureKind = "HTTP_5XX"
)

// SubmissionError is returned by a Submitter for every failed attempt
type SubmissionError struct {
	Kind       FailureKind
	StatusCode int
	Body       string
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fbr submission failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("fbr submission failed (%s): %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Submitter delivers a wire invoice to the authority and returns the raw
// response body on any 2xx status. Implementations must honor context
// cancellation and wrap every failure in *SubmissionError.
type Submitter interface {
	Submit(ctx context.Context, token string, inv WireInvoice) ([]byte, error)
}
