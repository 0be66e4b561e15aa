// Package fbrapi wraps the HTTP call to the FBR digital invoicing endpoint.
// It is the production implementation of fbr.Submitter: transport-level
// failures (timeout, network, non-2xx status) are distinguished from each
// other so the orchestrator can classify them without inspecting net/http
// internals.
package fbrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fbr-invoice-engine/internal/config"
	"github.com/fbr-invoice-engine/internal/fbr"
)

// HTTPClient submits wire invoices over HTTP with bearer authentication
type HTTPClient struct {
	endpoint string
	cfg      config.FBRConfig
	client   *http.Client
	logger   *slog.Logger
}

var _ fbr.Submitter = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the configured FBR endpoint
func NewHTTPClient(logger *slog.Logger, cfg *config.FBRConfig) *HTTPClient {
	return &HTTPClient{
		endpoint: cfg.BaseURL + cfg.SubmitPath,
		cfg:      *cfg,
		client:   &http.Client{},
		logger:   logger,
	}
}

// Submit POSTs the wire invoice under a hard timeout and returns the response
// body on any 2xx status. Every other outcome is a *fbr.SubmissionError.
func (c *HTTPClient) Submit(ctx context.Context, token string, inv fbr.WireInvoice) ([]byte, error) {
	payload, err := json.Marshal(inv)
	if err != nil {
		// The wire types are plain structs; this only fires on programmer error.
		return nil, &fbr.SubmissionError{Kind: fbr.FailureNetwork, Message: "failed to encode payload", Err: err}
	}

	submitCtx, cancel := context.WithTimeout(ctx, c.cfg.SubmitTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(submitCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &fbr.SubmissionError{Kind: fbr.FailureNetwork, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(submitCtx.Err(), context.DeadlineExceeded) {
			c.logger.Error("FBR submission timed out", "timeout", c.cfg.SubmitTimeout.String())
			return nil, &fbr.SubmissionError{
				Kind:    fbr.FailureTimeout,
				Message: fmt.Sprintf("submission exceeded the %s timeout", c.cfg.SubmitTimeout),
				Err:     err,
			}
		}
		c.logger.Error("FBR submission network failure", "error", err)
		return nil, &fbr.SubmissionError{Kind: fbr.FailureNetwork, Message: "could not reach the FBR endpoint", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &fbr.SubmissionError{Kind: fbr.FailureNetwork, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	return nil, statusError(resp.StatusCode, string(body))
}

// statusError maps non-2xx statuses to status-specific messages
func statusError(status int, body string) *fbr.SubmissionError {
	serr := &fbr.SubmissionError{
		StatusCode: status,
		Body:       body,
	}

	switch {
	case status == http.StatusUnauthorized:
		serr.Kind = fbr.FailureHTTPClient
		serr.Message = "FBR credential is invalid or expired"
	case status == http.StatusForbidden:
		serr.Kind = fbr.FailureHTTPClient
		serr.Message = "FBR endpoint refused the request (forbidden)"
	case status == http.StatusBadRequest:
		serr.Kind = fbr.FailureHTTPClient
		serr.Message = "FBR rejected the request as malformed: " + body
	case status >= 500:
		serr.Kind = fbr.FailureHTTPServer
		serr.Message = fmt.Sprintf("FBR endpoint returned status %d", status)
	default:
		serr.Kind = fbr.FailureHTTPClient
		serr.Message = fmt.Sprintf("FBR endpoint returned status %d", status)
	}

	return serr
}
