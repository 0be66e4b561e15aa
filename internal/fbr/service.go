package fbr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fbr-invoice-engine/internal/domain/audit"
	"github.com/fbr-invoice-engine/internal/domain/catalog"
	"github.com/fbr-invoice-engine/internal/domain/invoice"
	"github.com/fbr-invoice-engine/internal/domain/organization"
	"github.com/fbr-invoice-engine/internal/domain/outbox"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Audit codes recorded for terminal branches that have no FBR catalog code
const (
	auditCodeNotFound          = "NOT_FOUND"
	auditCodeForbidden         = "FORBIDDEN"
	auditCodeAlreadyRegistered = "ALREADY_REGISTERED"
	auditCodeCredentialMissing = "CREDENTIAL_MISSING"
	auditCodeValidationError   = "VALIDATION_ERROR"
	auditCodeRegistered        = "REGISTERED"
	auditCodeSubmissionFailed  = "SUBMISSION_FAILED"
)

// CatalogSource provides an immutable snapshot of the active error catalog
type CatalogSource interface {
	Snapshot(ctx context.Context) ([]catalog.Entry, error)
}

// TxRunner runs a function inside one database transaction. Satisfied by
// persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Service is the registration orchestrator: validate, transform, submit,
// parse, match, persist, audit. Request-scoped and stateless between
// invocations; safe for concurrent use.
type Service struct {
	db         TxRunner
	invoices   invoice.Repository
	orgs       organization.Repository
	catalog    CatalogSource
	outboxRepo outbox.Repository
	audits     audit.Repository
	submitter  Submitter
	logger     *slog.Logger
}

// NewService wires the orchestrator
func NewService(
	db TxRunner,
	invoices invoice.Repository,
	orgs organization.Repository,
	catalogSource CatalogSource,
	outboxRepo outbox.Repository,
	audits audit.Repository,
	submitter Submitter,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:         db,
		invoices:   invoices,
		orgs:       orgs,
		catalog:    catalogSource,
		outboxRepo: outboxRepo,
		audits:     audits,
		submitter:  submitter,
		logger:     logger,
	}
}

// Register runs one registration attempt for one invoice. Every terminal
// branch writes exactly one audit entry; transient transport failures write
// none and mutate no invoice state, so the caller can retry them freely.
func (s *Service) Register(ctx context.Context, invoiceID uuid.UUID, caller Caller) *RegistrationResult {
	logger := s.logger.With("invoice_id", invoiceID.String(), "actor_id", caller.ActorID.String())
	logger.Info("Starting invoice registration")

	// 1. Load the invoice with its line items.
	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoice.ErrInvoiceNotFound{}) {
			s.writeAudit(ctx, caller.ActorID, invoiceID, auditCodeNotFound, "invoice not found", nil)
			return &RegistrationResult{Kind: ResultNotFound, Message: "Invoice not found"}
		}
		logger.Error("Failed to load invoice", "error", err)
		return s.systemError(ctx, caller.ActorID, invoiceID, err)
	}

	// A confirmed registration is final: refuse before any other work so two
	// concurrent attempts cannot produce two confirmation ids.
	if inv.IsRegistered() {
		s.writeAudit(ctx, caller.ActorID, invoiceID, auditCodeAlreadyRegistered,
			"invoice already registered", map[string]any{"fbr_invoice_number": inv.FBRInvoiceNumber})
		return &RegistrationResult{
			Kind:           ResultAlreadyRegistered,
			Message:        "Invoice is already registered with FBR",
			ConfirmationID: inv.FBRInvoiceNumber,
		}
	}

	// 2. Authorization: owner or admin only.
	if !caller.Admin && caller.OrgID != inv.OrgID {
		logger.Warn("Registration refused for non-owner caller", "invoice_org", inv.OrgID.String())
		s.writeAudit(ctx, caller.ActorID, invoiceID, auditCodeForbidden, "caller does not own this invoice", nil)
		return &RegistrationResult{Kind: ResultForbidden, Message: "You are not allowed to register this invoice"}
	}

	// 3. Resolve the FBR credential before any network I/O so a missing token
	// surfaces as its own error class instead of a generic submission failure.
	org, err := s.orgs.GetByID(ctx, inv.OrgID)
	if err != nil {
		logger.Error("Failed to load organization", "org_id", inv.OrgID.String(), "error", err)
		return s.systemError(ctx, caller.ActorID, invoiceID, err)
	}
	if !org.HasCredential() {
		s.writeAudit(ctx, caller.ActorID, invoiceID, auditCodeCredentialMissing,
			"organization has no FBR credential", nil)
		return &RegistrationResult{
			Kind:    ResultCredentialMissing,
			Message: "No FBR credential is configured for this organization; complete FBR onboarding first",
		}
	}

	// 4. Pre-submission validation; all findings are reported at once.
	report := Validate(inv)
	if !report.Valid {
		logger.Info("Pre-submission validation failed", "findings", len(report.Findings))
		s.writeAudit(ctx, caller.ActorID, invoiceID, auditCodeValidationError,
			fmt.Sprintf("%d validation finding(s)", len(report.Findings)),
			map[string]any{"findings": report.Findings})
		return &RegistrationResult{
			Kind:     ResultValidationFailed,
			Message:  "Invoice failed pre-submission validation",
			Findings: report.Findings,
		}
	}

	// 5. Transform (total, never fails) and 6. submit under the hard timeout.
	wire := Transform(inv, org)
	body, err := s.submitter.Submit(ctx, org.FBRToken, wire)
	if err != nil {
		// Transient by definition: no state change, no audit entry, caller
		// may retry. The generic error handler upstream logs it.
		var serr *SubmissionError
		if errors.As(err, &serr) {
			logger.Warn("FBR submission transport failure", "kind", string(serr.Kind), "status", serr.StatusCode)
			return &RegistrationResult{
				Kind:        ResultSubmissionFailed,
				Message:     serr.Message,
				ErrorCode:   string(serr.Kind),
				RawResponse: serr.Body,
				Transient:   true,
			}
		}
		logger.Error("FBR submission failed unexpectedly", "error", err)
		return s.systemError(ctx, caller.ActorID, invoiceID, err)
	}

	// 7/8. Parse the response and persist the outcome.
	outcome := ParseResponse(body)
	if outcome.Success {
		return s.persistSuccess(ctx, caller, inv, &outcome, logger)
	}
	return s.persistFailure(ctx, caller, inv, &outcome, logger)
}

// persistSuccess records a confirmed registration: status, confirmation id and
// the outcome event share one transaction, then a success audit entry is
// written.
func (s *Service) persistSuccess(ctx context.Context, caller Caller, inv *invoice.Invoice, outcome *Outcome, logger *slog.Logger) *RegistrationResult {
	event := &outbox.OutcomeEvent{
		InvoiceID:        inv.ID,
		OrgID:            inv.OrgID,
		Success:          true,
		FBRInvoiceNumber: outcome.ConfirmationID,
		OccurredAt:       time.Now().UTC(),
	}

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.invoices.WithTx(tx).MarkRegistered(ctx, inv.ID, outcome.ConfirmationID); err != nil {
			return err
		}
		message, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		if errors.Is(err, invoice.ErrAlreadyRegistered{}) {
			// Another attempt won the race; the stored confirmation id stands.
			s.writeAudit(ctx, caller.ActorID, inv.ID, auditCodeAlreadyRegistered,
				"concurrent registration detected", map[string]any{"raw_response": outcome.RawResponse})
			return &RegistrationResult{
				Kind:    ResultAlreadyRegistered,
				Message: "Invoice was registered by a concurrent attempt",
			}
		}
		logger.Error("Failed to persist registration success", "error", err)
		return s.systemError(ctx, caller.ActorID, inv.ID, err)
	}

	s.writeAudit(ctx, caller.ActorID, inv.ID, auditCodeRegistered,
		"invoice registered with FBR",
		map[string]any{"fbr_invoice_number": outcome.ConfirmationID})

	logger.Info("Invoice registered", "fbr_invoice_number", outcome.ConfirmationID)
	return &RegistrationResult{
		Kind:           ResultRegistered,
		Message:        "Invoice registered successfully",
		ConfirmationID: outcome.ConfirmationID,
	}
}

// persistFailure enriches a failed outcome via the catalog matcher, records
// the error on the invoice and writes a failure audit entry carrying the raw
// response for forensic replay.
func (s *Service) persistFailure(ctx context.Context, caller Caller, inv *invoice.Invoice, outcome *Outcome, logger *slog.Logger) *RegistrationResult {
	var matched *catalog.Entry
	entries, err := s.catalog.Snapshot(ctx)
	if err != nil {
		// Matching is best effort; the raw code/message still get persisted.
		logger.Error("Failed to load catalog snapshot for matching", "error", err)
	} else {
		matched = MatchCatalogEntry(outcome.ErrorCode, outcome.ErrorMessage, entries)
	}

	code := outcome.ErrorCode
	message := outcome.ErrorMessage
	if matched != nil {
		if code == "" {
			code = matched.Code
		}
		if message == "" {
			message = matched.Message
		}
	}
	if message == "" {
		message = "FBR rejected the invoice in an unrecognized response format"
	}

	event := &outbox.OutcomeEvent{
		InvoiceID:    inv.ID,
		OrgID:        inv.OrgID,
		Success:      false,
		ErrorCode:    code,
		ErrorMessage: message,
		OccurredAt:   time.Now().UTC(),
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.invoices.WithTx(tx).MarkFailed(ctx, inv.ID, code, message, outcome.RawResponse); err != nil {
			return err
		}
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, msg)
	})
	if err != nil {
		logger.Error("Failed to persist registration failure", "error", err)
		return s.systemError(ctx, caller.ActorID, inv.ID, err)
	}

	auditCtx := map[string]any{"raw_response": outcome.RawResponse}
	if matched != nil {
		auditCtx["matched_code"] = matched.Code
	}
	s.writeAudit(ctx, caller.ActorID, inv.ID, auditCodeSubmissionFailed, message, auditCtx)

	logger.Info("Registration rejected by FBR", "error_code", code)
	return &RegistrationResult{
		Kind:         ResultSubmissionFailed,
		Message:      message,
		ErrorCode:    code,
		MatchedEntry: matched,
		Solution:     catalog.SolutionHint(code),
		RawResponse:  outcome.RawResponse,
	}
}

// systemError is the catch-all for unexpected orchestration failures
func (s *Service) systemError(ctx context.Context, actorID, invoiceID uuid.UUID, err error) *RegistrationResult {
	s.writeAudit(ctx, actorID, invoiceID, "SYSTEM_ERROR", err.Error(), nil)
	return &RegistrationResult{
		Kind:    ResultSystemError,
		Message: "An unexpected error occurred during registration",
	}
}

// writeAudit appends one audit entry. Audit failures are logged, never
// propagated: the registration outcome stands on its own.
func (s *Service) writeAudit(ctx context.Context, actorID, invoiceID uuid.UUID, code, message string, auditCtx map[string]any) {
	entry := audit.NewEntry(actorID, invoiceID, code, message, auditCtx)
	if err := s.audits.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit entry",
			"invoice_id", invoiceID.String(),
			"code", code,
			"error", err,
		)
	}
}
