package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fbr-invoice-engine/internal/domain/organization"
	"github.com/fbr-invoice-engine/internal/platform/persistence"
)

// OrganizationRepository implements the organization.Repository interface for PostgreSQL
type OrganizationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOrganizationRepository creates a new PostgreSQL organization repository
func NewOrganizationRepository(logger *slog.Logger, db *persistence.PostgresDB) organization.Repository {
	return &OrganizationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves an organization by its ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	query := `
		SELECT id, name, ntn, address, province, registration_category, fbr_token, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org organization.Organization
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.NTN,
		&org.Address,
		&org.Province,
		&org.RegistrationCategory,
		&org.FBRToken,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organization.ErrOrganizationNotFound{OrgID: id}
		}
		r.logger.Error("Failed to get organization", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}
