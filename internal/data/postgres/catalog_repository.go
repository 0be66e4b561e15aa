package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/fbr-invoice-engine/internal/domain/catalog"
	"github.com/fbr-invoice-engine/internal/platform/persistence"
)

// CatalogRepository implements the catalog.Repository interface for PostgreSQL.
// The catalog table is seeded by migration and treated as read-only here.
type CatalogRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCatalogRepository creates a new PostgreSQL error catalog repository
func NewCatalogRepository(logger *slog.Logger, db *persistence.PostgresDB) catalog.Repository {
	return &CatalogRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByCode retrieves a single catalog entry by its zero-padded code
func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*catalog.Entry, error) {
	query := `
		SELECT code, message, description, category, active
		FROM fbr_error_catalog
		WHERE code = $1
	`

	var entry catalog.Entry
	err := r.querier.QueryRow(ctx, query, code).Scan(
		&entry.Code,
		&entry.Message,
		&entry.Description,
		&entry.Category,
		&entry.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrEntryNotFound{Code: code}
		}
		r.logger.Error("Failed to get catalog entry", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}

	return &entry, nil
}

// ListActive retrieves all active catalog entries ordered by code
func (r *CatalogRepository) ListActive(ctx context.Context) ([]catalog.Entry, error) {
	query := `
		SELECT code, message, description, category, active
		FROM fbr_error_catalog
		WHERE active = TRUE
		ORDER BY code
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list catalog entries", "error", err)
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var entry catalog.Entry
		err := rows.Scan(
			&entry.Code,
			&entry.Message,
			&entry.Description,
			&entry.Category,
			&entry.Active,
		)
		if err != nil {
			r.logger.Error("Failed to scan catalog entry", "error", err)
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog entries: %w", err)
	}

	return entries, nil
}
