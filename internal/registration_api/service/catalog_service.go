package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fbr-invoice-engine/internal/domain/catalog"
)

// CatalogInvalidator drops a cached catalog snapshot.
// Satisfied by catalogcache.Cache.
type CatalogInvalidator interface {
	Invalidate()
}

// CatalogServiceImpl implements the CatalogService interface
type CatalogServiceImpl struct {
	catalogRepo catalog.Repository
	cache       CatalogInvalidator
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(logger *slog.Logger, catalogRepo catalog.Repository, cache CatalogInvalidator) CatalogService {
	return &CatalogServiceImpl{
		catalogRepo: catalogRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetEntry retrieves one catalog entry by code. Returns nil if unknown
func (s *CatalogServiceImpl) GetEntry(ctx context.Context, code string) (*catalog.Entry, error) {
	entry, err := s.catalogRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, catalog.ErrEntryNotFound{}) {
			s.logger.Info("Catalog entry not found", "code", code)
			return nil, nil
		}
		s.logger.Error("Failed to get catalog entry", "code", code, "error", err)
		return nil, err
	}
	return entry, nil
}

// Refresh drops the in-memory catalog snapshot
func (s *CatalogServiceImpl) Refresh() {
	s.cache.Invalidate()
	s.logger.Info("Catalog cache refresh requested")
}
