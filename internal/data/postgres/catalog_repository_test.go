package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbr-invoice-engine/internal/domain/catalog"
)

var catalogColumns = []string{"code", "message", "description", "category", "active"}

func TestCatalogRepository_GetByCode(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CatalogRepository{querier: mock, logger: logger}

	query := `SELECT (.+) FROM fbr_error_catalog WHERE code = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("0019").
			WillReturnRows(pgxmock.NewRows(catalogColumns).AddRow(
				"0019", "Please provide HSCode", "Every line item needs a harmonized system code.", catalog.CategorySales, true,
			))

		entry, err := repo.GetByCode(ctx, "0019")

		require.NoError(t, err)
		assert.Equal(t, "0019", entry.Code)
		assert.Equal(t, "Please provide HSCode", entry.Message)
		assert.Equal(t, catalog.CategorySales, entry.Category)
		assert.True(t, entry.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("9999").
			WillReturnError(pgx.ErrNoRows)

		entry, err := repo.GetByCode(ctx, "9999")

		assert.Nil(t, entry)
		assert.ErrorIs(t, err, catalog.ErrEntryNotFound{Code: "9999"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("0019").
			WillReturnError(errors.New("db error"))

		entry, err := repo.GetByCode(ctx, "0019")

		assert.Nil(t, entry)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, catalog.ErrEntryNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCatalogRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &CatalogRepository{querier: mock, logger: logger}

	query := `SELECT (.+) FROM fbr_error_catalog WHERE active = TRUE ORDER BY code`

	t.Run("returns entries in code order", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows(catalogColumns).
				AddRow("0002", "Buyer registration number is not in proper format", "Buyer NTN/CNIC must be 7, 9 or 13 digits.", catalog.CategorySales, true).
				AddRow("0019", "Please provide HSCode", "Every line item needs a harmonized system code.", catalog.CategorySales, true))

		entries, err := repo.ListActive(ctx)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "0002", entries[0].Code)
		assert.Equal(t, "0019", entries[1].Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty catalog", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnRows(pgxmock.NewRows(catalogColumns))

		entries, err := repo.ListActive(ctx)

		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(query).
			WillReturnError(errors.New("db error"))

		entries, err := repo.ListActive(ctx)

		assert.Nil(t, entries)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
