package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbr-invoice-engine/internal/domain/organization"
)

var organizationColumns = []string{
	"id", "name", "ntn", "address", "province", "registration_category", "fbr_token",
	"created_at", "updated_at",
}

func TestOrganizationRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OrganizationRepository{querier: mock, logger: logger}

	orgID := uuid.New()
	now := time.Now()

	query := `SELECT (.+) FROM organizations WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(orgID).
			WillReturnRows(pgxmock.NewRows(organizationColumns).AddRow(
				orgID, "Acme Traders", "7654321", "1 Mall Road, Lahore", "Punjab", "Manufacturer", "token-abc",
				now, now,
			))

		org, err := repo.GetByID(ctx, orgID)

		require.NoError(t, err)
		assert.Equal(t, orgID, org.ID)
		assert.Equal(t, "Acme Traders", org.Name)
		assert.Equal(t, "7654321", org.NTN)
		assert.Equal(t, "token-abc", org.FBRToken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(orgID).
			WillReturnError(pgx.ErrNoRows)

		org, err := repo.GetByID(ctx, orgID)

		assert.Nil(t, org)
		assert.ErrorIs(t, err, organization.ErrOrganizationNotFound{OrgID: orgID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(orgID).
			WillReturnError(errors.New("db error"))

		org, err := repo.GetByID(ctx, orgID)

		assert.Nil(t, org)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, organization.ErrOrganizationNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
