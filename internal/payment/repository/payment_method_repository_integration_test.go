package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardvault/internal/database"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
	"github.com/allisson/cardvault/internal/payment/usecase"
	"github.com/allisson/cardvault/internal/testutil"
)

func TestPaymentMethodRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	tests := []struct {
		name  string
		setup func(t *testing.T) *sql.DB
		repo  func(db *sql.DB) usecase.PaymentMethodRepository
	}{
		{
			name:  "postgresql",
			setup: testutil.SetupPostgresDB,
			repo: func(db *sql.DB) usecase.PaymentMethodRepository {
				return NewPostgreSQLPaymentMethodRepository(db)
			},
		},
		{
			name:  "mysql",
			setup: testutil.SetupMySQLDB,
			repo: func(db *sql.DB) usecase.PaymentMethodRepository {
				return NewMySQLPaymentMethodRepository(db)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := tt.setup(t)
			defer testutil.TeardownDB(t, db)

			repo := tt.repo(db)
			ctx := context.Background()

			oldKey := make([]*paymentDomain.PaymentMethod, 0, 3)
			for range 3 {
				pm := newTestPaymentMethod("key_old")
				pm.Fingerprint = uuid.NewString()
				require.NoError(t, repo.Create(ctx, pm))
				oldKey = append(oldKey, pm)
			}

			got, err := repo.Get(ctx, oldKey[0].ID)
			require.NoError(t, err)
			assert.Equal(t, oldKey[0].SealedCard, got.SealedCard)
			assert.True(t, oldKey[0].CreatedAt.Equal(got.CreatedAt))

			byFingerprint, err := repo.GetByFingerprint(ctx, oldKey[1].Fingerprint)
			require.NoError(t, err)
			assert.Equal(t, oldKey[1].ID, byFingerprint.ID)

			page, err := repo.ListByKeyID(ctx, "key_old", 2)
			require.NoError(t, err)
			require.Len(t, page, 2)
			assert.Equal(t, oldKey[0].ID, page[0].ID)

			txManager := database.NewTxManager(db)
			err = txManager.WithTx(ctx, func(ctx context.Context) error {
				for _, pm := range page {
					pm.KeyID = "key_new"
					pm.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
					if err := repo.Update(ctx, pm); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)

			remaining, err := repo.ListByKeyID(ctx, "key_old", 10)
			require.NoError(t, err)
			require.Len(t, remaining, 1)
			assert.Equal(t, oldKey[2].ID, remaining[0].ID)

			after, err := repo.ListAfter(ctx, oldKey[0].ID, 10)
			require.NoError(t, err)
			assert.Len(t, after, 2)

			_, err = repo.Get(ctx, uuid.Must(uuid.NewV7()))
			assert.ErrorIs(t, err, paymentDomain.ErrPaymentMethodNotFound)
		})
	}
}
