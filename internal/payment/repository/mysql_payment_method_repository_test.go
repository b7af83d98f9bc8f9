package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

func binaryID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLPaymentMethodRepository_Create(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMySQLPaymentMethodRepository(db)
	pm := newTestPaymentMethod("key_a")

	mock.ExpectExec("INSERT INTO payment_methods").
		WithArgs(binaryID(t, pm.ID), pm.KeyID, pm.SealedCard, pm.Fingerprint, pm.LastFour, pm.CreatedAt, pm.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(context.Background(), pm))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLPaymentMethodRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)
		pm := newTestPaymentMethod("key_b")

		mock.ExpectExec("UPDATE payment_methods").
			WithArgs(pm.KeyID, pm.SealedCard, pm.Fingerprint, pm.UpdatedAt, binaryID(t, pm.ID)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, pm))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)

		mock.ExpectExec("UPDATE payment_methods").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, newTestPaymentMethod("key_b"))
		assert.ErrorIs(t, err, paymentDomain.ErrPaymentMethodNotFound)
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)

		mock.ExpectExec("UPDATE payment_methods").WillReturnError(errors.New("deadlock"))

		err := repo.Update(ctx, newTestPaymentMethod("key_b"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update payment method")
	})
}

func TestMySQLPaymentMethodRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)
		pm := newTestPaymentMethod("key_a")
		id := binaryID(t, pm.ID)

		rows := sqlmock.NewRows(paymentMethodColumns).
			AddRow(id, pm.KeyID, pm.SealedCard, pm.Fingerprint, pm.LastFour, pm.CreatedAt, pm.UpdatedAt)
		mock.ExpectQuery("SELECT (.+) FROM payment_methods WHERE id").WithArgs(id).WillReturnRows(rows)

		got, err := repo.Get(ctx, pm.ID)
		require.NoError(t, err)
		assert.Equal(t, pm, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM payment_methods WHERE id").WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, paymentDomain.ErrPaymentMethodNotFound)
	})

	t.Run("InvalidStoredID", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)
		pm := newTestPaymentMethod("key_a")

		rows := sqlmock.NewRows(paymentMethodColumns).
			AddRow([]byte{0x01, 0x02}, pm.KeyID, pm.SealedCard, pm.Fingerprint, pm.LastFour, pm.CreatedAt, pm.UpdatedAt)
		mock.ExpectQuery("SELECT (.+) FROM payment_methods WHERE id").WillReturnRows(rows)

		_, err := repo.Get(ctx, pm.ID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal payment method id")
	})
}

func TestMySQLPaymentMethodRepository_GetByFingerprint(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMySQLPaymentMethodRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM payment_methods WHERE fingerprint").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(paymentMethodColumns))

	_, err := repo.GetByFingerprint(context.Background(), "missing")
	assert.ErrorIs(t, err, paymentDomain.ErrPaymentMethodNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLPaymentMethodRepository_ListByKeyID(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMySQLPaymentMethodRepository(db)
	pm := newTestPaymentMethod("key_a")

	rows := sqlmock.NewRows(paymentMethodColumns).
		AddRow(binaryID(t, pm.ID), pm.KeyID, pm.SealedCard, pm.Fingerprint, pm.LastFour, pm.CreatedAt, pm.UpdatedAt)
	mock.ExpectQuery("SELECT (.+) FROM payment_methods WHERE key_id (.+) ORDER BY id LIMIT").
		WithArgs("key_a", 10).
		WillReturnRows(rows)

	got, err := repo.ListByKeyID(context.Background(), "key_a", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pm.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLPaymentMethodRepository_ListAfter(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)
		pm := newTestPaymentMethod("key_a")
		after := uuid.Must(uuid.NewV7())

		rows := sqlmock.NewRows(paymentMethodColumns).
			AddRow(binaryID(t, pm.ID), pm.KeyID, pm.SealedCard, pm.Fingerprint, pm.LastFour, pm.CreatedAt, pm.UpdatedAt)
		mock.ExpectQuery("SELECT (.+) FROM payment_methods WHERE id > (.+) ORDER BY id LIMIT").
			WithArgs(binaryID(t, after), 5).
			WillReturnRows(rows)

		got, err := repo.ListAfter(ctx, after, 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pm.ID, got[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLPaymentMethodRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM payment_methods").WillReturnError(errors.New("gone away"))

		_, err := repo.ListAfter(ctx, uuid.Nil, 5)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list payment methods")
	})
}
