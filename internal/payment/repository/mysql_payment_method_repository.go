package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

const mysqlSelectColumns = `SELECT id, key_id, sealed_card, fingerprint, last_four, created_at, updated_at FROM payment_methods`

// MySQLPaymentMethodRepository implements PaymentMethod persistence for MySQL databases.
// Ids are stored as BINARY(16).
type MySQLPaymentMethodRepository struct {
	db *sql.DB
}

// Create inserts a new payment method.
func (m *MySQLPaymentMethodRepository) Create(ctx context.Context, pm *paymentDomain.PaymentMethod) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO payment_methods (id, key_id, sealed_card, fingerprint, last_four, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := pm.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment method id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		pm.KeyID,
		pm.SealedCard,
		pm.Fingerprint,
		pm.LastFour,
		pm.CreatedAt,
		pm.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create payment method")
	}
	return nil
}

// Update rewrites the key id, sealed card, fingerprint and update time of a payment method.
func (m *MySQLPaymentMethodRepository) Update(ctx context.Context, pm *paymentDomain.PaymentMethod) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE payment_methods
			  SET key_id = ?, sealed_card = ?, fingerprint = ?, updated_at = ?
			  WHERE id = ?`

	id, err := pm.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment method id")
	}

	result, err := querier.ExecContext(ctx, query, pm.KeyID, pm.SealedCard, pm.Fingerprint, pm.UpdatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update payment method")
	}
	return checkRowsAffected(result)
}

// Get retrieves a payment method by id.
func (m *MySQLPaymentMethodRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal payment method id")
	}

	pm, err := m.scan(querier.QueryRowContext(ctx, mysqlSelectColumns+` WHERE id = ?`, binaryID))
	if err != nil {
		return nil, notFoundOr(err, "failed to get payment method")
	}
	return pm, nil
}

// GetByFingerprint retrieves the oldest payment method with the given fingerprint.
func (m *MySQLPaymentMethodRepository) GetByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, m.db)

	query := mysqlSelectColumns + ` WHERE fingerprint = ? ORDER BY id LIMIT 1`

	pm, err := m.scan(querier.QueryRowContext(ctx, query, fingerprint))
	if err != nil {
		return nil, notFoundOr(err, "failed to get payment method by fingerprint")
	}
	return pm, nil
}

// ListByKeyID returns up to limit payment methods encrypted under keyID, ordered by id.
func (m *MySQLPaymentMethodRepository) ListByKeyID(
	ctx context.Context,
	keyID string,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, m.db)

	query := mysqlSelectColumns + ` WHERE key_id = ? ORDER BY id LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, keyID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payment methods by key id")
	}
	return m.collect(rows)
}

// ListAfter returns up to limit payment methods with an id greater than afterID, ordered by id.
// UUIDv7 ids sort the same way as text and as binary.
func (m *MySQLPaymentMethodRepository) ListAfter(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := afterID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal payment method id")
	}

	query := mysqlSelectColumns + ` WHERE id > ? ORDER BY id LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, binaryID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payment methods")
	}
	return m.collect(rows)
}

func (m *MySQLPaymentMethodRepository) scan(row rowScanner) (*paymentDomain.PaymentMethod, error) {
	var pm paymentDomain.PaymentMethod
	var id []byte

	err := row.Scan(
		&id,
		&pm.KeyID,
		&pm.SealedCard,
		&pm.Fingerprint,
		&pm.LastFour,
		&pm.CreatedAt,
		&pm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := pm.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal payment method id")
	}
	return &pm, nil
}

func (m *MySQLPaymentMethodRepository) collect(rows *sql.Rows) ([]*paymentDomain.PaymentMethod, error) {
	defer func() {
		_ = rows.Close()
	}()

	methods := make([]*paymentDomain.PaymentMethod, 0)
	for rows.Next() {
		pm, err := m.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan payment method")
		}
		methods = append(methods, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate payment methods")
	}
	return methods, nil
}

// NewMySQLPaymentMethodRepository creates a new MySQL PaymentMethod repository instance.
func NewMySQLPaymentMethodRepository(db *sql.DB) *MySQLPaymentMethodRepository {
	return &MySQLPaymentMethodRepository{db: db}
}
