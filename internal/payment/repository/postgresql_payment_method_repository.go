// Package repository implements payment method persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

const postgresSelectColumns = `SELECT id, key_id, sealed_card, fingerprint, last_four, created_at, updated_at FROM payment_methods`

// PostgreSQLPaymentMethodRepository implements PaymentMethod persistence for PostgreSQL databases.
type PostgreSQLPaymentMethodRepository struct {
	db *sql.DB
}

// Create inserts a new payment method.
func (p *PostgreSQLPaymentMethodRepository) Create(ctx context.Context, pm *paymentDomain.PaymentMethod) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO payment_methods (id, key_id, sealed_card, fingerprint, last_four, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		pm.ID,
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
func (p *PostgreSQLPaymentMethodRepository) Update(ctx context.Context, pm *paymentDomain.PaymentMethod) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE payment_methods
			  SET key_id = $1, sealed_card = $2, fingerprint = $3, updated_at = $4
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		pm.KeyID,
		pm.SealedCard,
		pm.Fingerprint,
		pm.UpdatedAt,
		pm.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update payment method")
	}
	return checkRowsAffected(result)
}

// Get retrieves a payment method by id.
func (p *PostgreSQLPaymentMethodRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, p.db)

	row := querier.QueryRowContext(ctx, postgresSelectColumns+` WHERE id = $1`, id)
	pm, err := p.scan(row)
	if err != nil {
		return nil, notFoundOr(err, "failed to get payment method")
	}
	return pm, nil
}

// GetByFingerprint retrieves the oldest payment method with the given fingerprint.
func (p *PostgreSQLPaymentMethodRepository) GetByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, p.db)

	query := postgresSelectColumns + ` WHERE fingerprint = $1 ORDER BY id LIMIT 1`

	pm, err := p.scan(querier.QueryRowContext(ctx, query, fingerprint))
	if err != nil {
		return nil, notFoundOr(err, "failed to get payment method by fingerprint")
	}
	return pm, nil
}

// ListByKeyID returns up to limit payment methods encrypted under keyID, ordered by id.
func (p *PostgreSQLPaymentMethodRepository) ListByKeyID(
	ctx context.Context,
	keyID string,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, p.db)

	query := postgresSelectColumns + ` WHERE key_id = $1 ORDER BY id LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, keyID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payment methods by key id")
	}
	return p.collect(rows)
}

// ListAfter returns up to limit payment methods with an id greater than afterID, ordered by id.
func (p *PostgreSQLPaymentMethodRepository) ListAfter(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	querier := database.GetTx(ctx, p.db)

	query := postgresSelectColumns + ` WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payment methods")
	}
	return p.collect(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (p *PostgreSQLPaymentMethodRepository) scan(row rowScanner) (*paymentDomain.PaymentMethod, error) {
	var pm paymentDomain.PaymentMethod
	err := row.Scan(
		&pm.ID,
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
	return &pm, nil
}

func (p *PostgreSQLPaymentMethodRepository) collect(rows *sql.Rows) ([]*paymentDomain.PaymentMethod, error) {
	defer func() {
		_ = rows.Close()
	}()

	methods := make([]*paymentDomain.PaymentMethod, 0)
	for rows.Next() {
		pm, err := p.scan(rows)
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

// NewPostgreSQLPaymentMethodRepository creates a new PostgreSQL PaymentMethod repository instance.
func NewPostgreSQLPaymentMethodRepository(db *sql.DB) *PostgreSQLPaymentMethodRepository {
	return &PostgreSQLPaymentMethodRepository{db: db}
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return paymentDomain.ErrPaymentMethodNotFound
	}
	return apperrors.Wrap(err, message)
}

func checkRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return paymentDomain.ErrPaymentMethodNotFound
	}
	return nil
}
