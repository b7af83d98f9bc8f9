package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

// paymentMethodUseCase implements PaymentMethodUseCase.
type paymentMethodUseCase struct {
	txManager  database.TxManager
	repo       PaymentMethodRepository
	encryption EncryptionUseCase
	logger     *slog.Logger
}

// Store validates, deduplicates by fingerprint, encrypts and persists a card.
func (p *paymentMethodUseCase) Store(
	ctx context.Context,
	rawCardNumber string,
) (*paymentDomain.PaymentMethod, error) {
	number := paymentDomain.SanitizeCardNumber(rawCardNumber)
	if !paymentDomain.ValidateCardNumber(number) {
		return nil, paymentDomain.ErrInvalidCardFormat
	}

	keyID := p.encryption.CurrentKeyID()
	fingerprint := p.encryption.Fingerprint([]byte(number))

	existing, err := p.repo.GetByFingerprint(ctx, fingerprint)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	sealed, err := p.encryption.EncryptWithKey(ctx, []byte(number), keyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pm := &paymentDomain.PaymentMethod{
		ID:          uuid.Must(uuid.NewV7()),
		KeyID:       keyID,
		SealedCard:  sealed,
		Fingerprint: fingerprint,
		LastFour:    paymentDomain.LastFour(number),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.repo.Create(ctx, pm); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "payment method stored",
		slog.String("id", pm.ID.String()),
		slog.String("last_four", pm.LastFour),
		slog.String("key_id", keyID),
	)
	return pm, nil
}

// Get returns a stored payment method without decrypting it.
func (p *paymentMethodUseCase) Get(ctx context.Context, id uuid.UUID) (*paymentDomain.PaymentMethod, error) {
	return p.repo.Get(ctx, id)
}

// FindByCardNumber looks a card up by fingerprint under the current key.
func (p *paymentMethodUseCase) FindByCardNumber(
	ctx context.Context,
	rawCardNumber string,
) (*paymentDomain.PaymentMethod, error) {
	number := paymentDomain.SanitizeCardNumber(rawCardNumber)
	if !paymentDomain.ValidateCardNumber(number) {
		return nil, paymentDomain.ErrInvalidCardFormat
	}
	return p.repo.GetByFingerprint(ctx, p.encryption.Fingerprint([]byte(number)))
}

// List pages through stored payment methods without decrypting them.
func (p *paymentMethodUseCase) List(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	if limit < 1 {
		return nil, paymentDomain.ErrInvalidBatchSize
	}
	return p.repo.ListAfter(ctx, afterID, limit)
}

// Reveal decrypts the card number of the payment method identified by id.
func (p *paymentMethodUseCase) Reveal(ctx context.Context, id uuid.UUID) (string, error) {
	pm, err := p.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	number, err := p.encryption.DecryptCard(ctx, pm.SealedCard)
	if err != nil {
		return "", err
	}

	p.logger.InfoContext(ctx, "payment method revealed",
		slog.String("id", pm.ID.String()),
		slog.String("last_four", pm.LastFour),
	)
	return number, nil
}

// Migrate moves every payment method from oldKeyID to newKeyID, one batch at a time.
//
// Each batch is re-encrypted first and written in a single transaction afterwards,
// so a failure leaves the batch on oldKeyID and a rerun picks it up again.
func (p *paymentMethodUseCase) Migrate(
	ctx context.Context,
	oldKeyID, newKeyID string,
	batchSize int,
) (*paymentDomain.MigrationReport, error) {
	if batchSize < 1 {
		return nil, paymentDomain.ErrInvalidBatchSize
	}
	if oldKeyID == newKeyID {
		return nil, paymentDomain.ErrSameKeyMigration
	}

	report := &paymentDomain.MigrationReport{OldKeyID: oldKeyID, NewKeyID: newKeyID}
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := p.repo.ListByKeyID(ctx, oldKeyID, batchSize)
		if err != nil {
			return report, err
		}
		if len(batch) == 0 {
			break
		}

		if err := p.migrateBatch(ctx, batch, oldKeyID, newKeyID); err != nil {
			return report, err
		}
		report.Migrated += len(batch)

		p.logger.InfoContext(ctx, "payment method batch migrated",
			slog.String("old_key_id", oldKeyID),
			slog.String("new_key_id", newKeyID),
			slog.Int("batch", len(batch)),
			slog.Int("migrated", report.Migrated),
		)
	}

	return report, nil
}

func (p *paymentMethodUseCase) migrateBatch(
	ctx context.Context,
	batch []*paymentDomain.PaymentMethod,
	oldKeyID, newKeyID string,
) error {
	sealed := make([]string, len(batch))
	for i, pm := range batch {
		sealed[i] = pm.SealedCard
	}

	reEncrypted, err := p.encryption.ReEncryptBatch(ctx, sealed, oldKeyID, newKeyID)
	if err != nil {
		return err
	}

	fingerprints := make([]string, len(batch))
	for i := range batch {
		plaintext, err := p.encryption.Decrypt(ctx, reEncrypted[i])
		if err != nil {
			return fmt.Errorf("payment method %s: %w", batch[i].ID, err)
		}
		fingerprints[i] = p.encryption.Fingerprint(plaintext)
		cryptoDomain.Zero(plaintext)
	}

	now := time.Now().UTC()
	return p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		for i, pm := range batch {
			pm.KeyID = newKeyID
			pm.SealedCard = reEncrypted[i]
			pm.Fingerprint = fingerprints[i]
			pm.UpdatedAt = now
			if err := p.repo.Update(txCtx, pm); err != nil {
				return err
			}
		}
		return nil
	})
}

// Verify runs an integrity check over every stored payment method.
func (p *paymentMethodUseCase) Verify(ctx context.Context, batchSize int) (*paymentDomain.VerificationReport, error) {
	if batchSize < 1 {
		return nil, paymentDomain.ErrInvalidBatchSize
	}

	report := &paymentDomain.VerificationReport{}
	afterID := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := p.repo.ListAfter(ctx, afterID, batchSize)
		if err != nil {
			return report, err
		}
		if len(batch) == 0 {
			break
		}

		for _, pm := range batch {
			report.Checked++
			if !p.encryption.ValidateIntegrity(ctx, pm.SealedCard) {
				report.Failed = append(report.Failed, pm.ID)
				p.logger.WarnContext(ctx, "payment method failed integrity check",
					slog.String("id", pm.ID.String()),
					slog.String("key_id", pm.KeyID),
				)
			}
		}
		afterID = batch[len(batch)-1].ID
	}

	return report, nil
}

// NewPaymentMethodUseCase creates a new PaymentMethodUseCase.
func NewPaymentMethodUseCase(
	txManager database.TxManager,
	repo PaymentMethodRepository,
	encryption EncryptionUseCase,
	logger *slog.Logger,
) PaymentMethodUseCase {
	return &paymentMethodUseCase{
		txManager:  txManager,
		repo:       repo,
		encryption: encryption,
		logger:     logger,
	}
}
