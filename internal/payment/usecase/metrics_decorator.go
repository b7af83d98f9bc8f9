package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	"github.com/allisson/cardvault/internal/metrics"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

// encryptionUseCaseWithMetrics decorates EncryptionUseCase with metrics instrumentation.
type encryptionUseCaseWithMetrics struct {
	next    EncryptionUseCase
	metrics metrics.BusinessMetrics
}

// NewEncryptionUseCaseWithMetrics wraps an EncryptionUseCase with metrics recording.
func NewEncryptionUseCaseWithMetrics(useCase EncryptionUseCase, m metrics.BusinessMetrics) EncryptionUseCase {
	return &encryptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (e *encryptionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	e.metrics.RecordOperation(ctx, metrics.DomainCrypto, operation, status)
	e.metrics.RecordDuration(ctx, metrics.DomainCrypto, operation, time.Since(start), status)
}

// Encrypt records metrics for encrypt operations.
func (e *encryptionUseCaseWithMetrics) Encrypt(ctx context.Context, plaintext []byte) (string, error) {
	start := time.Now()
	sealed, err := e.next.Encrypt(ctx, plaintext)
	e.record(ctx, "encrypt", start, err)
	return sealed, err
}

// EncryptWithKey records metrics for encrypt operations with an explicit key.
func (e *encryptionUseCaseWithMetrics) EncryptWithKey(
	ctx context.Context,
	plaintext []byte,
	keyID string,
) (string, error) {
	start := time.Now()
	sealed, err := e.next.EncryptWithKey(ctx, plaintext, keyID)
	e.record(ctx, "encrypt_with_key", start, err)
	return sealed, err
}

// Decrypt records metrics for decrypt operations.
func (e *encryptionUseCaseWithMetrics) Decrypt(ctx context.Context, sealed string) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.Decrypt(ctx, sealed)
	e.record(ctx, "decrypt", start, err)
	return plaintext, err
}

// EncryptCard records metrics for card encryption.
func (e *encryptionUseCaseWithMetrics) EncryptCard(ctx context.Context, rawCardNumber string) (string, error) {
	start := time.Now()
	sealed, err := e.next.EncryptCard(ctx, rawCardNumber)
	e.record(ctx, "encrypt_card", start, err)
	return sealed, err
}

// DecryptCard records metrics for card decryption.
func (e *encryptionUseCaseWithMetrics) DecryptCard(ctx context.Context, sealed string) (string, error) {
	start := time.Now()
	number, err := e.next.DecryptCard(ctx, sealed)
	e.record(ctx, "decrypt_card", start, err)
	return number, err
}

// Fingerprint delegates without instrumentation; it is a single hash.
func (e *encryptionUseCaseWithMetrics) Fingerprint(plaintext []byte) string {
	return e.next.Fingerprint(plaintext)
}

// CurrentKeyID delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) CurrentKeyID() string {
	return e.next.CurrentKeyID()
}

// ValidateIntegrity records metrics for integrity checks. A failed check counts as an error.
func (e *encryptionUseCaseWithMetrics) ValidateIntegrity(ctx context.Context, sealed string) bool {
	start := time.Now()
	ok := e.next.ValidateIntegrity(ctx, sealed)

	status := "success"
	if !ok {
		status = "error"
	}
	e.metrics.RecordOperation(ctx, metrics.DomainCrypto, "validate_integrity", status)
	e.metrics.RecordDuration(ctx, metrics.DomainCrypto, "validate_integrity", time.Since(start), status)
	return ok
}

// Inspect records metrics for envelope inspection.
func (e *encryptionUseCaseWithMetrics) Inspect(ctx context.Context, sealed string) (*cryptoDomain.Envelope, error) {
	start := time.Now()
	env, err := e.next.Inspect(ctx, sealed)
	e.record(ctx, "inspect", start, err)
	return env, err
}

// RotateKey records metrics for key rotation.
func (e *encryptionUseCaseWithMetrics) RotateKey(ctx context.Context) (string, error) {
	start := time.Now()
	keyID, err := e.next.RotateKey(ctx)
	e.record(ctx, "key_rotate", start, err)
	return keyID, err
}

// ActivateKey records metrics for key activation.
func (e *encryptionUseCaseWithMetrics) ActivateKey(ctx context.Context, keyID string) error {
	start := time.Now()
	err := e.next.ActivateKey(ctx, keyID)
	e.record(ctx, "key_activate", start, err)
	return err
}

// ReEncrypt records metrics for re-encryption.
func (e *encryptionUseCaseWithMetrics) ReEncrypt(
	ctx context.Context,
	sealed, oldKeyID, newKeyID string,
) (string, error) {
	start := time.Now()
	out, err := e.next.ReEncrypt(ctx, sealed, oldKeyID, newKeyID)
	e.record(ctx, "reencrypt", start, err)
	return out, err
}

// ReEncryptBatch records metrics for batch re-encryption.
func (e *encryptionUseCaseWithMetrics) ReEncryptBatch(
	ctx context.Context,
	sealed []string,
	oldKeyID, newKeyID string,
) ([]string, error) {
	start := time.Now()
	out, err := e.next.ReEncryptBatch(ctx, sealed, oldKeyID, newKeyID)
	e.record(ctx, "reencrypt_batch", start, err)
	return out, err
}

// paymentMethodUseCaseWithMetrics decorates PaymentMethodUseCase with metrics instrumentation.
type paymentMethodUseCaseWithMetrics struct {
	next    PaymentMethodUseCase
	metrics metrics.BusinessMetrics
}

// NewPaymentMethodUseCaseWithMetrics wraps a PaymentMethodUseCase with metrics recording.
func NewPaymentMethodUseCaseWithMetrics(
	useCase PaymentMethodUseCase,
	m metrics.BusinessMetrics,
) PaymentMethodUseCase {
	return &paymentMethodUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *paymentMethodUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := metrics.Status(err)
	p.metrics.RecordOperation(ctx, metrics.DomainPayment, operation, status)
	p.metrics.RecordDuration(ctx, metrics.DomainPayment, operation, time.Since(start), status)
}

// Store records metrics for payment method creation.
func (p *paymentMethodUseCaseWithMetrics) Store(
	ctx context.Context,
	rawCardNumber string,
) (*paymentDomain.PaymentMethod, error) {
	start := time.Now()
	pm, err := p.next.Store(ctx, rawCardNumber)
	p.record(ctx, "payment_method_store", start, err)
	return pm, err
}

// Get records metrics for payment method retrieval.
func (p *paymentMethodUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*paymentDomain.PaymentMethod, error) {
	start := time.Now()
	pm, err := p.next.Get(ctx, id)
	p.record(ctx, "payment_method_get", start, err)
	return pm, err
}

// FindByCardNumber records metrics for fingerprint lookups.
func (p *paymentMethodUseCaseWithMetrics) FindByCardNumber(
	ctx context.Context,
	rawCardNumber string,
) (*paymentDomain.PaymentMethod, error) {
	start := time.Now()
	pm, err := p.next.FindByCardNumber(ctx, rawCardNumber)
	p.record(ctx, "payment_method_find", start, err)
	return pm, err
}

// List records metrics for payment method listings.
func (p *paymentMethodUseCaseWithMetrics) List(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	start := time.Now()
	methods, err := p.next.List(ctx, afterID, limit)
	p.record(ctx, "payment_method_list", start, err)
	return methods, err
}

// Reveal records metrics for card reveals.
func (p *paymentMethodUseCaseWithMetrics) Reveal(ctx context.Context, id uuid.UUID) (string, error) {
	start := time.Now()
	number, err := p.next.Reveal(ctx, id)
	p.record(ctx, "payment_method_reveal", start, err)
	return number, err
}

// Migrate records metrics for key migrations.
func (p *paymentMethodUseCaseWithMetrics) Migrate(
	ctx context.Context,
	oldKeyID, newKeyID string,
	batchSize int,
) (*paymentDomain.MigrationReport, error) {
	start := time.Now()
	report, err := p.next.Migrate(ctx, oldKeyID, newKeyID, batchSize)
	p.record(ctx, "payment_method_migrate", start, err)
	return report, err
}

// Verify records metrics for integrity scans.
func (p *paymentMethodUseCaseWithMetrics) Verify(
	ctx context.Context,
	batchSize int,
) (*paymentDomain.VerificationReport, error) {
	start := time.Now()
	report, err := p.next.Verify(ctx, batchSize)
	p.record(ctx, "payment_method_verify", start, err)
	return report, err
}
