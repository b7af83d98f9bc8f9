// Package mocks provides mock implementations of the payment use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	paymentDomain "github.com/allisson/cardvault/internal/payment/domain"
)

// MockPaymentMethodRepository is a mock implementation of PaymentMethodRepository.
type MockPaymentMethodRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockPaymentMethodRepository) Create(ctx context.Context, pm *paymentDomain.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

// Update mocks the Update method.
func (m *MockPaymentMethodRepository) Update(ctx context.Context, pm *paymentDomain.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockPaymentMethodRepository) Get(ctx context.Context, id uuid.UUID) (*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.PaymentMethod), args.Error(1)
}

// GetByFingerprint mocks the GetByFingerprint method.
func (m *MockPaymentMethodRepository) GetByFingerprint(
	ctx context.Context,
	fingerprint string,
) (*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.PaymentMethod), args.Error(1)
}

// ListByKeyID mocks the ListByKeyID method.
func (m *MockPaymentMethodRepository) ListByKeyID(
	ctx context.Context,
	keyID string,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, keyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentDomain.PaymentMethod), args.Error(1)
}

// ListAfter mocks the ListAfter method.
func (m *MockPaymentMethodRepository) ListAfter(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentDomain.PaymentMethod), args.Error(1)
}

// MockEncryptionUseCase is a mock implementation of EncryptionUseCase.
type MockEncryptionUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockEncryptionUseCase) Encrypt(ctx context.Context, plaintext []byte) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

// EncryptWithKey mocks the EncryptWithKey method.
func (m *MockEncryptionUseCase) EncryptWithKey(ctx context.Context, plaintext []byte, keyID string) (string, error) {
	args := m.Called(ctx, plaintext, keyID)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockEncryptionUseCase) Decrypt(ctx context.Context, sealed string) ([]byte, error) {
	args := m.Called(ctx, sealed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// EncryptCard mocks the EncryptCard method.
func (m *MockEncryptionUseCase) EncryptCard(ctx context.Context, rawCardNumber string) (string, error) {
	args := m.Called(ctx, rawCardNumber)
	return args.String(0), args.Error(1)
}

// DecryptCard mocks the DecryptCard method.
func (m *MockEncryptionUseCase) DecryptCard(ctx context.Context, sealed string) (string, error) {
	args := m.Called(ctx, sealed)
	return args.String(0), args.Error(1)
}

// Fingerprint mocks the Fingerprint method.
func (m *MockEncryptionUseCase) Fingerprint(plaintext []byte) string {
	args := m.Called(plaintext)
	return args.String(0)
}

// CurrentKeyID mocks the CurrentKeyID method.
func (m *MockEncryptionUseCase) CurrentKeyID() string {
	args := m.Called()
	return args.String(0)
}

// ValidateIntegrity mocks the ValidateIntegrity method.
func (m *MockEncryptionUseCase) ValidateIntegrity(ctx context.Context, sealed string) bool {
	args := m.Called(ctx, sealed)
	return args.Bool(0)
}

// Inspect mocks the Inspect method.
func (m *MockEncryptionUseCase) Inspect(ctx context.Context, sealed string) (*cryptoDomain.Envelope, error) {
	args := m.Called(ctx, sealed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Envelope), args.Error(1)
}

// RotateKey mocks the RotateKey method.
func (m *MockEncryptionUseCase) RotateKey(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// ActivateKey mocks the ActivateKey method.
func (m *MockEncryptionUseCase) ActivateKey(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

// ReEncrypt mocks the ReEncrypt method.
func (m *MockEncryptionUseCase) ReEncrypt(ctx context.Context, sealed, oldKeyID, newKeyID string) (string, error) {
	args := m.Called(ctx, sealed, oldKeyID, newKeyID)
	return args.String(0), args.Error(1)
}

// ReEncryptBatch mocks the ReEncryptBatch method.
func (m *MockEncryptionUseCase) ReEncryptBatch(
	ctx context.Context,
	sealed []string,
	oldKeyID, newKeyID string,
) ([]string, error) {
	args := m.Called(ctx, sealed, oldKeyID, newKeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockPaymentMethodUseCase is a mock implementation of PaymentMethodUseCase.
type MockPaymentMethodUseCase struct {
	mock.Mock
}

// Store mocks the Store method.
func (m *MockPaymentMethodUseCase) Store(
	ctx context.Context,
	rawCardNumber string,
) (*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, rawCardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.PaymentMethod), args.Error(1)
}

// Get mocks the Get method.
func (m *MockPaymentMethodUseCase) Get(ctx context.Context, id uuid.UUID) (*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.PaymentMethod), args.Error(1)
}

// FindByCardNumber mocks the FindByCardNumber method.
func (m *MockPaymentMethodUseCase) FindByCardNumber(
	ctx context.Context,
	rawCardNumber string,
) (*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, rawCardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.PaymentMethod), args.Error(1)
}

// List mocks the List method.
func (m *MockPaymentMethodUseCase) List(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*paymentDomain.PaymentMethod, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*paymentDomain.PaymentMethod), args.Error(1)
}

// Reveal mocks the Reveal method.
func (m *MockPaymentMethodUseCase) Reveal(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// Migrate mocks the Migrate method.
func (m *MockPaymentMethodUseCase) Migrate(
	ctx context.Context,
	oldKeyID, newKeyID string,
	batchSize int,
) (*paymentDomain.MigrationReport, error) {
	args := m.Called(ctx, oldKeyID, newKeyID, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.MigrationReport), args.Error(1)
}

// Verify mocks the Verify method.
func (m *MockPaymentMethodUseCase) Verify(
	ctx context.Context,
	batchSize int,
) (*paymentDomain.VerificationReport, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.VerificationReport), args.Error(1)
}
