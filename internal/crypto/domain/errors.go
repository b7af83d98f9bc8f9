package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

// Cryptographic error definitions.
//
// Each sentinel wraps one of the generic errors from internal/errors so handlers can
// map it to a status code while callers still match the specific failure with errors.Is.
var (
	// ErrEmptyPlaintext indicates an encrypt call received no data.
	ErrEmptyPlaintext = errors.Wrap(errors.ErrInvalidInput, "plaintext cannot be empty")

	// ErrInvalidKeySize indicates key material is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyID indicates a key identifier is empty, too long or contains separators.
	ErrInvalidKeyID = errors.Wrap(errors.ErrInvalidInput, "invalid key id")

	// ErrUnsupportedAlgorithm indicates an algorithm string this build cannot process.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrAuthenticationFailed indicates the authentication tag did not verify.
	//
	// The ciphertext or tag was modified, or the wrong key was used. No plaintext is
	// ever returned together with this error.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInvalidInput, "authentication failed")

	// ErrKeyNotFound indicates the key ring has no key under the requested id.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrKeyConflict indicates a different key was registered under an existing id.
	ErrKeyConflict = errors.Wrap(errors.ErrConflict, "key id already bound to a different key")

	// ErrMalformedEnvelope indicates serialized envelope bytes violate the schema.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrUnsupportedEnvelopeVersion indicates an envelope written by a newer schema.
	ErrUnsupportedEnvelopeVersion = errors.Wrap(ErrMalformedEnvelope, "unsupported envelope version")

	// ErrSealingFailed indicates the outer secret sealer could not seal or unseal.
	ErrSealingFailed = errors.Wrap(errors.ErrUnavailable, "sealing failed")

	// ErrInvalidKeyRingConfig indicates the configured keys could not be parsed.
	ErrInvalidKeyRingConfig = errors.Wrap(errors.ErrInvalidInput, "invalid key ring configuration")
)
