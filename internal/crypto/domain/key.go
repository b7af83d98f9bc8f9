// Package domain defines the core cryptographic domain models for payment-data encryption.
//
// A KeyRing holds every symmetric key the process knows, indexed by key id. Data is
// encrypted into self-describing Envelopes that carry the id of the key used, so the
// ring can hold many live key versions at once. Keys are only ever added; an id
// resolves to the same bytes for the lifetime of the process.
package domain

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Key is a 256-bit symmetric key and the id it is registered under.
type Key struct {
	ID  string
	Key []byte
}

// KeyRing is a concurrent lookup table from key id to key material.
//
// Reads are lock-free through sync.Map, which suits a ring that is read on every
// encrypt/decrypt and written only on rotation. Which key is "current" is tracked
// by the caller, not by the ring.
type KeyRing struct {
	keys sync.Map // map[string]*Key
}

// NewKeyRing creates an empty KeyRing.
func NewKeyRing() *KeyRing {
	return &KeyRing{}
}

// Add registers key under id.
//
// Adding the same id/key pair twice is a no-op. Adding a different key under an
// existing id fails with ErrKeyConflict and leaves the stored key untouched.
// The ring keeps its own copy of key.
func (r *KeyRing) Add(id string, key []byte) error {
	if err := ValidateKeyID(id); err != nil {
		return err
	}
	if len(key) != KeySize {
		return fmt.Errorf("%w: key %s must be %d bytes, got %d", ErrInvalidKeySize, id, KeySize, len(key))
	}

	candidate := &Key{ID: id, Key: bytes.Clone(key)}
	actual, loaded := r.keys.LoadOrStore(id, candidate)
	if !loaded {
		return nil
	}

	Zero(candidate.Key)
	if subtle.ConstantTimeCompare(actual.(*Key).Key, key) == 1 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrKeyConflict, id)
}

// Get returns a copy of the key registered under id.
//
// Callers should Zero the returned slice once the cipher has been built.
func (r *KeyRing) Get(id string) ([]byte, error) {
	value, ok := r.keys.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	return bytes.Clone(value.(*Key).Key), nil
}

// Contains reports whether id is registered.
func (r *KeyRing) Contains(id string) bool {
	_, ok := r.keys.Load(id)
	return ok
}

// IDs returns the registered key ids in lexical order.
func (r *KeyRing) IDs() []string {
	var ids []string
	r.keys.Range(func(key, _ any) bool {
		ids = append(ids, key.(string))
		return true
	})
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered keys.
func (r *KeyRing) Len() int {
	n := 0
	r.keys.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close zeroes all key material and empties the ring.
// Only call this at shutdown: envelopes referencing the keys become undecryptable.
func (r *KeyRing) Close() {
	r.keys.Range(func(_, value any) bool {
		Zero(value.(*Key).Key)
		return true
	})
	r.keys.Clear()
}

// ValidateKeyID checks that id can be stored in the ring and round-trip through the
// "id:base64key" configuration format.
func ValidateKeyID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidKeyID)
	}
	if len(id) > MaxKeyIDLength {
		return fmt.Errorf("%w: id exceeds maximum length of %d", ErrInvalidKeyID, MaxKeyIDLength)
	}
	if strings.ContainsAny(id, ":, \t\r\n") {
		return fmt.Errorf("%w: id %q contains a reserved character", ErrInvalidKeyID, id)
	}
	return nil
}

// GenerateKey returns KeySize bytes from the system CSPRNG.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// NewKeyID mints a collision-resistant key id of the form
// key_YYYYMMDD_HHMMSS_<32 hex chars>.
func NewKeyID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("key_%s_%s", now.UTC().Format("20060102_150405"), suffix)
}

// DeriveKeyID returns a stable id for key so a restart with the same master key
// resolves envelopes written by the previous run.
func DeriveKeyID(key []byte) string {
	h := sha256.New()
	h.Write([]byte("cardvault-key-id"))
	h.Write(key)
	return "key_default_" + hex.EncodeToString(h.Sum(nil)[:8])
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	clear(b)
}
