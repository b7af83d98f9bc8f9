package domain

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// EnvelopeVersion is the schema version written by Marshal.
//
// Version 0 is the legacy layout without a "v" member (PascalCase fields, base64
// strings). It is still accepted by ParseEnvelope.
const EnvelopeVersion = 1

// Envelope is the self-describing record produced by one AEAD encryption.
//
// It always carries the KeyID used to produce it, so a KeyRing holding many keys can
// decrypt it without ambiguity. len(Ciphertext) equals the plaintext length.
type Envelope struct {
	KeyID      string
	Algorithm  Algorithm
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
	Timestamp  time.Time
}

type envelopeV1 struct {
	Version    int       `json:"v"`
	KeyID      string    `json:"key_id"`
	Algorithm  string    `json:"alg"`
	Nonce      []byte    `json:"nonce"`
	Ciphertext []byte    `json:"ciphertext"`
	Tag        []byte    `json:"tag"`
	Timestamp  time.Time `json:"ts"`
}

type envelopeLegacy struct {
	KeyID      string    `json:"KeyId"`
	Nonce      string    `json:"Nonce"`
	CipherText string    `json:"CipherText"`
	Tag        string    `json:"Tag"`
	Timestamp  time.Time `json:"Timestamp"`
	Algorithm  string    `json:"Algorithm"`
}

type envelopeProbe struct {
	Version *int `json:"v"`
}

// Marshal serializes the envelope using the current canonical schema.
func (e *Envelope) Marshal() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(envelopeV1{
		Version:    EnvelopeVersion,
		KeyID:      e.KeyID,
		Algorithm:  string(e.Algorithm),
		Nonce:      e.Nonce,
		Ciphertext: e.Ciphertext,
		Tag:        e.Tag,
		Timestamp:  e.Timestamp.UTC(),
	})
}

// ParseEnvelope decodes bytes produced by Marshal, or by the legacy schema.
//
// Unknown members are ignored. Unknown algorithms, newer schema versions and
// wrongly sized nonces or tags fail with ErrMalformedEnvelope.
func ParseEnvelope(data []byte) (*Envelope, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedEnvelope)
	}

	var probe envelopeProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	var (
		env *Envelope
		err error
	)
	switch {
	case probe.Version == nil:
		env, err = parseLegacy(data)
	case *probe.Version == EnvelopeVersion:
		env, err = parseV1(data)
	case *probe.Version > EnvelopeVersion:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEnvelopeVersion, *probe.Version)
	default:
		return nil, fmt.Errorf("%w: invalid version %d", ErrMalformedEnvelope, *probe.Version)
	}
	if err != nil {
		return nil, err
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func parseV1(data []byte) (*Envelope, error) {
	var wire envelopeV1
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return &Envelope{
		KeyID:      wire.KeyID,
		Algorithm:  Algorithm(wire.Algorithm),
		Nonce:      wire.Nonce,
		Ciphertext: wire.Ciphertext,
		Tag:        wire.Tag,
		Timestamp:  wire.Timestamp.UTC(),
	}, nil
}

func parseLegacy(data []byte) (*Envelope, error) {
	var wire envelopeLegacy
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	nonce, err := base64.StdEncoding.DecodeString(wire.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrMalformedEnvelope, err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(wire.CipherText)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext: %v", ErrMalformedEnvelope, err)
	}
	tag, err := base64.StdEncoding.DecodeString(wire.Tag)
	if err != nil {
		return nil, fmt.Errorf("%w: tag: %v", ErrMalformedEnvelope, err)
	}

	return &Envelope{
		KeyID:      wire.KeyID,
		Algorithm:  Algorithm(wire.Algorithm),
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
		Timestamp:  wire.Timestamp.UTC(),
	}, nil
}

func (e *Envelope) validate() error {
	if e.KeyID == "" {
		return fmt.Errorf("%w: missing key id", ErrMalformedEnvelope)
	}
	if _, err := ParseAlgorithm(string(e.Algorithm)); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if len(e.Nonce) != NonceSize {
		return fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrMalformedEnvelope, NonceSize, len(e.Nonce))
	}
	if len(e.Tag) != TagSize {
		return fmt.Errorf("%w: tag must be %d bytes, got %d", ErrMalformedEnvelope, TagSize, len(e.Tag))
	}
	return nil
}
