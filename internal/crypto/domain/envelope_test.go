package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/cardvault/internal/errors"
)

func newTestEnvelope() *Envelope {
	return &Envelope{
		KeyID:      "key_a",
		Algorithm:  AESGCM,
		Nonce:      bytes.Repeat([]byte{1}, NonceSize),
		Ciphertext: []byte("opaque"),
		Tag:        bytes.Repeat([]byte{2}, TagSize),
		Timestamp:  time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestEnvelope_MarshalParse(t *testing.T) {
	t.Run("Success_RoundTrip", func(t *testing.T) {
		env := newTestEnvelope()

		data, err := env.Marshal()
		require.NoError(t, err)

		parsed, err := ParseEnvelope(data)
		require.NoError(t, err)
		assert.Equal(t, env, parsed)
	})

	t.Run("Success_WritesCurrentVersion", func(t *testing.T) {
		data, err := newTestEnvelope().Marshal()
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Equal(t, float64(EnvelopeVersion), fields["v"])
		assert.Equal(t, "key_a", fields["key_id"])
		assert.Equal(t, "AES-256-GCM", fields["alg"])
	})

	t.Run("Success_EmptyCiphertext", func(t *testing.T) {
		env := newTestEnvelope()
		env.Ciphertext = nil

		data, err := env.Marshal()
		require.NoError(t, err)

		parsed, err := ParseEnvelope(data)
		require.NoError(t, err)
		assert.Empty(t, parsed.Ciphertext)
	})

	t.Run("Success_UnknownMembersIgnored", func(t *testing.T) {
		data := []byte(`{"v":1,"key_id":"key_a","alg":"CHACHA20-POLY1305",` +
			`"nonce":"AQEBAQEBAQEBAQEB","ciphertext":"b3BhcXVl","tag":"AgICAgICAgICAgICAgICAg==",` +
			`"ts":"2026-10-18T12:00:00Z","extra":true}`)

		parsed, err := ParseEnvelope(data)
		require.NoError(t, err)
		assert.Equal(t, ChaCha20, parsed.Algorithm)
		assert.Equal(t, []byte("opaque"), parsed.Ciphertext)
	})

	t.Run("Error_MarshalInvalid", func(t *testing.T) {
		env := newTestEnvelope()
		env.KeyID = ""

		_, err := env.Marshal()
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})
}

func TestParseEnvelope_Legacy(t *testing.T) {
	data := []byte(`{"KeyId":"key_20240101_000000","Nonce":"AQEBAQEBAQEBAQEB",` +
		`"CipherText":"b3BhcXVl","Tag":"AgICAgICAgICAgICAgICAg==",` +
		`"Timestamp":"2024-01-01T00:00:00Z","Algorithm":"AES-256-GCM"}`)

	parsed, err := ParseEnvelope(data)
	require.NoError(t, err)

	assert.Equal(t, "key_20240101_000000", parsed.KeyID)
	assert.Equal(t, AESGCM, parsed.Algorithm)
	assert.Equal(t, bytes.Repeat([]byte{1}, NonceSize), parsed.Nonce)
	assert.Equal(t, []byte("opaque"), parsed.Ciphertext)
	assert.Equal(t, bytes.Repeat([]byte{2}, TagSize), parsed.Tag)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), parsed.Timestamp)
}

func TestParseEnvelope_Errors(t *testing.T) {
	valid := func(mutate func(m map[string]any)) []byte {
		data, err := newTestEnvelope().Marshal()
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		mutate(m)
		out, err := json.Marshal(m)
		require.NoError(t, err)
		return out
	}

	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{name: "Empty", input: nil, wantErr: ErrMalformedEnvelope},
		{name: "Whitespace", input: []byte("  \n"), wantErr: ErrMalformedEnvelope},
		{name: "NotJSON", input: []byte("not-json"), wantErr: ErrMalformedEnvelope},
		{name: "JSONArray", input: []byte("[1,2]"), wantErr: ErrMalformedEnvelope},
		{
			name:    "NewerVersion",
			input:   valid(func(m map[string]any) { m["v"] = 2 }),
			wantErr: ErrUnsupportedEnvelopeVersion,
		},
		{
			name:    "ZeroVersion",
			input:   valid(func(m map[string]any) { m["v"] = 0 }),
			wantErr: ErrMalformedEnvelope,
		},
		{
			name:    "UnknownAlgorithm",
			input:   valid(func(m map[string]any) { m["alg"] = "ROT13" }),
			wantErr: ErrUnsupportedAlgorithm,
		},
		{
			name:    "MissingKeyID",
			input:   valid(func(m map[string]any) { delete(m, "key_id") }),
			wantErr: ErrMalformedEnvelope,
		},
		{
			name:    "ShortNonce",
			input:   valid(func(m map[string]any) { m["nonce"] = "AQEB" }),
			wantErr: ErrMalformedEnvelope,
		},
		{
			name:    "ShortTag",
			input:   valid(func(m map[string]any) { m["tag"] = "AgIC" }),
			wantErr: ErrMalformedEnvelope,
		},
		{
			name:    "InvalidBase64",
			input:   valid(func(m map[string]any) { m["ciphertext"] = "***" }),
			wantErr: ErrMalformedEnvelope,
		},
		{
			name:    "LegacyInvalidBase64",
			input:   []byte(`{"KeyId":"k","Nonce":"!!","CipherText":"","Tag":"","Algorithm":"AES-256-GCM"}`),
			wantErr: ErrMalformedEnvelope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope(tt.input)
			assert.Nil(t, env)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}
