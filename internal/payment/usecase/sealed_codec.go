package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// sealedCodec converts envelopes to and from SealedStrings:
// base64(Seal(envelope JSON)).
type sealedCodec struct {
	sealer cryptoService.SecretSealer
}

func (c sealedCodec) encode(ctx context.Context, env *cryptoDomain.Envelope) (string, error) {
	data, err := env.Marshal()
	if err != nil {
		return "", err
	}

	sealed, err := c.sealer.Seal(ctx, data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(sealed)), nil
}

func (c sealedCodec) decode(ctx context.Context, sealed string) (*cryptoDomain.Envelope, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(sealed))
	if err != nil {
		return nil, fmt.Errorf("%w: sealed string is not base64", cryptoDomain.ErrMalformedEnvelope)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty sealed string", cryptoDomain.ErrMalformedEnvelope)
	}

	data, err := c.sealer.Unseal(ctx, string(raw))
	if err != nil {
		return nil, err
	}
	return cryptoDomain.ParseEnvelope(data)
}
