package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSSchemes lists the key URI schemes a keeper can be opened for.
var KMSSchemes = []string{"awskms", "azurekeyvault", "gcpkms", "hashivault", "base64key"}

// KMSService opens gocloud.dev/secrets keepers. It satisfies cryptoDomain.KeeperOpener.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService returns the gocloud.dev backed KMSService.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the keeper for keyURI after checking its scheme against
// KMSSchemes. The URI itself is never included in errors since base64key
// URIs embed key material.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", cryptoDomain.ErrInvalidKeyRingConfig)
	}
	if !slices.Contains(KMSSchemes, u.Scheme) {
		return nil, fmt.Errorf("failed to open KMS keeper: unsupported scheme %q: %w", u.Scheme, cryptoDomain.ErrInvalidKeyRingConfig)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		if u.Scheme == "base64key" {
			return nil, fmt.Errorf("failed to open KMS keeper for scheme %q: %w", u.Scheme, cryptoDomain.ErrInvalidKeyRingConfig)
		}
		return nil, fmt.Errorf("failed to open KMS keeper for scheme %q: %w", u.Scheme, err)
	}
	return keeper, nil
}
