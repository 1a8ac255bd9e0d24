package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// VaultPrefix marks a database URL stored in Vault instead of inline.
const VaultPrefix = "vault:"

// secretTTL is how long a resolved URL is cached by the secret source.
const secretTTL = 5 * time.Minute

// ErrNoSecretSource is returned for a vault: URL when no source was given.
var ErrNoSecretSource = errors.New("database: vault url but no secret source")

// SecretSource fetches one key of a KV secret.  *vault.Client satisfies
// it.
type SecretSource interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// ResolveURL returns raw unchanged unless it has the form
// "vault:<mount>/<path>#<key>", in which case the referenced secret is
// fetched and returned.
func ResolveURL(ctx context.Context, raw string, secrets SecretSource) (string, error) {
	ref, ok := strings.CutPrefix(raw, VaultPrefix)
	if !ok {
		return raw, nil
	}
	if secrets == nil {
		return "", ErrNoSecretSource
	}

	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("database: vault url %q must look like vault:<mount>/<path>#<key>", raw)
	}

	url, err := secrets.GetKV(ctx, path, key, secretTTL)
	if err != nil {
		return "", fmt.Errorf("resolve database url: %w", err)
	}
	return url, nil
}
