package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/noorweb/noorweb/internal/config"
	"github.com/zalando/go-keyring"
)

// LoadSecret returns the token signing secret. A configured value wins.
// Otherwise the secret is read from the OS keyring, and generated and
// stored there on first use. When the keyring is unusable a random secret
// is returned, so tokens will not survive a restart.
func LoadSecret(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	log := slog.With(config.LogKeyComponent, config.CompAuth)

	stored, err := keyring.Get(config.KeyringService, config.KeyringJWTAccount)
	if err == nil {
		if secret, decErr := hex.DecodeString(stored); decErr == nil && len(secret) > 0 {
			return secret, nil
		}
	}

	secret := make([]byte, config.SecretByteSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSecretLoad, err)
	}

	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Warn(config.MsgSecretEphemeral, config.LogKeyError, err)
		return secret, nil
	}
	if setErr := keyring.Set(config.KeyringService, config.KeyringJWTAccount, hex.EncodeToString(secret)); setErr != nil {
		log.Warn(config.MsgSecretEphemeral, config.LogKeyError, setErr)
		return secret, nil
	}
	log.Info(config.MsgSecretGenerated)
	return secret, nil
}
