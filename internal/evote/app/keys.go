package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/evote/pkg/jwtx"
)

// initSessionKeys generates the session signing keys. Keys live only in
// memory, so a restart signs everyone out; voters simply request a new code.
func initSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}

	logger.Info("generated session signing keys",
		"num_keys", km.NumSigners(),
		"issuer", cfg.Issuer,
	)
	return km, nil
}
