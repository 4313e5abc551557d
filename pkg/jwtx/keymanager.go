package jwtx

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/evote/pkg/cryptox"
)

// KeyManager owns the signing keys of one service instance. Keys are
// ephemeral: they are generated at startup and every session is invalidated
// by a restart.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

type KeyManagerOptions struct {
	Issuer   string
	Audience []string

	// NumKeys defaults to 3 and is capped at 10.
	NumKeys int
}

// NewEphemeralKeyManager generates NumKeys Ed25519 signing keys with random
// key ids and wires them into a KeySet and verifier.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}

	n := opts.NumKeys
	if n <= 0 {
		n = 3
	}
	n = min(n, 10)

	keyset := NewKeySet()
	km := &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
	}

	for i := range n {
		signer, err := generateSigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}

	return km, nil
}

func generateSigner() (Signer, error) {
	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, err
	}

	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}

	return NewSignerEdDSA("evote-"+kid, pemKey)
}

// IsReady reports whether keys are loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly chosen signing key.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner publishes the signer's public key and makes it available for
// signing.
func (km *KeyManager) AddSigner(s Signer) error {
	if s == nil {
		return errors.New("jwtx: nil signer")
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(s); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, s)
	return nil
}
