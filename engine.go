package surgdb

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"log/slog"
)

// Engine is the entry point for all field encryption, search hashing, and
// document transforms. It is constructed once at startup with an explicit
// Keyring and passed to call sites; there is no package-level key state.
//
// The engine is immutable after construction. All methods are stateless per
// call and safe for concurrent use from any number of request handlers.
type Engine struct {
	keyring *Keyring
	aead    cipher.AEAD

	strict bool
	marker string
	logger *slog.Logger
}

// New builds an Engine from a keyring. The AES-256-GCM cipher is constructed
// once here and reused for every field operation.
func New(keyring *Keyring, opts ...Option) (*Engine, error) {
	if keyring == nil {
		return nil, fmt.Errorf("%w: keyring is required", ErrConfiguration)
	}

	block, err := aes.NewCipher(keyring.encKey())
	if err != nil {
		return nil, fmt.Errorf("%w: create AES cipher: %v", ErrConfiguration, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create GCM: %v", ErrConfiguration, err)
	}

	e := &Engine{
		keyring: keyring,
		aead:    aead,
		marker:  DefaultUnavailableMarker,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// KeyVersion returns the key generation new EncryptedValues are stamped with.
func (e *Engine) KeyVersion() int { return e.keyring.KeyVersion() }
