package surgdb

import (
	"context"
	"fmt"
)

// SecretProvider supplies the master key and salt bytes once at process
// start. Implementations live under providers/: local env/file material,
// HashiCorp Vault KV, and AWS KMS-wrapped material.
//
// The provider is consulted exactly once during keyring construction; it is
// never called again for the lifetime of the process.
type SecretProvider interface {
	// Material returns the master key and salt. Either being missing or
	// empty must be an error, never a default.
	Material(ctx context.Context) (master []byte, salt []byte, err error)
}

// NewKeyringFromProvider loads secret material from p and derives the
// keyring. Provider failures are fatal configuration errors: the process
// must refuse to start rather than run with a derived-from-nothing key.
func NewKeyringFromProvider(ctx context.Context, p SecretProvider, opts ...KeyringOption) (*Keyring, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: secret provider is required", ErrConfiguration)
	}
	master, salt, err := p.Material(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load secret material: %v", ErrConfiguration, err)
	}
	return NewKeyring(master, salt, opts...)
}
