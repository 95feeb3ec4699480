package surgdb

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Keyring derives and holds the encryption key and the hash key for one key
// generation. It is read-only after construction and safe for unlimited
// concurrent readers.
//
// Both keys come from the same master material via HKDF-SHA256 with distinct
// info strings, so neither can be computed from the other.
type Keyring struct {
	encryptionKey [32]byte
	hashKey       [32]byte
	version       int
}

// KeyringOption configures a Keyring at construction time.
type KeyringOption func(*Keyring)

// WithKeyVersion sets the key generation stamped into every EncryptedValue
// produced under this keyring. Defaults to 1.
func WithKeyVersion(version int) KeyringOption {
	return func(k *Keyring) {
		k.version = version
	}
}

// NewKeyring validates the master secret material and derives the two
// sub-keys. It fails with ErrConfiguration on missing, short, or
// all-zero material; there is no insecure default.
func NewKeyring(master, salt []byte, opts ...KeyringOption) (*Keyring, error) {
	if len(master) < MinMasterKeyLength {
		return nil, fmt.Errorf("%w: master key must be at least %d bytes, got %d",
			ErrConfiguration, MinMasterKeyLength, len(master))
	}
	if len(salt) < MinSaltLength {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes, got %d",
			ErrConfiguration, MinSaltLength, len(salt))
	}
	if allZero(master) {
		return nil, fmt.Errorf("%w: master key appears to be uninitialized (all zeros)", ErrConfiguration)
	}
	if allZero(salt) {
		return nil, fmt.Errorf("%w: salt appears to be uninitialized (all zeros)", ErrConfiguration)
	}

	k := &Keyring{version: 1}
	for _, opt := range opts {
		opt(k)
	}
	if k.version < 1 {
		return nil, fmt.Errorf("%w: key version must be >= 1, got %d", ErrConfiguration, k.version)
	}

	if err := hkdfDerive(master, salt, infoFieldEncryption, k.encryptionKey[:]); err != nil {
		return nil, fmt.Errorf("%w: derive encryption key: %v", ErrConfiguration, err)
	}
	if err := hkdfDerive(master, salt, infoSearchHash, k.hashKey[:]); err != nil {
		return nil, fmt.Errorf("%w: derive hash key: %v", ErrConfiguration, err)
	}
	return k, nil
}

// KeyVersion returns the active key generation.
func (k *Keyring) KeyVersion() int { return k.version }

// encryption and hash key accessors stay package-private: nothing outside
// the engine should ever touch raw key bytes.
func (k *Keyring) encKey() []byte  { return k.encryptionKey[:] }
func (k *Keyring) hmacKey() []byte { return k.hashKey[:] }

func hkdfDerive(master, salt []byte, info string, out []byte) error {
	r := hkdf.New(sha256.New, master, salt, []byte(info))
	_, err := io.ReadFull(r, out)
	return err
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
