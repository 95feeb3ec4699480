package surgdb

import (
	"crypto/rand"
	"fmt"
	"io"
)

// EncryptValue encrypts a single scalar plaintext with AES-256-GCM under the
// active key generation. Every call draws a fresh random nonce, so two
// encryptions of the same plaintext are not correlatable by comparing stored
// bytes.
func (e *Engine) EncryptValue(plaintext []byte) (*EncryptedValue, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagLength

	return &EncryptedValue{
		Nonce:      nonce,
		Ciphertext: sealed[:split],
		Tag:        sealed[split:],
		KeyVersion: e.keyring.KeyVersion(),
	}, nil
}

// DecryptValue reverses EncryptValue. Structural problems (nil value, wrong
// nonce length, unknown key generation) fail with ErrFormat; a tag that does
// not verify fails with ErrIntegrity and never yields partial plaintext.
func (e *Engine) DecryptValue(v *EncryptedValue) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil encrypted value", ErrFormat)
	}
	if len(v.Nonce) != e.aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrFormat, len(v.Nonce), e.aead.NonceSize())
	}
	if len(v.Tag) != TagLength {
		return nil, fmt.Errorf("%w: tag is %d bytes, want %d", ErrFormat, len(v.Tag), TagLength)
	}
	if v.KeyVersion != e.keyring.KeyVersion() {
		return nil, fmt.Errorf("%w: key version %d is not the active generation %d",
			ErrFormat, v.KeyVersion, e.keyring.KeyVersion())
	}

	sealed := make([]byte, 0, len(v.Ciphertext)+len(v.Tag))
	sealed = append(sealed, v.Ciphertext...)
	sealed = append(sealed, v.Tag...)

	plaintext, err := e.aead.Open(nil, v.Nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return plaintext, nil
}
