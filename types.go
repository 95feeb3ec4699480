package surgdb

import (
	"encoding/base64"
	"fmt"
)

// EncryptedValue is the stored form of one encrypted scalar field. It is
// opaque to everything except the engine: callers store and fetch it whole,
// never mutate it in place. Encrypting the same plaintext twice yields
// different nonce/ciphertext pairs but always decrypts back to the identical
// plaintext under the correct key.
type EncryptedValue struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
	KeyVersion int
}

// Document-form keys for an EncryptedValue embedded in a JSON record. The
// marker key distinguishes an encrypted leaf from legacy plaintext that may
// still be present during a migration window.
const (
	docMarkerKey     = "__fenc"
	docNonceKey      = "nonce"
	docCiphertextKey = "ciphertext"
	docTagKey        = "tag"
	docKeyVersionKey = "key_version"
)

// asDocument renders the value in its persisted document form: a JSON-safe
// map with base64 byte fields.
func (v *EncryptedValue) asDocument() map[string]any {
	return map[string]any{
		docMarkerKey:     true,
		docNonceKey:      base64.StdEncoding.EncodeToString(v.Nonce),
		docCiphertextKey: base64.StdEncoding.EncodeToString(v.Ciphertext),
		docTagKey:        base64.StdEncoding.EncodeToString(v.Tag),
		docKeyVersionKey: v.KeyVersion,
	}
}

// IsEncryptedValue reports whether a document leaf carries the encrypted
// value marker. It does not validate the structure beyond the marker.
func IsEncryptedValue(leaf any) bool {
	m, ok := leaf.(map[string]any)
	if !ok {
		return false
	}
	marker, ok := m[docMarkerKey].(bool)
	return ok && marker
}

// encryptedValueFromDocument parses a document leaf back into an
// EncryptedValue. Anything that is not marker-shaped, or is marker-shaped
// but structurally broken, fails with ErrFormat.
func encryptedValueFromDocument(leaf any) (*EncryptedValue, error) {
	m, ok := leaf.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: leaf is %T, not an encrypted value", ErrFormat, leaf)
	}
	if marker, ok := m[docMarkerKey].(bool); !ok || !marker {
		return nil, fmt.Errorf("%w: missing encrypted value marker", ErrFormat)
	}

	nonce, err := docBytes(m, docNonceKey)
	if err != nil {
		return nil, err
	}
	ciphertext, err := docBytes(m, docCiphertextKey)
	if err != nil {
		return nil, err
	}
	tag, err := docBytes(m, docTagKey)
	if err != nil {
		return nil, err
	}

	version, err := docInt(m, docKeyVersionKey)
	if err != nil {
		return nil, err
	}

	return &EncryptedValue{
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
		KeyVersion: version,
	}, nil
}

func docBytes(m map[string]any, key string) ([]byte, error) {
	s, ok := m[key].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-string %q", ErrFormat, key)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not valid base64", ErrFormat, key)
	}
	return b, nil
}

// docInt tolerates the numeric types a JSON round trip can produce.
func docInt(m map[string]any, key string) (int, error) {
	switch n := m[key].(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: missing or non-numeric %q", ErrFormat, key)
	}
}
