package surgdb

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	e := NewTestEngine()

	plaintexts := []string{
		"123 456 7890",
		"",
		"SW1A 1AA",
		"O'Brien-Smith",
		"1947-03-12",
		"值 with unicode ✓",
	}

	for _, p := range plaintexts {
		t.Run(fmt.Sprintf("%q", p), func(t *testing.T) {
			value, err := e.EncryptValue([]byte(p))
			require.NoError(t, err)
			assert.Len(t, value.Nonce, NonceLength)
			assert.Len(t, value.Tag, TagLength)
			assert.Equal(t, 1, value.KeyVersion)

			got, err := e.DecryptValue(value)
			require.NoError(t, err)
			assert.Equal(t, p, string(got))
		})
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	e := NewTestEngine()
	plaintext := []byte("1947-03-12") // two patients sharing a DOB must not correlate

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		value, err := e.EncryptValue(plaintext)
		require.NoError(t, err)

		key := string(value.Nonce) + "|" + string(value.Ciphertext)
		assert.False(t, seen[key], "trial %d repeated a nonce/ciphertext pair", i)
		seen[key] = true
	}
}

func TestDecryptDetectsTampering(t *testing.T) {
	e := NewTestEngine()
	value, err := e.EncryptValue([]byte("463 5827 309"))
	require.NoError(t, err)

	flipAnywhere := func(b []byte) [][]byte {
		var out [][]byte
		for i := range b {
			for bit := 0; bit < 8; bit++ {
				mutated := bytes.Clone(b)
				mutated[i] ^= 1 << bit
				out = append(out, mutated)
			}
		}
		return out
	}

	for _, ct := range flipAnywhere(value.Ciphertext) {
		mutated := &EncryptedValue{Nonce: value.Nonce, Ciphertext: ct, Tag: value.Tag, KeyVersion: value.KeyVersion}
		_, err := e.DecryptValue(mutated)
		require.Error(t, err)
		require.True(t, IsIntegrityError(err))
	}
	for _, tag := range flipAnywhere(value.Tag) {
		mutated := &EncryptedValue{Nonce: value.Nonce, Ciphertext: value.Ciphertext, Tag: tag, KeyVersion: value.KeyVersion}
		_, err := e.DecryptValue(mutated)
		require.Error(t, err)
		require.True(t, IsIntegrityError(err))
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	e := NewTestEngine()
	value, err := e.EncryptValue([]byte("secret"))
	require.NoError(t, err)

	otherKeyring, err := NewKeyring(bytes.Repeat([]byte{0x42}, 32), testSalt)
	require.NoError(t, err)
	other, err := New(otherKeyring)
	require.NoError(t, err)

	_, err = other.DecryptValue(value)
	require.Error(t, err)
	assert.True(t, IsIntegrityError(err))
}

func TestDecryptRejectsMalformedValues(t *testing.T) {
	e := NewTestEngine()
	good, err := e.EncryptValue([]byte("x"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		value *EncryptedValue
	}{
		{"nil value", nil},
		{"short nonce", &EncryptedValue{Nonce: good.Nonce[:8], Ciphertext: good.Ciphertext, Tag: good.Tag, KeyVersion: 1}},
		{"short tag", &EncryptedValue{Nonce: good.Nonce, Ciphertext: good.Ciphertext, Tag: good.Tag[:8], KeyVersion: 1}},
		{"unknown key version", &EncryptedValue{Nonce: good.Nonce, Ciphertext: good.Ciphertext, Tag: good.Tag, KeyVersion: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.DecryptValue(tt.value)
			require.Error(t, err)
			assert.True(t, IsFormatError(err), "want format error, got %v", err)
		})
	}
}

func TestEncryptedValueDocumentRoundTrip(t *testing.T) {
	e := NewTestEngine()
	value, err := e.EncryptValue([]byte("123 456 7890"))
	require.NoError(t, err)

	doc := value.asDocument()
	assert.True(t, IsEncryptedValue(doc))

	parsed, err := encryptedValueFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, value, parsed)
}

func TestEncryptedValueFromDocumentRejectsJunk(t *testing.T) {
	tests := []struct {
		name string
		leaf any
	}{
		{"plain string", "legacy plaintext"},
		{"number", 42.0},
		{"map without marker", map[string]any{"nonce": "AAAA"}},
		{"marker but missing fields", map[string]any{"__fenc": true}},
		{"marker with bad base64", map[string]any{
			"__fenc": true, "nonce": "!!", "ciphertext": "!!", "tag": "!!", "key_version": 1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encryptedValueFromDocument(tt.leaf)
			require.Error(t, err)
			assert.True(t, IsFormatError(err))
		})
	}
}
