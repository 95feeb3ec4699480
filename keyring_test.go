package surgdb

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyringRejectsBadMaterial(t *testing.T) {
	valid := bytes.Repeat([]byte{0xAB}, 32)
	salt := bytes.Repeat([]byte{0x01}, 16)

	tests := []struct {
		name   string
		master []byte
		salt   []byte
	}{
		{"nil master", nil, salt},
		{"short master", bytes.Repeat([]byte{0xAB}, 31), salt},
		{"all-zero master", make([]byte, 32), salt},
		{"nil salt", valid, nil},
		{"short salt", valid, bytes.Repeat([]byte{0x01}, 15)},
		{"all-zero salt", valid, make([]byte, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeyring(tt.master, tt.salt)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
		})
	}
}

func TestNewKeyringRejectsBadVersion(t *testing.T) {
	_, err := NewKeyring(testMaster, testSalt, WithKeyVersion(0))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestKeyringDerivationIsDeterministic(t *testing.T) {
	a, err := NewKeyring(testMaster, testSalt)
	require.NoError(t, err)
	b, err := NewKeyring(testMaster, testSalt)
	require.NoError(t, err)

	assert.Equal(t, a.encKey(), b.encKey())
	assert.Equal(t, a.hmacKey(), b.hmacKey())
}

func TestKeyringKeysAreIndependent(t *testing.T) {
	k, err := NewKeyring(testMaster, testSalt)
	require.NoError(t, err)

	assert.NotEqual(t, k.encKey(), k.hmacKey())
}

func TestKeyringSaltChangesBothKeys(t *testing.T) {
	a, err := NewKeyring(testMaster, testSalt)
	require.NoError(t, err)
	b, err := NewKeyring(testMaster, bytes.Repeat([]byte{0x7F}, 16))
	require.NoError(t, err)

	assert.NotEqual(t, a.encKey(), b.encKey())
	assert.NotEqual(t, a.hmacKey(), b.hmacKey())
}

func TestKeyringDefaultVersion(t *testing.T) {
	k, err := NewKeyring(testMaster, testSalt)
	require.NoError(t, err)
	assert.Equal(t, 1, k.KeyVersion())

	k, err = NewKeyring(testMaster, testSalt, WithKeyVersion(4))
	require.NoError(t, err)
	assert.Equal(t, 4, k.KeyVersion())
}

type staticProvider struct {
	master, salt []byte
	err          error
}

func (p staticProvider) Material(context.Context) ([]byte, []byte, error) {
	return p.master, p.salt, p.err
}

func TestNewKeyringFromProvider(t *testing.T) {
	k, err := NewKeyringFromProvider(context.Background(), staticProvider{
		master: testMaster,
		salt:   testSalt,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, k.KeyVersion())
}

func TestNewKeyringFromProviderFailure(t *testing.T) {
	_, err := NewKeyringFromProvider(context.Background(), staticProvider{
		err: errors.New("vault sealed"),
	})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))

	_, err = NewKeyringFromProvider(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}
