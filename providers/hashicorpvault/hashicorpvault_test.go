package hashicorpvault

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockKV struct {
	secret  *api.KVSecret
	err     error
	sawPath string
}

func (m *mockKV) Get(ctx context.Context, secretPath string) (*api.KVSecret, error) {
	m.sawPath = secretPath
	if m.err != nil {
		return nil, m.err
	}
	return m.secret, nil
}

func kvSecret(master, salt []byte) *api.KVSecret {
	return &api.KVSecret{Data: map[string]interface{}{
		masterKeyField: base64.StdEncoding.EncodeToString(master),
		saltField:      base64.StdEncoding.EncodeToString(salt),
	}}
}

func TestMaterialReadsSecret(t *testing.T) {
	master := []byte("surgdb-test-master-key-material!")
	salt := []byte("surgdb-test-salt")
	kv := &mockKV{secret: kvSecret(master, salt)}
	p := &Provider{kv: kv, cfg: Config{Mount: "secret", Path: "surgdb/keys"}}

	gotMaster, gotSalt, err := p.Material(context.Background())
	require.NoError(t, err)
	assert.Equal(t, master, gotMaster)
	assert.Equal(t, salt, gotSalt)
	assert.Equal(t, "surgdb/keys", kv.sawPath)
}

func TestMaterialReadFailure(t *testing.T) {
	p := &Provider{
		kv:  &mockKV{err: errors.New("permission denied")},
		cfg: Config{Mount: "secret", Path: "surgdb/keys"},
	}

	_, _, err := p.Material(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret/surgdb/keys")
}

func TestMaterialMissingField(t *testing.T) {
	kv := &mockKV{secret: &api.KVSecret{Data: map[string]interface{}{
		masterKeyField: base64.StdEncoding.EncodeToString([]byte("master")),
	}}}
	p := &Provider{kv: kv, cfg: Config{Mount: "secret", Path: "surgdb/keys"}}

	_, _, err := p.Material(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), saltField)
}

func TestFieldBytes(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		want    []byte
		wantErr bool
	}{
		{"valid base64", map[string]interface{}{"k": base64.StdEncoding.EncodeToString([]byte("material"))}, []byte("material"), false},
		{"missing field", map[string]interface{}{}, nil, true},
		{"empty value", map[string]interface{}{"k": ""}, nil, true},
		{"non-string value", map[string]interface{}{"k": 42}, nil, true},
		{"invalid base64", map[string]interface{}{"k": "not!base64!"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fieldBytes(tt.data, "k")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
