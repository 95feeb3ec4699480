// Package hashicorpvault supplies master secret material from a HashiCorp
// Vault KV v2 secret.
//
// The client is configured from the standard environment: VAULT_ADDR,
// VAULT_TOKEN or VAULT_ROLE_ID/VAULT_SECRET_ID for AppRole login, and
// VAULT_NAMESPACE for HCP Vault.
package hashicorpvault

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"github.com/hashicorp/vault/api"
)

// Secret field names inside the KV entry.
const (
	masterKeyField = "master_key"
	saltField      = "salt"
)

// Config locates the KV v2 secret holding the material.
type Config struct {
	// Mount is the KV v2 mount path. Defaults to "secret".
	Mount string

	// Path is the secret path under the mount, e.g. "surgdb/keys".
	Path string
}

// kvReader is the slice of the Vault KV v2 API the provider uses.
type kvReader interface {
	Get(ctx context.Context, secretPath string) (*api.KVSecret, error)
}

// Provider implements surgdb.SecretProvider over Vault KV v2.
type Provider struct {
	kv  kvReader
	cfg Config
}

// New builds the Vault client from the environment and authenticates with
// AppRole when VAULT_ROLE_ID/VAULT_SECRET_ID are present.
func New(cfg Config) (*Provider, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("vault secret path is required")
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}

	clientConfig := api.DefaultConfig()
	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		clientConfig.Address = addr
	}
	clientConfig.HttpClient.Transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create Vault client: %w", err)
	}

	if namespace := os.Getenv("VAULT_NAMESPACE"); namespace != "" {
		client.SetNamespace(namespace)
	}

	roleID := os.Getenv("VAULT_ROLE_ID")
	secretID := os.Getenv("VAULT_SECRET_ID")
	if roleID != "" && secretID != "" {
		resp, err := client.Logical().Write("auth/approle/login", map[string]interface{}{
			"role_id":   roleID,
			"secret_id": secretID,
		})
		if err != nil {
			return nil, fmt.Errorf("AppRole login: %w", err)
		}
		if resp.Auth == nil {
			return nil, fmt.Errorf("AppRole login returned no auth info")
		}
		client.SetToken(resp.Auth.ClientToken)
	}

	return &Provider{kv: client.KVv2(cfg.Mount), cfg: cfg}, nil
}

// Material reads the master key and salt from the KV entry. Both fields are
// stored base64-encoded.
func (p *Provider) Material(ctx context.Context) ([]byte, []byte, error) {
	secret, err := p.kv.Get(ctx, p.cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s/%s: %w", p.cfg.Mount, p.cfg.Path, err)
	}

	master, err := fieldBytes(secret.Data, masterKeyField)
	if err != nil {
		return nil, nil, err
	}
	salt, err := fieldBytes(secret.Data, saltField)
	if err != nil {
		return nil, nil, err
	}
	return master, salt, nil
}

func fieldBytes(data map[string]interface{}, field string) ([]byte, error) {
	raw, ok := data[field].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("secret field %q is missing or empty", field)
	}
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("secret field %q is not valid base64: %w", field, err)
	}
	return b, nil
}
