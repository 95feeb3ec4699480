// Package localsecret supplies master secret material from the process
// environment or local files, for deployments that mount secrets directly
// rather than calling a secret manager.
package localsecret

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Default environment variable names.
const (
	DefaultMasterEnv = "SURGDB_MASTER_KEY"
	DefaultSaltEnv   = "SURGDB_KEY_SALT"
)

// Config selects where the material comes from. File sources win over
// environment variables when both are set.
type Config struct {
	// EnvFile is an optional .env file loaded into the environment first.
	EnvFile string

	// MasterEnv and SaltEnv name environment variables holding hex-encoded
	// material. Defaults: SURGDB_MASTER_KEY, SURGDB_KEY_SALT.
	MasterEnv string
	SaltEnv   string

	// MasterFile and SaltFile name files holding raw bytes.
	MasterFile string
	SaltFile   string
}

// Provider implements surgdb.SecretProvider.
type Provider struct {
	cfg Config
}

// New builds a provider; material is not read until Material is called.
func New(cfg Config) *Provider {
	if cfg.MasterEnv == "" {
		cfg.MasterEnv = DefaultMasterEnv
	}
	if cfg.SaltEnv == "" {
		cfg.SaltEnv = DefaultSaltEnv
	}
	return &Provider{cfg: cfg}
}

// Material loads the master key and salt. Missing or empty material is an
// error; there is no generated fallback.
func (p *Provider) Material(ctx context.Context) ([]byte, []byte, error) {
	if p.cfg.EnvFile != "" {
		if err := godotenv.Load(p.cfg.EnvFile); err != nil {
			return nil, nil, fmt.Errorf("load env file %q: %w", p.cfg.EnvFile, err)
		}
	}

	master, err := p.load(p.cfg.MasterFile, p.cfg.MasterEnv)
	if err != nil {
		return nil, nil, fmt.Errorf("master key: %w", err)
	}
	salt, err := p.load(p.cfg.SaltFile, p.cfg.SaltEnv)
	if err != nil {
		return nil, nil, fmt.Errorf("salt: %w", err)
	}
	return master, salt, nil
}

func (p *Provider) load(file, envVar string) ([]byte, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if len(b) == 0 {
			return nil, fmt.Errorf("file %q is empty", file)
		}
		return b, nil
	}

	raw := strings.TrimSpace(os.Getenv(envVar))
	if raw == "" {
		return nil, fmt.Errorf("environment variable %s is not set", envVar)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid hex: %w", envVar, err)
	}
	return b, nil
}
