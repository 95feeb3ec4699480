package surgdb

import (
	"errors"
)

var (
	// Startup errors
	ErrConfiguration = errors.New("invalid configuration")

	// Per-field decryption errors
	ErrIntegrity = errors.New("integrity check failed")
	ErrFormat    = errors.New("value does not match encrypted encoding")

	// Query errors
	ErrUnknownField = errors.New("field is not declared searchable")

	// Storage collaborator errors
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// IsConfigurationError returns true if the error means the process was given
// missing or invalid key material or an invalid field spec. These are fatal
// at startup; there is no insecure fallback.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsIntegrityError returns true if the error means an authentication tag did
// not verify (tampered bytes or the wrong key).
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// IsFormatError returns true if the error means a stored value is not a
// structurally valid encrypted value, e.g. legacy plaintext encountered
// during a migration window.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsRetryableError returns true if the error represents a transient storage
// failure that might succeed on retry.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
