package surgdb

import "log/slog"

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithStrictDecrypt makes any per-field decryption failure fatal to the
// whole DecryptDocument call. The default is lenient: a damaged field is
// replaced with the unavailable marker and reported, and the rest of the
// record stays readable.
func WithStrictDecrypt() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// WithUnavailableMarker overrides the string that replaces a field which
// could not be decrypted in lenient mode.
func WithUnavailableMarker(marker string) Option {
	return func(e *Engine) {
		e.marker = marker
	}
}

// WithLogger sets the logger used by the backfill migrator for per-record
// failure reporting. Defaults to slog.Default(). The crypto paths themselves
// never log plaintext or key material.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
