package surgdb

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SearchHash computes the deterministic keyed digest of a plaintext after
// normalizing it for the given kind: lowercase hex HMAC-SHA256 under the
// hash key. The same logical value always produces the same digest, which is
// what makes an equality index possible, and nobody without the hash key can
// precompute digests offline.
//
// Equality matching only. Never use the digest for prefix, substring, or
// range queries; it carries no ordering information by design constraint.
func (e *Engine) SearchHash(kind FieldKind, plaintext string) string {
	h := hmac.New(sha256.New, e.keyring.hmacKey())
	h.Write([]byte(Normalize(kind, plaintext)))
	return hex.EncodeToString(h.Sum(nil))
}
