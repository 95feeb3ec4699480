package surgdb

const (
	// MinMasterKeyLength is the minimum length in bytes of the master secret.
	// 32 bytes gives the full AES-256 security margin after derivation.
	MinMasterKeyLength = 32

	// MinSaltLength is the minimum length in bytes of the derivation salt.
	MinSaltLength = 16

	// NonceLength is the AES-GCM nonce length in bytes.
	NonceLength = 12

	// TagLength is the AES-GCM authentication tag length in bytes.
	TagLength = 16

	// HashFieldSuffix is appended to a searchable field's name to form the
	// sibling that carries the unencrypted digest. Only the sibling should
	// carry a database index.
	HashFieldSuffix = "_hash"

	// DefaultUnavailableMarker replaces a field that could not be decrypted
	// when the engine is not in strict mode.
	DefaultUnavailableMarker = "[unavailable]"

	// DefaultBackfillBatchSize bounds how many records a backfill run reads
	// per batch when the caller passes a non-positive batch size.
	DefaultBackfillBatchSize = 500
)

// HKDF info strings. Distinct strings keep the derived keys independent; a
// compromise of one must not yield the other.
const (
	infoFieldEncryption = "surgdb/field-encryption/v1"
	infoSearchHash      = "surgdb/search-hash/v1"
)
