// Package surgdb implements field-level encryption with searchable hash
// indexing for clinical record stores.
//
// Sensitive scalar fields (health identifiers, record numbers, dates of
// birth, postcodes, names) are encrypted with AES-256-GCM before they reach
// storage, so the database never sees plaintext. Fields that must remain
// queryable by exact match carry an unencrypted sibling `<field>_hash`
// holding a keyed HMAC-SHA256 digest of the normalized plaintext. Equality
// lookups go through the hash sibling; the ciphertext itself is never
// compared.
//
// Two keys are derived from a single piece of master secret material using
// HKDF-SHA256 with distinct info strings, so the encryption key and the hash
// key are cryptographically independent.
//
// # Basic usage
//
//	master, salt := loadSecretMaterial()
//	keyring, err := surgdb.NewKeyring(master, salt)
//	if err != nil {
//	    log.Fatal(err) // refuse to start without valid key material
//	}
//	engine, err := surgdb.New(keyring)
//
//	spec, err := surgdb.LoadFieldSpec("fieldspec.yaml")
//	stored, err := engine.EncryptDocument(patient, spec)
//	view, err := engine.DecryptDocument(stored, spec)
//
// # Searching
//
// Callers never decrypt-and-compare. Build an equality filter instead:
//
//	q, err := engine.BuildSearchQuery(spec, "nhs_number", "123 456 7890")
//	records, err := store.Find(ctx, q)
//
// The query carries the digest of the normalized plaintext, so formatted and
// unformatted variants of the same identifier match the same records.
//
// # Which fields are sensitive
//
// Sensitivity is never inferred at runtime. A FieldSpec is an explicit,
// versioned table of dotted paths, each with a normalization kind and a
// searchable flag, typically loaded from a reviewed YAML file:
//
//	version: 3
//	rules:
//	  - {path: nhs_number, kind: identifier, searchable: true}
//	  - {path: demographics.postcode, kind: postcode, searchable: true}
//	  - {path: demographics.surname, kind: name}
//
// # Failure containment
//
// A single damaged field never blocks retrieval of the rest of a record:
// DecryptDocument replaces an undecryptable field with an unavailable marker
// and reports the per-field errors, unless the engine was built with
// WithStrictDecrypt. Tag verification failures are always surfaced as
// ErrIntegrity, never converted into plausible-looking plaintext.
package surgdb
