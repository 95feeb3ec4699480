package surgdb

import (
	"strings"
	"unicode"
)

// FieldKind selects the canonicalization applied to a field's plaintext
// before hashing, so equivalent representations of the same logical value
// produce the same digest. Use the same kind on write and on search; mixing
// kinds breaks lookups.
type FieldKind string

const (
	// KindIdentifier keeps ASCII digits only. "123 456 7890" and
	// "1234567890" hash identically.
	KindIdentifier FieldKind = "identifier"

	// KindPostcode uppercases and removes all whitespace. "sw1a 1aa" and
	// "SW1A1AA" hash identically.
	KindPostcode FieldKind = "postcode"

	// KindName lowercases, trims, and collapses interior whitespace runs.
	KindName FieldKind = "name"

	// KindDate trims surrounding whitespace only. Dates are expected to be
	// stored in one canonical layout already.
	KindDate FieldKind = "date"

	// KindExact is the identity normalization (case-sensitive exact match).
	KindExact FieldKind = "exact"
)

func (k FieldKind) valid() bool {
	switch k {
	case KindIdentifier, KindPostcode, KindName, KindDate, KindExact:
		return true
	}
	return false
}

// Normalize returns the canonical form of s for the given kind. Unknown
// kinds fall back to the identity form; FieldSpec validation rejects them
// before they reach this point.
func Normalize(kind FieldKind, s string) string {
	switch kind {
	case KindIdentifier:
		var digits strings.Builder
		digits.Grow(len(s))
		for _, r := range s {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		return digits.String()
	case KindPostcode:
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if unicode.IsSpace(r) {
				continue
			}
			b.WriteRune(unicode.ToUpper(r))
		}
		return b.String()
	case KindName:
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	case KindDate:
		return strings.TrimSpace(s)
	default:
		return s
	}
}
