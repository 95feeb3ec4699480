package surgdb

import "fmt"

// SearchQuery is a ready-to-use equality filter on a field's digest sibling.
// Handing this to the storage layer gives an indexed O(log n) lookup of an
// encrypted field's exact value; the alternative is decrypting and comparing
// every record.
type SearchQuery struct {
	// HashField is the dotted path of the digest sibling, e.g.
	// "nhs_number_hash".
	HashField string

	// Digest is the hex digest of the normalized plaintext.
	Digest string
}

// Filter renders the query as a document filter for find-by-filter storage
// APIs.
func (q *SearchQuery) Filter() map[string]any {
	return map[string]any{q.HashField: q.Digest}
}

// BuildSearchQuery normalizes and hashes plaintext for the named field and
// returns the equality filter to run against `<field>_hash`. The field must
// be declared searchable in spec; anything else fails with ErrUnknownField
// rather than silently producing a filter that can never match.
func (e *Engine) BuildSearchQuery(spec *FieldSpec, field, plaintext string) (*SearchQuery, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: field spec is required", ErrConfiguration)
	}
	rule, ok := spec.Rule(field)
	if !ok || !rule.Searchable {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return &SearchQuery{
		HashField: field + HashFieldSuffix,
		Digest:    e.SearchHash(rule.Kind, plaintext),
	}, nil
}
