package surgdb

import (
	"fmt"

	"github.com/hengadev/errsx"

	"github.com/pdsykes2512/surg-db-sub005/internal/docpath"
)

// EncryptDocument walks the paths declared in spec and replaces each
// sensitive leaf with its encrypted form, injecting a `<leaf>_hash` digest
// sibling for searchable rules. Undeclared fields pass through unchanged and
// the input document is never mutated.
//
// Declared leaves must be strings; nil leaves and absent paths are left
// alone. A leaf that already carries the encrypted marker is skipped, so a
// document can safely pass through the codec more than once during an import
// or migration window.
//
// Encryption is strict: any rule that cannot be applied fails the whole
// call. Writing a half-protected record would be worse than writing none.
func (e *Engine) EncryptDocument(doc map[string]any, spec *FieldSpec) (map[string]any, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: field spec is required", ErrConfiguration)
	}

	out := copyDocument(doc)
	var errs errsx.Map

	for _, rule := range spec.Rules() {
		walkErr := docpath.Visit(out, rule.Path, func(parent map[string]any, key string) error {
			leaf := parent[key]
			if leaf == nil || IsEncryptedValue(leaf) {
				return nil
			}
			plaintext, ok := leaf.(string)
			if !ok {
				errs.Set(rule.Path, fmt.Errorf("leaf is %T, only string fields can be encrypted", leaf))
				return nil
			}

			value, err := e.EncryptValue([]byte(plaintext))
			if err != nil {
				errs.Set(rule.Path, err)
				return nil
			}
			parent[key] = value.asDocument()
			if rule.Searchable {
				parent[key+HashFieldSuffix] = e.SearchHash(rule.Kind, plaintext)
			}
			return nil
		})
		if walkErr != nil {
			errs.Set(rule.Path, walkErr)
		}
	}

	if !errs.IsEmpty() {
		return nil, fmt.Errorf("encrypt document: %w", errs.AsError())
	}
	return out, nil
}

// DecryptDocument reverses EncryptDocument: each encrypted leaf is replaced
// with its plaintext and digest siblings are dropped. The input is never
// mutated.
//
// By default a field that fails to decrypt (corruption, legacy format, wrong
// key generation) is replaced with the unavailable marker and reported in
// the returned error, while the rest of the record stays readable: the
// returned document is always usable when it is non-nil. With
// WithStrictDecrypt the first failing field aborts the whole call instead.
func (e *Engine) DecryptDocument(stored map[string]any, spec *FieldSpec) (map[string]any, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: field spec is required", ErrConfiguration)
	}

	out := copyDocument(stored)
	var errs errsx.Map

	for _, rule := range spec.Rules() {
		// Digest siblings are dropped on their own path so an orphaned
		// `<leaf>_hash` with no `<leaf>` never leaks into the plaintext view.
		_ = docpath.Visit(out, rule.Path+HashFieldSuffix, func(parent map[string]any, key string) error {
			delete(parent, key)
			return nil
		})

		walkErr := docpath.Visit(out, rule.Path, func(parent map[string]any, key string) error {
			leaf := parent[key]
			if leaf == nil {
				return nil
			}

			value, err := encryptedValueFromDocument(leaf)
			var plaintext []byte
			if err == nil {
				plaintext, err = e.DecryptValue(value)
			}
			if err != nil {
				if e.strict {
					return fmt.Errorf("field %q: %w", rule.Path, err)
				}
				errs.Set(rule.Path, err)
				parent[key] = e.marker
				return nil
			}
			parent[key] = string(plaintext)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("decrypt document: %w", walkErr)
		}
	}

	if !errs.IsEmpty() {
		return out, fmt.Errorf("decrypt document: %w", errs.AsError())
	}
	return out, nil
}

// copyDocument deep-copies the map/slice spine of a document. Scalar leaves
// are shared, which is safe: the codec only ever replaces leaves, never
// mutates them.
func copyDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	return deepCopy(doc).(map[string]any)
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, child := range t {
			m[k] = deepCopy(child)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, child := range t {
			s[i] = deepCopy(child)
		}
		return s
	default:
		return v
	}
}
