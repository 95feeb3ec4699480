package surgdb

import (
	"fmt"
	"os"
	"strings"

	"github.com/hengadev/errsx"
	"gopkg.in/yaml.v3"
)

// FieldRule declares one sensitive leaf within a record schema.
type FieldRule struct {
	// Path is the dotted location of the leaf, e.g. "nhs_number" or
	// "demographics.postcode". A segment that lands on an array applies to
	// every element.
	Path string `yaml:"path"`

	// Kind selects the normalization applied before hashing.
	Kind FieldKind `yaml:"kind"`

	// Searchable controls whether an unencrypted digest sibling
	// `<leaf>_hash` is maintained for equality lookup.
	Searchable bool `yaml:"searchable,omitempty"`
}

// FieldSpec is the single source of truth for which fields the document
// codec transforms: an explicit, versioned, auditable table of paths. It is
// declared up front (usually in a reviewed YAML file), never inferred from
// the shape of the data at runtime.
type FieldSpec struct {
	version int
	rules   []FieldRule
	byPath  map[string]FieldRule
}

// fieldSpecFile is the YAML document layout.
type fieldSpecFile struct {
	Version int         `yaml:"version"`
	Rules   []FieldRule `yaml:"rules"`
}

// NewFieldSpec validates the rule table and builds a FieldSpec. All
// validation failures are reported together, classified as ErrConfiguration.
func NewFieldSpec(version int, rules []FieldRule) (*FieldSpec, error) {
	var errs errsx.Map

	if version < 1 {
		errs.Set("version", fmt.Errorf("must be >= 1, got %d", version))
	}
	if len(rules) == 0 {
		errs.Set("rules", fmt.Errorf("at least one rule is required"))
	}

	rules = append([]FieldRule(nil), rules...)
	byPath := make(map[string]FieldRule, len(rules))
	for i := range rules {
		r := &rules[i]
		key := fmt.Sprintf("rule %q", r.Path)

		if r.Kind == "" {
			r.Kind = KindExact
		}
		if !r.Kind.valid() {
			errs.Set(key, fmt.Errorf("unknown kind %q", r.Kind))
		}
		if !validPath(r.Path) {
			errs.Set(key, fmt.Errorf("invalid path"))
			continue
		}
		if strings.HasSuffix(leafName(r.Path), HashFieldSuffix) {
			errs.Set(key, fmt.Errorf("leaf name must not end with %q", HashFieldSuffix))
		}
		if _, dup := byPath[r.Path]; dup {
			errs.Set(key, fmt.Errorf("duplicate path"))
			continue
		}
		byPath[r.Path] = *r
	}

	// A declared path must not be an ancestor of another declared path:
	// encrypting the parent would swallow the child before its own rule runs.
	for path := range byPath {
		for other := range byPath {
			if other != path && strings.HasPrefix(other, path+".") {
				errs.Set(fmt.Sprintf("rule %q", path), fmt.Errorf("conflicts with nested rule %q", other))
			}
		}
	}

	if !errs.IsEmpty() {
		return nil, fmt.Errorf("%w: field spec: %w", ErrConfiguration, errs.AsError())
	}

	return &FieldSpec{version: version, rules: rules, byPath: byPath}, nil
}

// ParseFieldSpec builds a FieldSpec from YAML bytes.
func ParseFieldSpec(data []byte) (*FieldSpec, error) {
	var file fieldSpecFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse field spec: %v", ErrConfiguration, err)
	}
	return NewFieldSpec(file.Version, file.Rules)
}

// LoadFieldSpec reads and validates a YAML field spec file.
func LoadFieldSpec(path string) (*FieldSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read field spec %q: %v", ErrConfiguration, path, err)
	}
	return ParseFieldSpec(data)
}

// Version returns the spec's declared version.
func (s *FieldSpec) Version() int { return s.version }

// Rules returns the declared rules in declaration order.
func (s *FieldSpec) Rules() []FieldRule { return s.rules }

// Rule looks up the rule declared for a dotted path.
func (s *FieldSpec) Rule(path string) (FieldRule, bool) {
	r, ok := s.byPath[path]
	return r, ok
}

// validPath accepts dotted sequences of identifier-like segments: each
// segment starts with a letter or underscore and continues with
// alphanumerics or underscores. This is deliberately the set of names that
// is safe to interpolate into a storage layer's path expression.
func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, seg := range strings.Split(path, ".") {
		if !validSegment(seg) {
			return false
		}
	}
	return true
}

func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
		} else if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

func leafName(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
