// Package docpath navigates dotted paths through nested JSON-style
// documents (map[string]any with []any arrays).
package docpath

import "strings"

// Visit calls fn once for every parent map that contains the terminal
// segment of path. Array values along the path fan out over their map
// elements, so "contacts.phone" reaches the phone field of every entry in a
// contacts array. Parents that do not contain the terminal segment are
// skipped silently; an absent field is not an error.
//
// Visit stops at the first error fn returns.
func Visit(doc map[string]any, path string, fn func(parent map[string]any, key string) error) error {
	return visit(doc, strings.Split(path, "."), fn)
}

func visit(node map[string]any, segments []string, fn func(map[string]any, string) error) error {
	key := segments[0]
	if len(segments) == 1 {
		if _, ok := node[key]; !ok {
			return nil
		}
		return fn(node, key)
	}
	child, ok := node[key]
	if !ok {
		return nil
	}
	return descend(child, segments[1:], fn)
}

func descend(child any, rest []string, fn func(map[string]any, string) error) error {
	switch c := child.(type) {
	case map[string]any:
		return visit(c, rest, fn)
	case []any:
		for _, el := range c {
			if err := descend(el, rest, fn); err != nil {
				return err
			}
		}
		return nil
	default:
		// Scalar mid-path: the declared path does not exist in this record.
		return nil
	}
}

// Get returns the first value reachable at path, or false if no parent
// contains the terminal segment.
func Get(doc map[string]any, path string) (any, bool) {
	var out any
	found := false
	_ = Visit(doc, path, func(parent map[string]any, key string) error {
		if !found {
			out = parent[key]
			found = true
		}
		return nil
	})
	return out, found
}
