package value

import (
	"fmt"
	"regexp"
	"strings"
)

// builtinSelectors maps function selectors seen in counterexamples to their names.
var builtinSelectors = map[string]string{
	"0xbb4fc585": "openMakerPosition",
	"0xc2430c39": "closeMakerPosition",
	"0x57823864": "openTakerPosition",
	"0x09ca4bb8": "closeTakerPosition",
	"0xcdddd4e5": "liquidatePosition",
}

var selectorKey = regexp.MustCompile(`^0x[0-9a-f]{8}$`)

// Selectors is an immutable selector-to-name lookup.
type Selectors struct {
	names map[string]string
}

// BuiltinSelectors returns the built-in table.
func BuiltinSelectors() Selectors {
	return Selectors{names: builtinSelectors}
}

// WithExtra returns a table combining s with extra. Entries in extra take precedence. Keys are
// case-insensitive and must be 0x followed by 8 hex digits.
func (s Selectors) WithExtra(extra map[string]string) (Selectors, error) {
	if len(extra) == 0 {
		return s, nil
	}
	merged := make(map[string]string, len(s.names)+len(extra))
	for k, v := range s.names {
		merged[k] = v
	}
	for k, v := range extra {
		key := strings.ToLower(strings.TrimSpace(k))
		if !selectorKey.MatchString(key) {
			return Selectors{}, fmt.Errorf("invalid selector %q (expected 0x followed by 8 hex digits)", k)
		}
		name := strings.TrimSpace(v)
		if name == "" {
			return Selectors{}, fmt.Errorf("selector %s has an empty name", key)
		}
		merged[key] = name
	}
	return Selectors{names: merged}, nil
}

// Lookup returns the function name for a 0x-prefixed 8-digit lowercase selector.
func (s Selectors) Lookup(selector string) (string, bool) {
	name, ok := s.names[selector]
	return name, ok
}

// Len returns the number of known selectors.
func (s Selectors) Len() int {
	return len(s.names)
}
