// Package labels implements the equality-based label selector used by the
// store's list verb.
//
// Only conjunctive "key=value" clauses are supported. Set-based operators
// (in, notin, !=) and existence checks are NOT supported; clauses without
// an "=" are silently ignored rather than rejected.
package labels

import (
	"sort"
	"strings"
)

// Selector is a parsed conjunctive equality filter over a label mapping.
type Selector struct {
	requirements map[string]string
	matchAll     bool
}

// Everything returns a selector that matches every resource.
func Everything() Selector {
	return Selector{matchAll: true}
}

// Parse parses a comma-separated list of "key=value" clauses. Whitespace
// around keys and values is trimmed. An empty (or all-whitespace) input
// matches everything. Malformed clauses contribute no filtering.
func Parse(selector string) Selector {
	if strings.TrimSpace(selector) == "" {
		return Everything()
	}

	requirements := make(map[string]string)
	for _, clause := range strings.Split(selector, ",") {
		key, value, ok := strings.Cut(clause, "=")
		if !ok {
			continue
		}
		requirements[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return Selector{requirements: requirements}
}

// Empty reports whether the selector was parsed from an empty input and
// therefore matches everything.
func (s Selector) Empty() bool { return s.matchAll }

// Matches reports whether the given label mapping satisfies the selector.
// A non-empty selector never matches a resource without a labels mapping,
// even when every parsed clause was malformed.
func (s Selector) Matches(labels map[string]string) bool {
	if s.matchAll {
		return true
	}
	if labels == nil {
		return false
	}
	for key, value := range s.requirements {
		if labels[key] != value {
			return false
		}
	}
	return true
}

// String reconstructs a canonical "k=v,k2=v2" form with sorted keys.
func (s Selector) String() string {
	if s.matchAll {
		return ""
	}
	keys := make([]string, 0, len(s.requirements))
	for k := range s.requirements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	for _, k := range keys {
		clauses = append(clauses, k+"="+s.requirements[k])
	}
	return strings.Join(clauses, ",")
}
