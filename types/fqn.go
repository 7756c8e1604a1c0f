package types

import (
	"fmt"
	"regexp"
)

// DefaultNamespace is used wherever a spec or reference omits an explicit
// namespace.
const DefaultNamespace = "default"

// fqnRegexp matches `[namespace.]name[+aggr_fn]` where the identifiers are
// lower-snake names that start and end with an alphanumeric character.
var fqnRegexp = regexp.MustCompile(
	`^(?:(?P<namespace>[a-z0-9](?:[a-z0-9_]*[a-z0-9])?)\.)?` +
		`(?P<name>[a-z0-9](?:[a-z0-9_]*[a-z0-9])?)` +
		`(?:\+(?P<aggrFn>[a-z](?:[a-z_]*[a-z])?))?$`)

// FQN is the parsed form of a fully-qualified name.
type FQN struct {
	Namespace string
	Name      string
	AggrFn    AggregationFunction
}

// ParseFQN splits a fully-qualified name into its parts. The namespace and
// aggregation suffix are optional; the aggregation suffix, when present,
// must be a known aggregation function.
func ParseFQN(s string) (FQN, error) {
	m := fqnRegexp.FindStringSubmatch(s)
	if m == nil {
		return FQN{}, fmt.Errorf("invalid fqn %q", s)
	}
	out := FQN{
		Namespace: m[fqnRegexp.SubexpIndex("namespace")],
		Name:      m[fqnRegexp.SubexpIndex("name")],
	}
	if suffix := m[fqnRegexp.SubexpIndex("aggrFn")]; suffix != "" {
		fn, err := ParseAggregationFunction(suffix)
		if err != nil {
			return FQN{}, fmt.Errorf("invalid fqn %q: %w", s, err)
		}
		out.AggrFn = fn
	}
	return out, nil
}

// String reassembles the canonical form of the FQN.
func (f FQN) String() string {
	s := f.Name
	if f.Namespace != "" {
		s = f.Namespace + "." + s
	}
	if f.AggrFn != "" && f.AggrFn != AggrUnknown {
		s += "+" + string(f.AggrFn)
	}
	return s
}

// BaseFQN returns the FQN without any aggregation suffix.
func (f FQN) BaseFQN() string {
	base := f
	base.AggrFn = ""
	return base.String()
}

// NormalizeFQN parses s and fills in defaultNamespace when s carries no
// namespace of its own. Normalization is deterministic: the same input and
// default always produce the same canonical string.
func NormalizeFQN(s, defaultNamespace string) (string, error) {
	f, err := ParseFQN(s)
	if err != nil {
		return "", err
	}
	if f.Namespace == "" {
		if defaultNamespace == "" {
			defaultNamespace = DefaultNamespace
		}
		f.Namespace = defaultNamespace
	}
	return f.String(), nil
}
