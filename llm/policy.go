package llm

import (
	"fmt"
	"strings"
)

// InclusionPolicy decides whether an optional setting reaches the backend request.
type InclusionPolicy int

const (
	// OmitFalsy drops unset values and also zero, false and empty values.
	// An explicit 0 or false is indistinguishable from "not set".
	OmitFalsy InclusionPolicy = iota
	// OmitAbsent drops only unset (nil) values, so explicit zeros are sent.
	OmitAbsent
)

// String returns the policy name.
func (p InclusionPolicy) String() string {
	switch p {
	case OmitFalsy:
		return "falsy"
	case OmitAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ParseInclusionPolicy parses a policy name (case-insensitive). Empty means OmitFalsy.
func ParseInclusionPolicy(s string) (InclusionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "falsy", "omit-falsy":
		return OmitFalsy, nil
	case "absent", "omit-absent", "presence":
		return OmitAbsent, nil
	default:
		return 0, fmt.Errorf("unknown inclusion policy: %q", s)
	}
}

// pick returns the value behind v and whether the policy keeps it.
func pick[T comparable](p InclusionPolicy, v *T) (T, bool) {
	var zero T
	if v == nil {
		return zero, false
	}
	if p == OmitFalsy && *v == zero {
		return zero, false
	}
	return *v, true
}

// keepSlice reports whether a slice setting is kept.
func keepSlice[T any](p InclusionPolicy, v []T) bool {
	if v == nil {
		return false
	}
	return p == OmitAbsent || len(v) > 0
}

// keepMap reports whether a map setting is kept.
func keepMap[K comparable, V any](p InclusionPolicy, v map[K]V) bool {
	if v == nil {
		return false
	}
	return p == OmitAbsent || len(v) > 0
}
