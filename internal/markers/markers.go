package markers

import (
	"fmt"
	"sort"
	"strings"
)

// Kind represents the kind of preparation marker attached to a fixture member
type Kind int

const (
	Unknown Kind = iota
	Spy
	Mock
	Captor
	Inject
)

// String returns the string representation of the marker kind
func (k Kind) String() string {
	switch k {
	case Spy:
		return "spy"
	case Mock:
		return "mock"
	case Captor:
		return "captor"
	case Inject:
		return "inject"
	default:
		return "unknown"
	}
}

// ParseKind converts a tag ident to a marker Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "spy":
		return Spy, nil
	case "mock":
		return Mock, nil
	case "captor":
		return Captor, nil
	case "inject":
		return Inject, nil
	default:
		return Unknown, fmt.Errorf("unknown marker kind: %s", s)
	}
}

// Set is the closed set of markers present on one fixture member.
// It is read-only for the duration of a preparation pass.
type Set struct {
	kinds map[Kind]struct{}
}

// NewSet creates a Set containing the given marker kinds
func NewSet(kinds ...Kind) Set {
	s := Set{kinds: make(map[Kind]struct{}, len(kinds))}
	for _, k := range kinds {
		s.kinds[k] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the given marker kind
func (s Set) Has(k Kind) bool {
	_, ok := s.kinds[k]
	return ok
}

// IsEmpty reports whether the member carries no markers at all
func (s Set) IsEmpty() bool {
	return len(s.kinds) == 0
}

// Kinds returns the contained marker kinds in a stable order
func (s Set) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s.kinds))
	for k := range s.kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// String returns the comma-separated tag form of the set
func (s Set) String() string {
	names := make([]string, 0, len(s.kinds))
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ",")
}
