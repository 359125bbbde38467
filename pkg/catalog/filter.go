package catalog

import (
	"slices"
	"strings"

	"github.com/matzehuels/labindex/pkg/integrations/github"
)

// NameSet is a set of repository names.
type NameSet map[string]struct{}

// NewNameSet builds a set from names, skipping blank entries.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// ParseNameSet splits a comma-separated list such as "lab1, lab2,,lab3".
func ParseNameSet(list string) NameSet {
	return NewNameSet(strings.Split(list, ",")...)
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set's members in sorted order.
func (s NameSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Filter returns the repositories, in input order, whose names pass the
// allow and block sets. An empty allow set admits every name; a name in
// block is always excluded, even when it is also allowed.
func Filter(repos []github.Repo, allow, block NameSet) []github.Repo {
	out := make([]github.Repo, 0, len(repos))
	for _, r := range repos {
		if len(allow) > 0 && !allow.Has(r.Name) {
			continue
		}
		if block.Has(r.Name) {
			continue
		}
		out = append(out, r)
	}
	return out
}
