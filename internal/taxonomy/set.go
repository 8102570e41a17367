package taxonomy

import "sort"

// Set is a collection of canonical skill strings. Elements are assumed to be
// normalized; use NormalizeList to build one from raw input.
type Set map[string]struct{}

// NewSet returns a Set containing the given already-canonical skills.
func NewSet(skills ...string) Set {
	return newSet(skills...)
}

func newSet(skills ...string) Set {
	s := make(Set, len(skills))
	for _, sk := range skills {
		s[sk] = struct{}{}
	}
	return s
}

// Contains reports whether the set holds the given skill.
func (s Set) Contains(skill string) bool {
	_, ok := s[skill]
	return ok
}

// Add inserts a skill into the set.
func (s Set) Add(skill string) {
	s[skill] = struct{}{}
}

// Union returns a new set with every element of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Intersect returns a new set with the elements present in both s and other.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for k := range s {
		if other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Diff returns a new set with the elements of s that are not in other.
func (s Set) Diff(other Set) Set {
	out := make(Set)
	for k := range s {
		if !other.Contains(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the elements in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of elements.
func (s Set) Len() int {
	return len(s)
}

// Join returns the sorted elements joined by sep.
func (s Set) Join(sep string) string {
	sorted := s.Sorted()
	out := ""
	for i, v := range sorted {
		if i > 0 {
			out += sep
		}
		out += v
	}
	return out
}
