package taxonomy

import "strings"

// Normalize returns the canonical form of a raw skill string: lowercased,
// trimmed, and resolved through the alias map. Unknown skills pass through
// unchanged; membership in the taxonomy is never required here.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}

// NormalizeList normalizes each non-empty element and deduplicates by
// canonical form. Empty strings are discarded.
func NormalizeList(raws []string) Set {
	out := make(Set, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		out.Add(Normalize(raw))
	}
	return out
}
