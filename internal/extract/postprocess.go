package extract

import (
	"regexp"
	"sort"
	"strings"
)

// preserved maps tokens whose symbols are part of their identity to their
// exact canonical spelling; these bypass character cleaning entirely.
var preserved = map[string]string{
	"c++":        "c++",
	"c#":         "c#",
	".net":       ".net",
	"asp.net":    "asp.net",
	"node.js":    "node.js",
	"next.js":    "next.js",
	"express.js": "express.js",
	"d3.js":      "d3.js",
	"three.js":   "three.js",
}

// cleanupAliases maps free-form variants to the same canonical direction the
// taxonomy uses: dotted form for node/next/express, bare name for react/vue.
var cleanupAliases = map[string]string{
	"nodejs":      "node.js",
	"react.js":    "react",
	"reactjs":     "react",
	"vue.js":      "vue",
	"vuejs":       "vue",
	"nextjs":      "next.js",
	"expressjs":   "express.js",
	"dotnet":      ".net",
	"c plus plus": "c++",
	"c sharp":     "c#",
	"csharp":      "c#",
}

var (
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	disallowedRe    = regexp.MustCompile(`[^\w\s.+#-]`)

	hasLetterRe    = regexp.MustCompile(`[a-z]`)
	onlyDigitsRe   = regexp.MustCompile(`^\d+$`)
	onlySymbolsRe  = regexp.MustCompile(`^\W+$`)
	manyDotsRe     = regexp.MustCompile(`\.{3,}`)
	manySpacesRe   = regexp.MustCompile(`\s{3,}`)
)

// cleanSkill normalizes a single free-form skill string. Preserved tokens and
// alias hits short-circuit before any character stripping.
func cleanSkill(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	if exact, ok := preserved[s]; ok {
		return exact
	}
	if canonical, ok := cleanupAliases[s]; ok {
		return canonical
	}

	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = disallowedRe.ReplaceAllString(s, "")
	s = strings.Trim(s, ".-")

	return s
}

// validSkill reports whether a cleaned skill string is a plausible skill.
func validSkill(s string) bool {
	if len(s) < 2 || len(s) > 50 {
		return false
	}
	if !hasLetterRe.MatchString(s) {
		return false
	}
	if onlyDigitsRe.MatchString(strings.ReplaceAll(s, " ", "")) {
		return false
	}
	if onlySymbolsRe.MatchString(s) {
		return false
	}
	if manyDotsRe.MatchString(s) || manySpacesRe.MatchString(s) {
		return false
	}
	return true
}

// PostProcess cleans, validates, deduplicates, and sorts a raw skill list.
// It is the shared free-form cleanup stage for both the LLM output and the
// merged union; the lexical strategies are already taxonomy-constrained but
// pass through unchanged. PostProcess is idempotent.
func PostProcess(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		cleaned := cleanSkill(r)
		if !validSkill(cleaned) {
			continue
		}
		seen[cleaned] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
