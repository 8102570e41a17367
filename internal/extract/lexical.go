// Package extract implements the hybrid skill-extraction pipeline: three
// rule-based lexical strategies, a free-form post-processor, and the
// orchestrator that merges them with the LLM extractor.
package extract

import (
	"regexp"
	"strings"

	"github.com/minhvu/skillgap/internal/taxonomy"
)

// keywordPatterns holds one whole-word pattern per taxonomy entry, compiled
// once at package init.
var keywordPatterns = buildKeywordPatterns()

func buildKeywordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, taxonomy.All().Len())
	for skill := range taxonomy.All() {
		patterns[skill] = regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`)
	}
	return patterns
}

// KeywordScan finds taxonomy entries appearing as standalone tokens in the
// text. Matching is per distinct entry, so "java" and "javascript" can both
// match independently when each is literally present as its own token.
func KeywordScan(text string) taxonomy.Set {
	lower := strings.ToLower(text)
	found := make(taxonomy.Set)
	for skill, pattern := range keywordPatterns {
		if pattern.MatchString(lower) {
			found.Add(taxonomy.Normalize(skill))
		}
	}
	return found
}

var (
	sectionHeaderRe = regexp.MustCompile(`(?i)^(?:(?:technical\s+)?skills?|competencies|expertise|technologies)\s*:?\s*$`)

	// A capitalized line ending in a colon terminates a skills block.
	blockEndRe = regexp.MustCompile(`^[A-Z][^:]*:`)

	sectionSplitRe = regexp.MustCompile(`[,•\n|;]`)
)

const (
	minItemLen = 2
	maxItemLen = 50
)

// SectionScan locates labeled skill sections ("Skills", "Competencies",
// "Expertise", "Technologies") and parses their delimited contents. Items are
// kept only when their normalized or raw lowercase form is in the taxonomy.
func SectionScan(text string) taxonomy.Set {
	found := make(taxonomy.Set)
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		if !sectionHeaderRe.MatchString(strings.TrimSpace(lines[i])) {
			continue
		}

		// Collect the block until the next capitalized header line or EOF.
		var block []string
		for j := i + 1; j < len(lines); j++ {
			if blockEndRe.MatchString(lines[j]) {
				break
			}
			block = append(block, lines[j])
		}

		for _, item := range sectionSplitRe.Split(strings.Join(block, "\n"), -1) {
			item = strings.Trim(item, " \t•-–*")
			if len(item) < minItemLen || len(item) > maxItemLen {
				continue
			}
			lower := strings.ToLower(item)
			normalized := taxonomy.Normalize(lower)
			if taxonomy.All().Contains(normalized) || taxonomy.All().Contains(lower) {
				found.Add(normalized)
			}
		}
	}

	return found
}

var (
	contextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:experience|proficient|skilled|knowledge|expertise|familiar)\s+(?:with|in)\s+([^.;:\n]+)`),
		regexp.MustCompile(`(?i)(?:technologies|tools|languages)\s*:?\s*([^.;:\n]+)`),
		regexp.MustCompile(`(?i)(?:strong|good|excellent)\s+(?:knowledge|understanding)\s+of\s+([^.;:\n]+)`),
		regexp.MustCompile(`(?i)(?:working\s+)?(?:knowledge|experience)\s+(?:of|in|with)\s+([^.;:\n]+)`),
	}

	contextSplitRe = regexp.MustCompile(`[,;&]`)
)

// ContextScan finds skills introduced by cue phrases ("experience with ...",
// "strong knowledge of ..."). Containment here is substring, not whole-word:
// partial matches inside longer words are an accepted recall tradeoff.
func ContextScan(text string) taxonomy.Set {
	found := make(taxonomy.Set)

	for _, pattern := range contextPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			for _, fragment := range contextSplitRe.Split(match[1], -1) {
				fragment = strings.ToLower(strings.TrimSpace(fragment))
				if len(fragment) < minItemLen {
					continue
				}
				for skill := range taxonomy.All() {
					if strings.Contains(fragment, skill) {
						found.Add(taxonomy.Normalize(skill))
					}
				}
			}
		}
	}

	return found
}
