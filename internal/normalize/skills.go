package normalize

import (
	"regexp"
	"strings"
	"sync"
)

var (
	skillReMu    sync.Mutex
	skillReCache = map[string]*regexp.Regexp{}
)

func skillPattern(skill string) *regexp.Regexp {
	skillReMu.Lock()
	defer skillReMu.Unlock()
	if re, ok := skillReCache[skill]; ok {
		return re
	}
	// explicit non-word boundaries so "Go" never fires on "Google",
	// while entries ending in symbols ("C++", "C#") still match; \b
	// after a quoted "+" or "#" would demand a word char and never hit
	re := regexp.MustCompile(`(?i)(?:^|\W)` + regexp.QuoteMeta(skill) + `(?:\W|$)`)
	skillReCache[skill] = re
	return re
}

// ExtractSkills scans free text against the configured vocabulary and
// returns the matched terms (vocabulary casing, vocabulary order, no
// duplicates).
func ExtractSkills(text string, vocab []string) []string {
	if text == "" || len(vocab) == 0 {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, skill := range vocab {
		skill = strings.TrimSpace(skill)
		if skill == "" || seen[strings.ToLower(skill)] {
			continue
		}
		if skillPattern(skill).MatchString(text) {
			seen[strings.ToLower(skill)] = true
			out = append(out, skill)
		}
	}
	return out
}

// CleanText collapses whitespace, including non-breaking spaces that
// scraped HTML tends to carry.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
