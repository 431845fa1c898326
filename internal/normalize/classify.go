package normalize

import (
	"strings"

	"jobscout-engine/internal/domain"
)

var (
	remoteKeywords = []string{"remote", "work from home", "telecommute"}
	hybridKeywords = []string{"hybrid", "flexible"}

	seniorKeywords = []string{"senior", "lead", "principal", "staff"}
	entryKeywords  = []string{"entry", "junior", "graduate", "new grad"}
	midKeywords    = []string{"mid", "intermediate", "experienced"}
)

func containsAny(blob string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(blob, k) {
			return true
		}
	}
	return false
}

// ClassifyLocationType reads the location string plus the description.
// Remote keywords win over hybrid ones even when both appear; anything
// with no signal is treated as onsite.
func ClassifyLocationType(location, description string) domain.LocationType {
	blob := strings.ToLower(location + " " + description)
	switch {
	case containsAny(blob, remoteKeywords):
		return domain.LocationRemote
	case containsAny(blob, hybridKeywords):
		return domain.LocationHybrid
	default:
		return domain.LocationOnsite
	}
}

// ClassifyExperience checks senior before entry before mid, first hit
// wins, so "Senior engineer, entry-level friendly" stays senior.
func ClassifyExperience(title, description string) domain.ExperienceLevel {
	blob := strings.ToLower(title + " " + description)
	switch {
	case containsAny(blob, seniorKeywords):
		return domain.ExperienceSenior
	case containsAny(blob, entryKeywords):
		return domain.ExperienceEntry
	case containsAny(blob, midKeywords):
		return domain.ExperienceMid
	default:
		return domain.ExperienceUnspecified
	}
}

// IsRelevant is the coarse gate drivers apply before handing candidates
// to the aggregator: keep only if title+description mentions at least
// one keyword.
func IsRelevant(title, description string, keywords []string) bool {
	blob := strings.ToLower(title + " " + description)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(blob, k) {
			return true
		}
	}
	return false
}
