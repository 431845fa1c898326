// Package rank scores normalized jobs against the active preference
// profile. The aggregator calls it on every newly fingerprinted job;
// downstream digesting reads the stored score, it never re-scores.
package rank

import (
	"strings"

	"jobscout-engine/internal/domain"
)

type Scorer interface {
	Score(job domain.NormalizedJob) (score int, tags []string)
}

// ProfileScorer weights skill hits by the profile's per-skill weight
// and adds fixed bumps for salary-band overlap, preferred location
// type, and matching experience level.
type ProfileScorer struct {
	Profile domain.UserPreferenceProfile
}

const (
	salaryBandBonus = 3
	locationBonus   = 2
	experienceBonus = 2
)

func (s ProfileScorer) Score(job domain.NormalizedJob) (int, []string) {
	text := strings.ToLower(job.Title + " " + job.Description)

	score := 0
	var tags []string

	for _, sk := range s.Profile.Skills {
		name := strings.ToLower(strings.TrimSpace(sk.Name))
		if name == "" {
			continue
		}
		if strings.Contains(text, name) {
			score += sk.Weight
			tags = append(tags, sk.Name)
		}
	}

	if s.salaryOverlaps(job) {
		score += salaryBandBonus
	}
	for _, lt := range s.Profile.LocationTypes {
		if job.LocationType == lt {
			score += locationBonus
			break
		}
	}
	if s.Profile.ExperienceLevel != "" &&
		s.Profile.ExperienceLevel != domain.ExperienceUnspecified &&
		job.ExperienceLevel == s.Profile.ExperienceLevel {
		score += experienceBonus
	}

	return score, uniq(tags)
}

// salaryOverlaps: true when the posting's band intersects the
// profile's band. Postings without salary data neither gain nor lose.
func (s ProfileScorer) salaryOverlaps(job domain.NormalizedJob) bool {
	if job.SalaryMin == nil && job.SalaryMax == nil {
		return false
	}
	if s.Profile.MinSalary == 0 && s.Profile.MaxSalary == 0 {
		return false
	}

	jobMin, jobMax := 0, int(^uint(0)>>1)
	if job.SalaryMin != nil {
		jobMin = *job.SalaryMin
	}
	if job.SalaryMax != nil {
		jobMax = *job.SalaryMax
	}

	prefMin, prefMax := s.Profile.MinSalary, s.Profile.MaxSalary
	if prefMax == 0 {
		prefMax = int(^uint(0) >> 1)
	}

	return jobMin <= prefMax && jobMax >= prefMin
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
