package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes list fields and checks the
// parts of the config the pipeline can't limp along without.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Terms = trimList(out.Search.Terms)
	out.Search.Locations = trimList(out.Search.Locations)
	out.Search.RelevanceKeywords = trimList(out.Search.RelevanceKeywords)
	out.Normalize.SkillsVocab = trimList(out.Normalize.SkillsVocab)
	out.Profile.Locations = trimList(out.Profile.Locations)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Refresh.FreshnessHours < 0 {
		res.addErr("refresh.freshness_hours must be >= 0")
	}
	if out.Refresh.StalenessDays <= 0 {
		res.addErr("refresh.staleness_days must be > 0")
	}
	if out.Refresh.StalenessDays < 7 {
		res.addWarn("refresh.staleness_days is very low (%d); jobs will be purged aggressively.", out.Refresh.StalenessDays)
	}

	if len(out.Search.RelevanceKeywords) == 0 {
		res.addErr("search.relevance_keywords must not be empty; every candidate would be discarded")
	}
	if len(out.Normalize.SkillsVocab) == 0 {
		res.addWarn("normalize.skills_vocab is empty; no skills will be extracted.")
	}
	if len(out.SearchTerms()) == 0 {
		res.addErr("no search terms: set search.terms or give the profile weighted skills")
	}

	if out.Dedup.DescriptionPrefixLen < 32 {
		res.addWarn("dedup.description_prefix_len=%d is short; distinct postings may collapse.", out.Dedup.DescriptionPrefixLen)
	}

	for i, s := range out.Profile.Skills {
		if strings.TrimSpace(s.Name) == "" {
			res.addErr("profile.skills[%d].name is required", i)
		}
		if s.Weight < 0 {
			res.addErr("profile.skills[%d].weight must be >= 0", i)
		}
	}
	if out.Profile.MinSalary > 0 && out.Profile.MaxSalary > 0 && out.Profile.MinSalary > out.Profile.MaxSalary {
		res.addErr("profile.min_salary exceeds profile.max_salary")
	}

	if out.Sources.Greenhouse.Enabled && len(out.Sources.Greenhouse.Boards) == 0 {
		res.addWarn("sources.greenhouse.enabled is true but no boards are configured.")
	}
	for i, b := range out.Sources.Greenhouse.Boards {
		if strings.TrimSpace(b.Slug) == "" {
			res.addErr("sources.greenhouse.boards[%d].slug is required", i)
		}
	}
	if out.Sources.Adzuna.Enabled && strings.TrimSpace(out.Sources.Adzuna.Country) == "" {
		res.addErr("sources.adzuna.country is required when adzuna is enabled")
	}

	if !out.Sources.Greenhouse.Enabled && !out.Sources.Adzuna.Enabled && !out.Sources.Indeed.Enabled {
		res.addWarn("no sources enabled; refresh cycles will fetch nothing.")
	}

	return out, res
}
