package domain

// SkillWeight is one weighted skill keyword in a preference profile.
type SkillWeight struct {
	Name   string `yaml:"name" json:"name"`
	Weight int    `yaml:"weight" json:"weight"`
}

// UserPreferenceProfile is the single active profile a cycle scores
// against. The core reads it as an immutable snapshot; it never writes
// back.
type UserPreferenceProfile struct {
	Skills          []SkillWeight   `yaml:"skills" json:"skills"`
	MinSalary       int             `yaml:"min_salary" json:"min_salary"`
	MaxSalary       int             `yaml:"max_salary" json:"max_salary"`
	Locations       []string        `yaml:"locations" json:"locations"`
	LocationTypes   []LocationType  `yaml:"location_types" json:"location_types"`
	ExperienceLevel ExperienceLevel `yaml:"experience_level" json:"experience_level"`
	CompanyTypes    []string        `yaml:"company_types" json:"company_types"`
}

// SkillNames returns the profile's skill keywords in declared order.
// Drivers use this as the default search-term fallback.
func (p UserPreferenceProfile) SkillNames() []string {
	out := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if s.Name != "" {
			out = append(out, s.Name)
		}
	}
	return out
}
