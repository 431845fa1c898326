package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobscout-engine/internal/domain"
)

func TestParseSalary(t *testing.T) {
	cases := []struct {
		in       string
		min, max int
		none     bool
	}{
		{in: "70k-120k", min: 70000, max: 120000},
		{in: "$85,000", min: 85000, max: 85000},
		{in: "Competitive", none: true},
		{in: "45-60", min: 45000, max: 60000}, // below the floor -> thousands
		{in: "$70,000 - $120,000", min: 70000, max: 120000},
		{in: "80k", min: 80000, max: 80000},
		{in: "120000 to 150000", min: 120000, max: 150000},
		{in: "", none: true},
		{in: "Negotiable DOE", none: true},
		// a "k" away from the figure is not a thousands marker
		{in: "$85,000 per week", min: 85000, max: 85000},
		{in: "$90,000 - $120,000 plus 401k match", min: 90000, max: 120000},
		{in: "130000 with stock options", min: 130000, max: 130000},
	}

	for _, c := range cases {
		min, max := ParseSalary(c.in, 1000)
		if c.none {
			assert.Nil(t, min, "min for %q", c.in)
			assert.Nil(t, max, "max for %q", c.in)
			continue
		}
		if assert.NotNil(t, min, "min for %q", c.in) {
			assert.Equal(t, c.min, *min, "min for %q", c.in)
		}
		if assert.NotNil(t, max, "max for %q", c.in) {
			assert.Equal(t, c.max, *max, "max for %q", c.in)
		}
	}
}

func TestClassifyLocationType(t *testing.T) {
	// remote wins even when hybrid keywords also appear
	assert.Equal(t, domain.LocationRemote,
		ClassifyLocationType("Hybrid / Remote", "flexible schedule"))
	assert.Equal(t, domain.LocationRemote,
		ClassifyLocationType("New York, NY", "full work from home setup"))
	assert.Equal(t, domain.LocationHybrid,
		ClassifyLocationType("Austin, TX", "hybrid 3 days in office"))
	assert.Equal(t, domain.LocationOnsite,
		ClassifyLocationType("Chicago, IL", "on our downtown campus"))
}

func TestClassifyExperience(t *testing.T) {
	// senior is checked before entry
	assert.Equal(t, domain.ExperienceSenior,
		ClassifyExperience("Senior Backend Engineer", "entry-level friendly team"))
	assert.Equal(t, domain.ExperienceEntry,
		ClassifyExperience("Backend Engineer", "great for new grad applicants"))
	assert.Equal(t, domain.ExperienceMid,
		ClassifyExperience("Backend Engineer", "intermediate level role"))
	assert.Equal(t, domain.ExperienceUnspecified,
		ClassifyExperience("Backend Engineer", "join our team"))
}

func TestExtractSkills(t *testing.T) {
	vocab := []string{"Python", "Django", "Go", "React", "PostgreSQL"}

	got := ExtractSkills("We use Python and Django on PostgreSQL.", vocab)
	assert.Equal(t, []string{"Python", "Django", "PostgreSQL"}, got)

	// word boundaries: "Google" must not match "Go"
	got = ExtractSkills("Experience with Google Cloud required", vocab)
	assert.Empty(t, got)

	// case-insensitive
	got = ExtractSkills("strong DJANGO background", vocab)
	assert.Equal(t, []string{"Django"}, got)

	assert.Empty(t, ExtractSkills("", vocab))
	assert.Empty(t, ExtractSkills("anything", nil))

	// symbol-suffixed vocabulary entries still need exact-token matches
	symbols := []string{"C++", "C#", "Go"}
	assert.Equal(t, []string{"C++"}, ExtractSkills("modern C++ codebase", symbols))
	assert.Equal(t, []string{"C#"}, ExtractSkills("services in C#", symbols))
	assert.Empty(t, ExtractSkills("C- grade average", symbols))
}

func TestIsRelevant(t *testing.T) {
	keywords := []string{"python", "backend", "developer"}

	assert.True(t, IsRelevant("Backend Engineer", "", keywords))
	assert.True(t, IsRelevant("Barista", "python scripting a plus", keywords))
	assert.False(t, IsRelevant("Barista", "espresso experience", keywords))
	assert.False(t, IsRelevant("anything", "anything", nil))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a  b\n\tc  "))
	assert.Equal(t, "", CleanText("   "))
}
