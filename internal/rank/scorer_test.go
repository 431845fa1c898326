package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobscout-engine/internal/domain"
)

func testProfile() domain.UserPreferenceProfile {
	return domain.UserPreferenceProfile{
		Skills: []domain.SkillWeight{
			{Name: "Python", Weight: 3},
			{Name: "Django", Weight: 2},
		},
		MinSalary:       70000,
		MaxSalary:       140000,
		LocationTypes:   []domain.LocationType{domain.LocationRemote},
		ExperienceLevel: domain.ExperienceMid,
	}
}

func TestScoreSkillWeights(t *testing.T) {
	s := ProfileScorer{Profile: testProfile()}

	score, tags := s.Score(domain.NormalizedJob{
		Title:       "Python Developer",
		Description: "Django REST services",
	})
	assert.Equal(t, 5, score)
	assert.Equal(t, []string{"Python", "Django"}, tags)

	score, tags = s.Score(domain.NormalizedJob{
		Title:       "Accountant",
		Description: "Spreadsheets",
	})
	assert.Zero(t, score)
	assert.Empty(t, tags)
}

func TestScoreBonuses(t *testing.T) {
	s := ProfileScorer{Profile: testProfile()}
	min, max := 80000, 120000

	score, _ := s.Score(domain.NormalizedJob{
		Title:           "Python Engineer",
		SalaryMin:       &min,
		SalaryMax:       &max,
		LocationType:    domain.LocationRemote,
		ExperienceLevel: domain.ExperienceMid,
	})
	// 3 (Python) + 3 (salary band) + 2 (location) + 2 (experience)
	assert.Equal(t, 10, score)
}

func TestScoreSalaryOutsideBand(t *testing.T) {
	s := ProfileScorer{Profile: testProfile()}
	min, max := 30000, 45000

	withSalary, _ := s.Score(domain.NormalizedJob{
		Title: "Python Engineer", SalaryMin: &min, SalaryMax: &max,
	})
	noSalary, _ := s.Score(domain.NormalizedJob{Title: "Python Engineer"})

	assert.Equal(t, noSalary, withSalary, "band below the profile earns no bonus")
}
