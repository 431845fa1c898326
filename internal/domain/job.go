package domain

import "time"

type LocationType string

const (
	LocationRemote      LocationType = "remote"
	LocationHybrid      LocationType = "hybrid"
	LocationOnsite      LocationType = "onsite"
	LocationUnspecified LocationType = "unspecified"
)

type ExperienceLevel string

const (
	ExperienceEntry       ExperienceLevel = "entry"
	ExperienceMid         ExperienceLevel = "mid"
	ExperienceSenior      ExperienceLevel = "senior"
	ExperienceUnspecified ExperienceLevel = "unspecified"
)

type JobType string

const (
	JobFullTime    JobType = "full_time"
	JobPartTime    JobType = "part_time"
	JobContract    JobType = "contract"
	JobUnspecified JobType = "unspecified"
)

// RawCandidate is what a single driver pulls off a source before any
// normalization. Discarded once the aggregator has ingested it.
// Company and Location are nil when the source didn't expose them;
// that's distinct from a posting literally naming itself "Unknown".
type RawCandidate struct {
	Title        string
	Company      *string
	Description  string
	Location     *string
	SalaryText   string // optional; empty is valid
	Source       string
	ExternalID   string
	URL          string
	DiscoveredAt time.Time
}

// NormalizedJob is the canonical record the store holds.
type NormalizedJob struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	LocationType    LocationType    `json:"location_type"`
	SalaryMin       *int            `json:"salary_min,omitempty"`
	SalaryMax       *int            `json:"salary_max,omitempty"`
	SalaryCurrency  string          `json:"salary_currency"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	JobType         JobType         `json:"job_type"`
	Skills          []string        `json:"skills"`
	PostedDate      time.Time       `json:"posted_date"`
	Source          string          `json:"source"`
	ExternalID      string          `json:"external_id"`
	URL             string          `json:"url"`
	Fingerprint     string          `json:"fingerprint"`
	Score           int             `json:"score"`
	Tags            []string        `json:"tags"`
	FirstSeenAt     time.Time       `json:"first_seen_at"`
	LastSeenAt      time.Time       `json:"last_seen_at"`
	SeenCount       int             `json:"seen_count"`
}
