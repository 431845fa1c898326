package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"jobscout-engine/internal/domain"
)

type Board struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Refresh struct {
		Schedule             string `yaml:"schedule"` // robfig/cron spec, e.g. "@every 24h"
		FreshnessHours       int    `yaml:"freshness_hours"`
		StalenessDays        int    `yaml:"staleness_days"`
		DriverTimeoutSeconds int    `yaml:"driver_timeout_seconds"`
	} `yaml:"refresh"`

	Search struct {
		Terms             []string `yaml:"terms"`
		Locations         []string `yaml:"locations"`
		RelevanceKeywords []string `yaml:"relevance_keywords"`
	} `yaml:"search"`

	Normalize struct {
		SkillsVocab         []string `yaml:"skills_vocab"`
		SalaryCurrency      string   `yaml:"salary_currency"`
		SalaryThousandsFloor int     `yaml:"salary_thousands_floor"`
	} `yaml:"normalize"`

	Dedup struct {
		DescriptionPrefixLen int `yaml:"description_prefix_len"`
	} `yaml:"dedup"`

	Profile domain.UserPreferenceProfile `yaml:"profile"`

	Sources struct {
		Greenhouse struct {
			Enabled bool    `yaml:"enabled"`
			Boards  []Board `yaml:"boards"`
		} `yaml:"greenhouse"`
		Adzuna struct {
			Enabled        bool   `yaml:"enabled"`
			Country        string `yaml:"country"` // "us", "gb", ...
			AppID          string `yaml:"app_id"`
			KeyringAccount string `yaml:"keyring_account"` // app key lives in the OS keychain
		} `yaml:"adzuna"`
		Indeed struct {
			Enabled       bool `yaml:"enabled"`
			PairDelayMs   int  `yaml:"pair_delay_ms"`
			PageTimeoutMs int  `yaml:"page_timeout_ms"`
			MaxPerPair    int  `yaml:"max_per_pair"`
		} `yaml:"indeed"`
	} `yaml:"sources"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38514
	}
	if cfg.Refresh.Schedule == "" {
		cfg.Refresh.Schedule = "@every 24h"
	}
	if cfg.Refresh.FreshnessHours == 0 {
		cfg.Refresh.FreshnessHours = 6
	}
	if cfg.Refresh.StalenessDays == 0 {
		cfg.Refresh.StalenessDays = 30
	}
	if cfg.Refresh.DriverTimeoutSeconds == 0 {
		cfg.Refresh.DriverTimeoutSeconds = 120
	}
	if cfg.Normalize.SalaryCurrency == "" {
		cfg.Normalize.SalaryCurrency = "USD"
	}
	if cfg.Normalize.SalaryThousandsFloor == 0 {
		cfg.Normalize.SalaryThousandsFloor = 1000
	}
	if cfg.Dedup.DescriptionPrefixLen == 0 {
		cfg.Dedup.DescriptionPrefixLen = 200
	}
	if cfg.Sources.Indeed.PairDelayMs == 0 {
		cfg.Sources.Indeed.PairDelayMs = 1000
	}
	if cfg.Sources.Indeed.PageTimeoutMs == 0 {
		cfg.Sources.Indeed.PageTimeoutMs = 10000
	}
	if cfg.Sources.Indeed.MaxPerPair == 0 {
		cfg.Sources.Indeed.MaxPerPair = 20
	}
}

// SearchTerms returns the configured default terms, falling back to
// the profile's skill keywords when none are set.
func (c Config) SearchTerms() []string {
	if len(c.Search.Terms) > 0 {
		return c.Search.Terms
	}
	return c.Profile.SkillNames()
}

// SearchLocations falls back to the profile's preferred locations.
func (c Config) SearchLocations() []string {
	if len(c.Search.Locations) > 0 {
		return c.Search.Locations
	}
	if len(c.Profile.Locations) > 0 {
		return c.Profile.Locations
	}
	return []string{""}
}

func (c Config) FreshnessWindow() time.Duration {
	return time.Duration(c.Refresh.FreshnessHours) * time.Hour
}

func (c Config) StalenessWindow() time.Duration {
	return time.Duration(c.Refresh.StalenessDays) * 24 * time.Hour
}

func (c Config) DriverTimeout() time.Duration {
	return time.Duration(c.Refresh.DriverTimeoutSeconds) * time.Second
}

// OverlayEnv lets deployment env vars override file-held credentials.
func OverlayEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("JOBSCOUT_ADZUNA_APP_ID")); v != "" {
		cfg.Sources.Adzuna.AppID = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBSCOUT_DATA_DIR")); v != "" {
		cfg.App.DataDir = v
	}
}
