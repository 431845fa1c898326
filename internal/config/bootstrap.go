package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// EnsureUserConfig makes sure dataDir holds a config.yml, seeding it
// from defaultPath (or a built-in skeleton when no default ships with
// the install). Returns the path to the user's config.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := os.WriteFile(userPath, []byte(defaultYAML), 0o644); werr != nil {
				return "", werr
			}
			return userPath, nil
		}
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

const defaultYAML = `app:
  port: 38514
  data_dir: ""

refresh:
  schedule: "@every 24h"
  freshness_hours: 6
  staleness_days: 30
  driver_timeout_seconds: 120

search:
  terms: []          # empty -> derived from profile skills
  locations: []      # empty -> profile locations
  relevance_keywords:
    - python
    - django
    - backend
    - full stack
    - software engineer
    - developer

normalize:
  salary_currency: USD
  salary_thousands_floor: 1000
  skills_vocab:
    - Python
    - Django
    - PostgreSQL
    - React
    - TypeScript
    - JavaScript
    - Node.js
    - AWS
    - Docker
    - Kubernetes
    - Redis
    - GraphQL
    - SQL
    - Linux
    - Go

dedup:
  description_prefix_len: 200

profile:
  skills:
    - {name: Python, weight: 3}
    - {name: Django, weight: 3}
    - {name: PostgreSQL, weight: 2}
    - {name: React, weight: 1}
  min_salary: 70000
  max_salary: 140000
  locations: ["New York, NY"]
  location_types: [remote, hybrid]
  experience_level: mid
  company_types: [tech]

sources:
  greenhouse:
    enabled: false
    boards: []
  adzuna:
    enabled: false
    country: us
    app_id: ""
    keyring_account: ""
  indeed:
    enabled: false
    pair_delay_ms: 1000
    page_timeout_ms: 10000
    max_per_pair: 20
`
