// Adzuna exposes a public JSON search API, so this driver never touches
// HTML. Credentials come from the OS keychain with an env fallback;
// missing credentials disable the driver at construction instead of
// failing every cycle.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/normalize"
	"jobscout-engine/internal/scrape/util"
	"jobscout-engine/internal/secrets"
)

const (
	defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
	pageSize       = 50
	maxPages       = 2 // max 100 results per (term × location) pair
	maxDaysOld     = 14
)

type Driver struct {
	cfg     config.Config
	appKey  string
	hc      *http.Client
	limiter *util.HostLimiter

	// overridable in tests
	baseURL string
}

// New resolves the app key at construction time. No key means a
// disabled driver that discovers nothing, logged once here.
func New(cfg config.Config) *Driver {
	d := &Driver{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: util.NewHostLimiter(1, 2),
		baseURL: defaultBaseURL,
	}
	if !cfg.Sources.Adzuna.Enabled {
		return d
	}
	d.appKey = resolveAppKey(cfg)
	if d.appKey == "" {
		log.Printf("[adzuna] no app key in keychain or JOBSCOUT_ADZUNA_APP_KEY; driver disabled")
	}
	return d
}

func resolveAppKey(cfg config.Config) string {
	account := cfg.Sources.Adzuna.KeyringAccount
	if account == "" {
		account = secrets.AdzunaKeyringAccount(cfg.Sources.Adzuna.AppID)
	}
	if key, err := secrets.GetAPIKey(account); err == nil {
		return key
	}
	return strings.TrimSpace(os.Getenv("JOBSCOUT_ADZUNA_APP_KEY"))
}

func (d *Driver) Name() string { return "adzuna" }

func (d *Driver) Discover(ctx context.Context, terms []string, locations []string) ([]domain.RawCandidate, error) {
	if !d.cfg.Sources.Adzuna.Enabled {
		log.Printf("[adzuna] disabled in config")
		return nil, nil
	}
	if d.appKey == "" || d.cfg.Sources.Adzuna.AppID == "" {
		log.Printf("[adzuna] missing credentials; returning no candidates")
		return nil, nil
	}

	if len(terms) == 0 {
		terms = d.cfg.SearchTerms()
	}
	if len(locations) == 0 {
		locations = d.cfg.SearchLocations()
	}

	seen := map[string]bool{}
	var out []domain.RawCandidate
	var pairs, failed int

	for _, term := range terms {
		for _, loc := range locations {
			pairs++
			cands, err := d.search(ctx, term, loc)
			if err != nil {
				log.Printf("[adzuna] search term=%q location=%q failed: %v", term, loc, err)
				failed++
				continue
			}
			for _, c := range cands {
				if seen[c.ExternalID] {
					continue
				}
				seen[c.ExternalID] = true
				if !normalize.IsRelevant(c.Title, c.Description, d.cfg.Search.RelevanceKeywords) {
					continue
				}
				out = append(out, c)
			}
		}
	}

	if pairs > 0 && failed == pairs {
		return nil, fmt.Errorf("adzuna: all %d searches failed", failed)
	}
	return out, nil
}

func (d *Driver) search(ctx context.Context, term, loc string) ([]domain.RawCandidate, error) {
	var out []domain.RawCandidate
	for page := 1; page <= maxPages; page++ {
		batch, err := d.fetchPage(ctx, term, loc, page)
		if err != nil {
			return out, fmt.Errorf("page %d: %w", page, err)
		}
		out = append(out, batch...)
		if len(batch) < pageSize {
			break
		}
	}
	return out, nil
}

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID          json.Number    `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

func (d *Driver) fetchPage(ctx context.Context, term, loc string, page int) ([]domain.RawCandidate, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", d.baseURL, d.cfg.Sources.Adzuna.Country, page)

	params := url.Values{}
	params.Set("app_id", d.cfg.Sources.Adzuna.AppID)
	params.Set("app_key", d.appKey)
	params.Set("results_per_page", strconv.Itoa(pageSize))
	params.Set("what", term)
	if loc != "" {
		params.Set("where", loc)
	}
	params.Set("max_days_old", strconv.Itoa(maxDaysOld))
	params.Set("sort_by", "date")
	params.Set("content-type", "application/json")

	reqURL := endpoint + "?" + params.Encode()
	if err := d.limiter.WaitURL(ctx, reqURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	now := time.Now().UTC()
	out := make([]domain.RawCandidate, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		if r.ID.String() == "" || r.Title == "" {
			// API occasionally ships partial records; skip, keep siblings
			log.Printf("[adzuna] skipping partial result id=%q title=%q", r.ID, r.Title)
			continue
		}
		c := domain.RawCandidate{
			Title:        normalize.CleanText(r.Title),
			Description:  normalize.CleanText(r.Description),
			SalaryText:   salaryText(r.SalaryMin, r.SalaryMax),
			Source:       "adzuna",
			ExternalID:   r.ID.String(),
			URL:          r.RedirectURL,
			DiscoveredAt: now,
		}
		if v := normalize.CleanText(r.Company.DisplayName); v != "" {
			c.Company = &v
		}
		if v := normalize.CleanText(r.Location.DisplayName); v != "" {
			c.Location = &v
		}
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			c.DiscoveredAt = t.UTC()
		}
		out = append(out, c)
	}
	return out, nil
}

// salaryText renders API numerics back into the text form the shared
// normalizer parses, so every source funnels through one salary path.
func salaryText(min, max float64) string {
	lo, hi := int(min), int(max)
	switch {
	case lo > 0 && hi > 0 && hi != lo:
		return fmt.Sprintf("%d - %d", lo, hi)
	case lo > 0:
		return strconv.Itoa(lo)
	case hi > 0:
		return strconv.Itoa(hi)
	default:
		return ""
	}
}
