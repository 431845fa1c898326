// Greenhouse boards are plain server-rendered HTML, so this driver is a
// straight HTTP fetch plus goquery walk. Boards come from config; a dead
// board degrades to a log line, never a failed cycle.
package greenhouse

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/normalize"
	"jobscout-engine/internal/scrape/util"
)

const defaultBaseURL = "https://boards.greenhouse.io"

type Driver struct {
	cfg     config.Config
	hc      *http.Client
	limiter *util.HostLimiter

	// overridable in tests
	baseURL string
}

func New(cfg config.Config) *Driver {
	return &Driver{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: util.NewHostLimiter(2, 2),
		baseURL: defaultBaseURL,
	}
}

func (d *Driver) Name() string { return "greenhouse" }

// Discover walks every configured board. Search terms don't apply to
// board pages; the relevance keyword filter does the narrowing instead.
func (d *Driver) Discover(ctx context.Context, _ []string, _ []string) ([]domain.RawCandidate, error) {
	if !d.cfg.Sources.Greenhouse.Enabled {
		log.Printf("[greenhouse] disabled in config")
		return nil, nil
	}
	boards := d.cfg.Sources.Greenhouse.Boards
	if len(boards) == 0 {
		log.Printf("[greenhouse] no boards configured")
		return nil, nil
	}

	var out []domain.RawCandidate
	var failed int
	for _, b := range boards {
		cands, err := d.scrapeBoard(ctx, b)
		if err != nil {
			// partial results beat an aborted cycle
			log.Printf("[greenhouse] board %s failed: %v", b.Slug, err)
			failed++
			continue
		}
		out = append(out, cands...)
	}

	if failed == len(boards) {
		return nil, fmt.Errorf("greenhouse: all %d boards failed", failed)
	}
	return out, nil
}

func (d *Driver) scrapeBoard(ctx context.Context, b config.Board) ([]domain.RawCandidate, error) {
	boardURL := fmt.Sprintf("%s/%s", d.baseURL, b.Slug)

	doc, err := d.getDoc(ctx, boardURL)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var cands []domain.RawCandidate

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		abs := href
		if strings.HasPrefix(href, "/") {
			abs = d.baseURL + href
		}
		if !strings.Contains(strings.ToLower(abs), "/jobs/") {
			return
		}

		jobID := extractJobID(abs)
		if jobID == "" {
			return
		}

		externalID := fmt.Sprintf("%s:%s", b.Slug, jobID)
		if seen[externalID] {
			return
		}
		seen[externalID] = true

		title := normalize.CleanText(a.Text())
		if looksLikeJunkTitle(title) {
			// the job page carries the real title; hydrate fills it in
			title = ""
		}

		company := b.Name
		c := domain.RawCandidate{
			Title:        title,
			Company:      &company,
			Source:       "greenhouse",
			ExternalID:   externalID,
			URL:          abs,
			DiscoveredAt: time.Now().UTC(),
		}
		cands = append(cands, c)
	})

	// hydrate details from each job page; a failed hydrate keeps the
	// minimal listing entry rather than dropping the candidate
	var out []domain.RawCandidate
	for i := range cands {
		if err := d.hydrate(ctx, &cands[i]); err != nil {
			log.Printf("[greenhouse] hydrate %s: %v", cands[i].ExternalID, err)
		}
		if cands[i].Title == "" {
			log.Printf("[greenhouse] skipping %s: no title", cands[i].ExternalID)
			continue
		}
		if !normalize.IsRelevant(cands[i].Title, cands[i].Description, d.cfg.Search.RelevanceKeywords) {
			continue
		}
		out = append(out, cands[i])
	}

	log.Printf("[greenhouse] board=%s links=%d kept=%d", b.Slug, len(cands), len(out))
	return out, nil
}

func (d *Driver) hydrate(ctx context.Context, c *domain.RawCandidate) error {
	doc, err := d.getDoc(ctx, c.URL)
	if err != nil {
		return err
	}

	if c.Title == "" {
		c.Title = normalize.CleanText(doc.Find("h1").First().Text())
	}

	loc := normalize.CleanText(doc.Find(".location").First().Text())
	if loc == "" {
		loc = util.FindLocation(doc)
	}
	if loc != "" {
		c.Location = &loc
	}

	if sel := doc.Find("#content").First(); sel.Length() > 0 {
		c.Description = normalize.CleanText(sel.Text())
	}
	if sal := normalize.CleanText(doc.Find(".salary, .compensation").First().Text()); sal != "" {
		c.SalaryText = sal
	}
	return nil
}

func (d *Driver) getDoc(ctx context.Context, u string) (*goquery.Document, error) {
	if err := d.limiter.WaitURL(ctx, u); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "JobScout/1.0 (+local)")

	res, err := d.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("greenhouse status %d for %s", res.StatusCode, u)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("greenhouse parse html: %w", err)
	}
	return doc, nil
}

func extractJobID(u string) string {
	parts := strings.Split(u, "/jobs/")
	if len(parts) < 2 {
		return ""
	}
	var id strings.Builder
	for _, r := range parts[1] {
		if r < '0' || r > '9' {
			break
		}
		id.WriteRune(r)
	}
	return id.String()
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return l == "" || strings.Contains(l, "view") || strings.Contains(l, "apply")
}
