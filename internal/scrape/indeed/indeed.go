// Indeed blocks plain HTTP fetches, so this driver rides a stealth
// playwright session. One session per Discover call, shared across the
// whole terms × locations cross-product, torn down on every exit path.
package indeed

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/playwright-community/playwright-go"

	"jobscout-engine/internal/browser"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/normalize"
)

const baseURL = "https://www.indeed.com"

type Driver struct {
	cfg      config.Config
	disabled bool

	// injectable for tests; production uses the real session
	newSession func() (*browser.Session, error)
}

// New checks for the playwright runtime. A missing runtime disables the
// driver (Discover returns empty with a warning) instead of erroring
// every cycle.
func New(cfg config.Config) *Driver {
	d := &Driver{cfg: cfg, newSession: browser.NewSession}
	if err := browser.Available(); err != nil {
		log.Printf("[indeed] disabled: %v", err)
		d.disabled = true
	}
	return d
}

func (d *Driver) Name() string { return "indeed" }

func (d *Driver) Discover(ctx context.Context, terms []string, locations []string) ([]domain.RawCandidate, error) {
	if d.disabled {
		log.Printf("[indeed] browser runtime unavailable; returning no candidates")
		return nil, nil
	}

	if len(terms) == 0 {
		terms = d.cfg.SearchTerms()
	}
	if len(locations) == 0 {
		locations = d.cfg.SearchLocations()
	}

	sess, err := d.newSession()
	if err != nil {
		return nil, fmt.Errorf("indeed session: %w", err)
	}
	defer sess.Close()

	pairDelay := time.Duration(d.cfg.Sources.Indeed.PairDelayMs) * time.Millisecond
	var out []domain.RawCandidate
	seen := map[string]bool{}
	first := true

	// sequential on purpose: one session, one navigation at a time
	for _, term := range terms {
		for _, loc := range locations {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			if !first {
				// rate shaping between pairs, not correctness
				time.Sleep(pairDelay)
			}
			first = false

			cands := d.scrapePair(sess.Page(), term, loc)
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

	return out, nil
}

// scrapePair handles one (term, location): navigate, wait for the
// results marker, walk the cards. Every failure here is pair-local.
func (d *Driver) scrapePair(page playwright.Page, term, loc string) []domain.RawCandidate {
	timeout := float64(d.cfg.Sources.Indeed.PageTimeoutMs)

	searchURL := buildSearchURL(term, loc)
	log.Printf("[indeed] searching term=%q location=%q", term, loc)

	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeout),
	}); err != nil {
		log.Printf("[indeed] navigation failed term=%q location=%q err=%v", term, loc, err)
		return nil
	}

	// marker element for "results are present"; a timeout means zero
	// results for this pair, never a fatal error
	if err := page.Locator("[data-jk]").First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(timeout),
	}); err != nil {
		log.Printf("[indeed] no results term=%q location=%q", term, loc)
		return nil
	}

	cards, err := page.Locator("[data-jk]").All()
	if err != nil {
		log.Printf("[indeed] listing cards failed term=%q location=%q err=%v", term, loc, err)
		return nil
	}

	maxPerPair := d.cfg.Sources.Indeed.MaxPerPair
	var out []domain.RawCandidate
	for _, card := range cards {
		if len(out) >= maxPerPair {
			break
		}
		c, err := extractCard(card)
		if err != nil {
			// one malformed fragment must not sink its siblings
			log.Printf("[indeed] skipping card: %v", err)
			continue
		}
		out = append(out, c)
	}

	log.Printf("[indeed] term=%q location=%q cards=%d extracted=%d", term, loc, len(cards), len(out))
	return out
}

func buildSearchURL(term, loc string) string {
	q := url.Values{}
	q.Set("q", term)
	if loc != "" {
		q.Set("l", loc)
	}
	q.Set("sort", "date")
	q.Set("fromage", "14") // last 14 days
	return baseURL + "/jobs?" + q.Encode()
}

func extractCard(card playwright.Locator) (domain.RawCandidate, error) {
	// permalink id is the one hard requirement
	jk, err := card.GetAttribute("data-jk")
	if err != nil || jk == "" {
		return domain.RawCandidate{}, fmt.Errorf("card without data-jk")
	}

	title := attrText(card.Locator("h2 a span[title]").First(), "title")
	if title == "" {
		title = textOf(card.Locator("h2 a span").First())
	}
	if title == "" {
		return domain.RawCandidate{}, fmt.Errorf("card %s without title", jk)
	}

	c := domain.RawCandidate{
		Title:        title,
		Description:  textOf(card.Locator(".job-snippet, [data-testid='jobsnippet_footer']").First()),
		SalaryText:   textOf(card.Locator(".salary-snippet, [data-testid='attribute_snippet_testid']").First()),
		Source:       "indeed",
		ExternalID:   jk,
		URL:          baseURL + "/viewjob?jk=" + jk,
		DiscoveredAt: time.Now().UTC(),
	}

	if v := textOf(card.Locator("[data-testid='company-name']").First()); v != "" {
		c.Company = &v
	}
	if v := textOf(card.Locator("[data-testid='text-location']").First()); v != "" {
		c.Location = &v
	}

	return c, nil
}

// textOf reads a locator's text with a short timeout; missing elements
// come back as empty strings, not errors.
func textOf(l playwright.Locator) string {
	t, err := l.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(250),
	})
	if err != nil {
		return ""
	}
	return normalize.CleanText(t)
}

func attrText(l playwright.Locator, name string) string {
	v, err := l.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(250),
	})
	if err != nil {
		return ""
	}
	return normalize.CleanText(v)
}
