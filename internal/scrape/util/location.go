package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/normalize"
)

// NormalizeLocation trims label prefixes and collapses duplicate
// comma-separated segments ("Remote, Remote, US" -> "Remote, US").
func NormalizeLocation(loc string) string {
	loc = normalize.CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "LOCATIONS:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = normalize.CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// FindLocation tries the selectors job boards commonly use, then falls
// back to "Location:" labels in meta description or body text.
func FindLocation(doc *goquery.Document) string {
	candidates := []string{
		".location",
		".opening .location",
		".job__location",
		"[data-testid='job-location']",
		"[data-testid='location']",
	}

	for _, sel := range candidates {
		if t := normalize.CleanText(doc.Find(sel).First().Text()); t != "" {
			return NormalizeLocation(t)
		}
	}

	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if loc := extractLabeledLocation(v); loc != "" {
			return NormalizeLocation(loc)
		}
	}

	body := normalize.CleanText(doc.Find("body").Text())
	if loc := extractLabeledLocation(body); loc != "" {
		return NormalizeLocation(loc)
	}

	return ""
}

func extractLabeledLocation(s string) string {
	low := strings.ToLower(s)

	labels := []string{"location:", "locations:", "job location:"}

	for _, lab := range labels {
		i := strings.Index(low, lab)
		if i < 0 {
			continue
		}
		rest := strings.TrimSpace(s[i+len(lab):])

		for _, cut := range []string{"\n", "\r", " | "} {
			if j := strings.Index(rest, cut); j >= 0 {
				rest = rest[:j]
			}
		}

		rest = normalize.CleanText(rest)
		if rest != "" && len(rest) <= 80 {
			return rest
		}
	}
	return ""
}
