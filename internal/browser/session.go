// Package browser owns the playwright session lifecycle for drivers
// that can't get away with plain HTTP. A Session is a scoped resource:
// acquire at the top of a driver invocation, defer Close, never share
// across goroutines — pages are not safe for concurrent navigation.
package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// launch flags that dampen the usual headless-automation fingerprint
var launchArgs = []string{
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-blink-features=AutomationControlled",
}

// hide navigator.webdriver before any page script runs
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewSession launches headless chromium with the stealth setup and
// returns a ready page. Callers must Close on every exit path.
func NewSession() (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     launchArgs,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		_ = bctx.Close()
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("add stealth script: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new page: %w", err)
	}

	return &Session{pw: pw, browser: b, context: bctx, page: page}, nil
}

func (s *Session) Page() playwright.Page { return s.page }

// Close tears the whole stack down. Safe to call on a nil session and
// tolerant of partial teardown failures.
func (s *Session) Close() {
	if s == nil {
		return
	}
	if s.context != nil {
		_ = s.context.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		_ = s.pw.Stop()
	}
}

// Available reports whether the playwright runtime (driver + browser)
// is installed, without launching a browser. Drivers check this at
// construction so a missing runtime disables the source instead of
// failing cycles.
func Available() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("playwright runtime unavailable: %w", err)
	}
	return pw.Stop()
}
