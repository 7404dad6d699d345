package scraper

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/pegacl/pegacl/internal/models"
)

const (
	uiDetailTitleSelectors = ".top-card-layout__title, .job-details-jobs-unified-top-card__job-title, h1.t-24.t-bold"

	uiResultsSelectors = "ul.scaffold-layout__list-container li, " +
		"li.jobs-search-results__list-item, " +
		"li[data-occludable-job-id], " +
		"[data-results-list], " +
		"a[href*='/jobs/view/']"

	uiCardsSelectors = "li.jobs-search-results__list-item, " +
		"li[data-occludable-job-id], " +
		"ul.scaffold-layout__list-container li, " +
		"div.job-card-container--clickable"

	loginPollAttempts = 120
)

// runBrowserUI drives an interactive authenticated session. Any error aborts
// the whole attempt so Run can discard partial results and restart in guest
// mode; only per-card extraction failures are swallowed. Session state is
// persisted on the way out whether or not the attempt succeeded.
func (l *LinkedIn) runBrowserUI(ctx context.Context) ([]models.Job, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(false),
		Args:     []string{"--disable-blink-features=AutomationControlled", "--no-sandbox"},
	})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	bctx, err := l.newBrowserContext(browser)
	if err != nil {
		return nil, err
	}
	defer func() {
		if l.opts.StatePath != "" {
			_, _ = bctx.StorageState(l.opts.StatePath)
		}
		bctx.Close()
	}()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, err
	}

	if err := l.ensureLogin(page); err != nil {
		return nil, err
	}

	var jobs []models.Job
	for _, position := range models.Positions() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		collected, err := l.collectUICategory(page, position)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, collected...)
	}
	return jobs, nil
}

func (l *LinkedIn) newBrowserContext(browser playwright.Browser) (playwright.BrowserContext, error) {
	if l.opts.StatePath != "" {
		if _, err := os.Stat(l.opts.StatePath); err == nil {
			bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
				StorageStatePath: playwright.String(l.opts.StatePath),
			})
			if err == nil {
				return bctx, nil
			}
		}
	}
	return browser.NewContext()
}

// ensureLogin verifies the session by visiting the feed and checking the
// resulting address for login/checkpoint markers. When blocked it submits
// credentials once and polls for the wall to clear.
func (l *LinkedIn) ensureLogin(page playwright.Page) error {
	// A slow feed load is tolerated; the address check decides.
	_, _ = page.Goto("https://www.linkedin.com/feed/", playwright.PageGotoOptions{
		Timeout: playwright.Float(40_000),
	})
	if !blockedURL(page.URL()) {
		return nil
	}

	if _, err := page.Goto("https://www.linkedin.com/login", playwright.PageGotoOptions{
		Timeout: playwright.Float(60_000),
	}); err != nil {
		return fmt.Errorf("open login: %w", err)
	}
	if _, err := page.WaitForSelector("input#username", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(60_000),
	}); err != nil {
		return fmt.Errorf("login form: %w", err)
	}

	if l.opts.User != "" && l.opts.Password != "" {
		if err := page.Locator("input#username").Fill(l.opts.User); err != nil {
			return err
		}
		if err := page.Locator("input#password").Fill(l.opts.Password); err != nil {
			return err
		}
		if err := page.Locator("button[type='submit']").Click(); err != nil {
			return err
		}
	}

	for i := 0; i < loginPollAttempts; i++ {
		if page.IsClosed() {
			return fmt.Errorf("page closed during login")
		}
		if !blockedURL(page.URL()) {
			return nil
		}
		page.WaitForTimeout(2000)
	}
	return fmt.Errorf("login wall did not clear")
}

func blockedURL(address string) bool {
	return containsAny(address, "login", "authwall", "checkpoint")
}

// collectUICategory runs one search and harvests every card the result list
// will load. A category whose results never appear is skipped, not fatal;
// navigation failures are fatal so the run falls back to guest mode.
func (l *LinkedIn) collectUICategory(page playwright.Page, position models.Position) ([]models.Job, error) {
	keywords := l.opts.Keywords
	if keywords == "" {
		keywords = string(position)
	}

	if _, err := page.Goto(l.uiSearchURL(keywords), playwright.PageGotoOptions{
		Timeout:   playwright.Float(60_000),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return nil, fmt.Errorf("open search: %w", err)
	}
	l.acceptCookies(page)

	if !l.waitResults(page) {
		_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
			State:   playwright.LoadStateNetworkidle,
			Timeout: playwright.Float(10_000),
		})
		if !l.waitResults(page) {
			l.logger.Debug().Str("position", string(position)).Msg("no ui results, skipping category")
			return nil, nil
		}
	}

	l.forceLinksSameTab(page)
	l.scrollResults(page, 10)

	var jobs []models.Job
	for {
		if page.IsClosed() {
			break
		}
		cards := page.Locator(uiCardsSelectors)
		count, err := cards.Count()
		if err != nil || count == 0 {
			break
		}

		for i := 0; i < count; i++ {
			if page.IsClosed() {
				break
			}
			if job, ok := l.extractUICard(page, cards.Nth(i), position); ok {
				jobs = append(jobs, job)
			}
		}

		l.scrollResults(page, 3)
		after, err := page.Locator(uiCardsSelectors).Count()
		if err != nil || after <= count {
			break
		}
	}
	return jobs, nil
}

func (l *LinkedIn) uiSearchURL(keywords string) string {
	loc := "location=" + l.opts.Location
	if isDigits(l.opts.Location) {
		loc = "geoId=" + l.opts.Location
	}
	return fmt.Sprintf("%s?keywords=%s&%s&f_TPR=r%d", linkedInSearchURL, keywords, loc, l.opts.RecencySeconds)
}

func (l *LinkedIn) acceptCookies(page playwright.Page) {
	selectors := []string{
		"button[aria-label*='cookies' i]",
		"button:has-text('Aceptar todas')",
		"button:has-text('Aceptar todo')",
		"button:has-text('Aceptar')",
		"button:has-text('Accept all')",
		"button:has-text('Accept')",
		"button:has-text('I agree')",
	}
	for _, sel := range selectors {
		btn := page.Locator(sel)
		if n, err := btn.Count(); err == nil && n > 0 {
			if err := btn.First().Click(); err == nil {
				page.WaitForTimeout(400)
				return
			}
		}
	}
}

func (l *LinkedIn) waitResults(page playwright.Page) bool {
	_, err := page.WaitForSelector(uiResultsSelectors, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(25_000),
	})
	return err == nil
}

func (l *LinkedIn) resultsContainer(page playwright.Page) playwright.Locator {
	for _, sel := range []string{
		"section.two-pane-serp-page__results-list",
		"div.jobs-search-results-list",
		"[data-results-list]",
		"div.scaffold-layout__list",
	} {
		loc := page.Locator(sel).First()
		if n, err := loc.Count(); err == nil && n > 0 {
			return loc
		}
	}
	return page.Locator("body")
}

func (l *LinkedIn) forceLinksSameTab(page playwright.Page) {
	_, _ = page.Evaluate("document.querySelectorAll(\"a[target='_blank']\").forEach(a => a.removeAttribute('target'))")
}

// scrollResults pushes the result container down until a scroll stops
// producing new cards or maxScrolls is reached.
func (l *LinkedIn) scrollResults(page playwright.Page, maxScrolls int) {
	container := l.resultsContainer(page)
	for i := 0; i < maxScrolls; i++ {
		if page.IsClosed() {
			return
		}
		before, err := page.Locator(uiCardsSelectors).Count()
		if err != nil {
			return
		}
		if _, err := container.Evaluate("el => el.scrollBy(0, el.scrollHeight)", nil); err != nil {
			if err := container.Focus(); err == nil {
				_ = page.Keyboard().Press("PageDown")
			}
		}
		page.WaitForTimeout(900)
		after, err := page.Locator(uiCardsSelectors).Count()
		if err != nil || after <= before {
			return
		}
	}
}

// extractUICard opens one result, waits for the detail title landmark and
// maps the rendered document. Failures here are swallowed so the loop moves
// on to the next card.
func (l *LinkedIn) extractUICard(page playwright.Page, card playwright.Locator, position models.Position) (models.Job, bool) {
	target := card
	anchor := card.Locator("a[href*='/jobs/view/']")
	if n, err := anchor.Count(); err == nil && n > 0 {
		target = anchor.First()
	}
	if err := target.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(10_000)}); err != nil {
		return models.Job{}, false
	}
	if _, err := page.WaitForSelector(uiDetailTitleSelectors, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(20_000),
	}); err != nil {
		return models.Job{}, false
	}

	html, err := page.Content()
	if err != nil {
		return models.Job{}, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Job{}, false
	}

	id := identity{
		url:      detailURLFromDoc(doc, page.URL()),
		position: position,
		website:  models.WebsiteLinkedIn,
	}
	return jobFromLinkedInDetail(id, doc, l.now(), modalityFromText(doc.Text())), true
}

func detailURLFromDoc(doc *goquery.Document, fallback string) string {
	if href := doc.Find("link[rel='canonical']").First().AttrOr("href", ""); href != "" {
		return strings.SplitN(href, "?", 2)[0]
	}
	sel := doc.Find("a.base-card__full-link, a.topcard__button, a.topcard__org-name-link, a[href*='/jobs/view/']").First()
	if href := sel.AttrOr("href", ""); strings.HasPrefix(href, "http") {
		return strings.SplitN(href, "?", 2)[0]
	}
	return strings.SplitN(fallback, "?", 2)[0]
}
