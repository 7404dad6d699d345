package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
)

const (
	linkedInSearchURL = "https://www.linkedin.com/jobs/search/"
	linkedInGuestURL  = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

	guestPageSize = 25
)

// LinkedInOptions is the configuration surface of the LinkedIn adapter.
type LinkedInOptions struct {
	Keywords       string // overrides the per-category keyword when set
	Location       string // place name or numeric geoId
	RecencySeconds int    // recency filter: postings within the last N seconds
	MaxPages       int    // guest pagination cap
	Headless       bool   // skip the interactive UI path entirely
	User           string
	Password       string
	StatePath      string // persisted browser session state
}

// LinkedIn acquires postings either through an interactive authenticated
// browser session or, when that fails or is disabled, through the public
// guest listing endpoint.
type LinkedIn struct {
	opts   LinkedInOptions
	client htmlFetcher
	logger zerolog.Logger

	// runUI and now are swappable in tests.
	runUI func(ctx context.Context) ([]models.Job, error)
	now   func() time.Time
}

func NewLinkedIn(opts LinkedInOptions, client htmlFetcher, logger zerolog.Logger) *LinkedIn {
	l := &LinkedIn{
		opts:   opts,
		client: client,
		logger: logger.With().Str("site", string(models.WebsiteLinkedIn)).Logger(),
	}
	l.runUI = l.runBrowserUI
	l.now = func() time.Time { return time.Now().UTC() }
	return l
}

func (l *LinkedIn) Name() string {
	return string(models.WebsiteLinkedIn)
}

// acquisitionState drives mode selection. The UI attempt is all-or-nothing:
// any failure discards its partial results and the guest machine runs fresh
// for every category, so a run never mixes UI and guest records.
type acquisitionState int

const (
	stateStart acquisitionState = iota
	stateUI
	stateGuest
	stateDone
)

func (l *LinkedIn) Run(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	for state := stateStart; state != stateDone; {
		switch state {
		case stateStart:
			if l.opts.Headless {
				state = stateGuest
			} else {
				state = stateUI
			}
		case stateUI:
			collected, err := l.runUI(ctx)
			if err != nil {
				l.logger.Warn().Err(err).Msg("ui session failed, falling back to guest mode")
				state = stateGuest
				continue
			}
			jobs = collected
			state = stateDone
		case stateGuest:
			jobs = l.runGuest(ctx)
			state = stateDone
		}
	}
	return jobs, nil
}

// guestLink is a detail URL plus the hints parsed from its listing entry.
// The detail document itself carries neither a date nor a modality.
type guestLink struct {
	url      string
	posted   time.Time
	modality models.Modality
}

func (l *LinkedIn) runGuest(ctx context.Context) []models.Job {
	var jobs []models.Job
	for _, position := range models.Positions() {
		links := l.collectGuestLinks(ctx, position)
		for _, link := range links {
			if job, ok := l.guestJob(ctx, link, position); ok {
				jobs = append(jobs, job)
			}
		}
		l.logger.Debug().Str("position", string(position)).Int("links", len(links)).Msg("guest category done")
	}
	return jobs
}

// collectGuestLinks pages through the public listing in fixed increments,
// stopping at the page cap, an empty page, or a fetch that yields nothing.
// Links already seen on an earlier page are skipped.
func (l *LinkedIn) collectGuestLinks(ctx context.Context, position models.Position) []guestLink {
	var links []guestLink
	seen := map[string]struct{}{}

	for page := 0; page < l.opts.MaxPages; page++ {
		html, err := l.client.FetchText(ctx, l.guestPageURL(position, page))
		if err != nil {
			break
		}
		entries := parseGuestList(html, l.now())
		if len(entries) == 0 {
			break
		}
		for _, entry := range entries {
			if _, ok := seen[entry.url]; ok {
				continue
			}
			seen[entry.url] = struct{}{}
			links = append(links, entry)
		}
	}
	return links
}

func (l *LinkedIn) guestPageURL(position models.Position, page int) string {
	keywords := l.opts.Keywords
	if keywords == "" {
		keywords = string(position)
	}
	location := l.opts.Location
	if isDigits(location) {
		// geoIds only resolve on the UI surface.
		location = "Chile"
	}

	values := url.Values{}
	values.Set("keywords", keywords)
	values.Set("f_TPR", fmt.Sprintf("r%d", l.opts.RecencySeconds))
	values.Set("start", strconv.Itoa(page*guestPageSize))
	values.Set("location", location)
	return linkedInGuestURL + "?" + values.Encode()
}

func parseGuestList(html string, now time.Time) []guestLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var out []guestLink
	doc.Find(".base-card, .job-search-card").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.Find("a.base-card__full-link, a.result-card__full-card-link").First().AttrOr("href", ""))
		if href == "" {
			return
		}
		out = append(out, guestLink{
			url:      strings.SplitN(href, "?", 2)[0],
			posted:   parseRelativeDate(guestPostedText(s), now),
			modality: modalityFromText(s.Text()),
		})
	})
	return out
}

func guestPostedText(s *goquery.Selection) string {
	if t := s.Find("time").First(); t.Length() > 0 {
		if v := strings.TrimSpace(t.AttrOr("datetime", "")); v != "" {
			return v
		}
		if v := strings.TrimSpace(t.Text()); v != "" {
			return v
		}
	}
	return strings.TrimSpace(s.Find(".job-search-card__listdate, .job-search-card__listdate--new").First().Text())
}

func (l *LinkedIn) guestJob(ctx context.Context, link guestLink, position models.Position) (models.Job, bool) {
	html, err := l.client.FetchText(ctx, link.url)
	if err != nil {
		return models.Job{}, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Job{}, false
	}

	id := identity{url: link.url, position: position, website: models.WebsiteLinkedIn}
	return jobFromLinkedInDetail(id, doc, link.posted, link.modality), true
}

// parseRelativeDate converts listing phrases like "hace 2 días" or
// "3 weeks ago" into an absolute instant. A phrase with no digit counts as
// one unit; anything unrecognized is treated as just posted.
func parseRelativeDate(text string, now time.Time) time.Time {
	text = strings.ToLower(strings.TrimSpace(text))
	switch {
	case containsAny(text, "hour", "hora"):
		return now.Add(-time.Duration(firstInt(text, 1)) * time.Hour)
	case containsAny(text, "day", "día", "dias", "días"):
		return now.Add(-time.Duration(firstInt(text, 1)) * 24 * time.Hour)
	case containsAny(text, "week", "semana"):
		return now.Add(-time.Duration(firstInt(text, 1)) * 7 * 24 * time.Hour)
	}
	return now
}

// modalityFromText scans visible text for language cues, in Spanish or
// English. No cue means presencial.
func modalityFromText(text string) models.Modality {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "remoto") || strings.Contains(text, "remote"):
		return models.ModalityRemoto
	case containsAny(text, "híbrido", "hibrido", "hybrid"):
		return models.ModalityHibrido
	}
	return models.ModalityPresencial
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// firstInt returns the first run of digits in s, or fallback when there is
// none.
func firstInt(s string, fallback int) int {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(s[start:i])
			return n
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(s[start:])
		return n
	}
	return fallback
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
