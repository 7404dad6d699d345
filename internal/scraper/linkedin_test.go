package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
)

const guestListPage = `
<ul>
  <li class="base-card">
    <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/100?position=1&amp;pageNum=0"></a>
    <h3>Backend Developer</h3>
    <span>Trabajo remoto</span>
    <time datetime="hace 2 días"></time>
  </li>
  <li class="job-search-card">
    <a class="result-card__full-card-link" href="https://www.linkedin.com/jobs/view/200"></a>
    <h3>QA Engineer</h3>
    <time class="job-search-card__listdate">3 weeks ago</time>
  </li>
  <li class="base-card">
    <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/100?refId=x"></a>
  </li>
  <li class="base-card">
    <span>sin enlace</span>
  </li>
</ul>`

const guestDetailPage = `
<html><body>
  <h1 class="top-card-layout__title">Backend Developer</h1>
  <a class="topcard__org-name-link" href="#">Acme</a>
  <span class="topcard__flavor topcard__flavor--bullet">Santiago</span>
</body></html>`

func TestParseGuestList(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	links := parseGuestList(guestListPage, now)

	// The query string is stripped and the card without a link is dropped.
	// The repeated href survives here; the page loop dedups across pages.
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if links[0].url != "https://www.linkedin.com/jobs/view/100" {
		t.Fatalf("unexpected url: %q", links[0].url)
	}
	if !links[0].posted.Equal(now.Add(-48 * time.Hour)) {
		t.Fatalf("unexpected posted instant: %v", links[0].posted)
	}
	if links[0].modality != models.ModalityRemoto {
		t.Fatalf("unexpected modality: %s", links[0].modality)
	}
	if !links[1].posted.Equal(now.Add(-21 * 24 * time.Hour)) {
		t.Fatalf("unexpected posted instant for week phrase: %v", links[1].posted)
	}
	if links[1].modality != models.ModalityPresencial {
		t.Fatalf("no cue should mean presencial, got %s", links[1].modality)
	}
}

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		text string
		want time.Time
	}{
		{"hace 2 días", now.Add(-48 * time.Hour)},
		{"hace un día", now.Add(-24 * time.Hour)},
		{"5 hours ago", now.Add(-5 * time.Hour)},
		{"hace 1 semana", now.Add(-7 * 24 * time.Hour)},
		{"3 weeks ago", now.Add(-21 * 24 * time.Hour)},
		{"Recién publicado", now},
		{"", now},
	}

	for _, tc := range cases {
		if got := parseRelativeDate(tc.text, now); !got.Equal(tc.want) {
			t.Fatalf("parseRelativeDate(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestModalityFromText(t *testing.T) {
	cases := []struct {
		text string
		want models.Modality
	}{
		{"Trabajo Remoto en Chile", models.ModalityRemoto},
		{"remote-first team", models.ModalityRemoto},
		{"Modalidad híbrida", models.ModalityHibrido},
		{"hybrid schedule", models.ModalityHibrido},
		{"Oficina en Las Condes", models.ModalityPresencial},
	}

	for _, tc := range cases {
		if got := modalityFromText(tc.text); got != tc.want {
			t.Fatalf("modalityFromText(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestGuestPageURL(t *testing.T) {
	l := NewLinkedIn(LinkedInOptions{
		Location:       "104621616",
		RecencySeconds: 86400,
		MaxPages:       6,
	}, nil, zerolog.Nop())

	got := l.guestPageURL(models.PositionBackend, 1)
	if !strings.HasPrefix(got, linkedInGuestURL+"?") {
		t.Fatalf("unexpected base: %q", got)
	}
	// A numeric geoId cannot be used on the guest surface.
	if !strings.Contains(got, "location=Chile") {
		t.Fatalf("expected location fallback, got %q", got)
	}
	if !strings.Contains(got, "f_TPR=r86400") {
		t.Fatalf("expected recency filter, got %q", got)
	}
	if !strings.Contains(got, "start=25") {
		t.Fatalf("expected offset 25 for page 1, got %q", got)
	}
	if !strings.Contains(got, "keywords=backend") {
		t.Fatalf("expected the category as keyword, got %q", got)
	}
}

func TestGuestPageURLKeywordOverride(t *testing.T) {
	l := NewLinkedIn(LinkedInOptions{Keywords: "golang", Location: "Chile"}, nil, zerolog.Nop())
	if got := l.guestPageURL(models.PositionData, 0); !strings.Contains(got, "keywords=golang") {
		t.Fatalf("configured keywords should override the category, got %q", got)
	}
}

func TestLinkedInRunFallsBackToGuest(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeHTMLFetcher{pages: map[string]string{
		"https://www.linkedin.com/jobs/view/100": guestDetailPage,
	}}

	l := NewLinkedIn(LinkedInOptions{Location: "Chile", RecencySeconds: 86400, MaxPages: 6}, fetcher, zerolog.Nop())
	l.now = func() time.Time { return now }
	l.runUI = func(context.Context) ([]models.Job, error) {
		return []models.Job{{Title: "descartado"}}, errors.New("browser crashed")
	}

	// Only the first backend page resolves; every other fetch misses and the
	// page loop stops at the first error.
	fetcher.pages[l.guestPageURL(models.PositionBackend, 0)] = guestListPage

	jobs, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job from the guest path, got %d", len(jobs))
	}

	job := jobs[0]
	if job.Title != "Backend Developer" || job.Company != "Acme" {
		t.Fatalf("unexpected detail mapping: %+v", job)
	}
	if job.Website != models.WebsiteLinkedIn || job.Position != models.PositionBackend {
		t.Fatalf("identity fields not stamped: %+v", job)
	}
	if !job.PublishedAt.Equal(now.Add(-48 * time.Hour)) {
		t.Fatalf("posted hint from the listing should survive, got %v", job.PublishedAt)
	}
	if job.Modality != models.ModalityRemoto {
		t.Fatalf("modality hint from the listing should survive, got %s", job.Modality)
	}
}

func TestLinkedInRunHeadlessSkipsUI(t *testing.T) {
	fetcher := &fakeHTMLFetcher{pages: map[string]string{}}
	l := NewLinkedIn(LinkedInOptions{Location: "Chile", MaxPages: 2, Headless: true}, fetcher, zerolog.Nop())
	l.runUI = func(context.Context) ([]models.Job, error) {
		t.Fatalf("headless mode must never start the browser")
		return nil, nil
	}

	if _, err := l.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestLinkedInRunKeepsUIResults(t *testing.T) {
	fetcher := &fakeHTMLFetcher{pages: map[string]string{}}
	l := NewLinkedIn(LinkedInOptions{Location: "Chile", MaxPages: 2}, fetcher, zerolog.Nop())
	want := []models.Job{{Title: "UI", URL: "https://www.linkedin.com/jobs/view/7"}}
	l.runUI = func(context.Context) ([]models.Job, error) { return want, nil }

	jobs, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "UI" {
		t.Fatalf("expected the ui results untouched, got %+v", jobs)
	}
	if len(fetcher.calls) != 0 {
		t.Fatalf("guest fetches must not run after a ui success: %v", fetcher.calls)
	}
}

func TestFirstInt(t *testing.T) {
	cases := []struct {
		text     string
		fallback int
		want     int
	}{
		{"hace 2 días", 1, 2},
		{"hace un día", 1, 1},
		{"12 weeks", 1, 12},
		{"", 3, 3},
	}
	for _, tc := range cases {
		if got := firstInt(tc.text, tc.fallback); got != tc.want {
			t.Fatalf("firstInt(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestIsDigits(t *testing.T) {
	if !isDigits("104621616") {
		t.Fatalf("expected digits")
	}
	if isDigits("") || isDigits("10a") {
		t.Fatalf("expected non-digits")
	}
}
