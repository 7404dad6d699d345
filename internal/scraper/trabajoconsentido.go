package scraper

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
)

const (
	tcsListURL      = "https://api.trabajoconsentido.com/offers"
	tcsOfferBaseURL = "https://api.trabajoconsentido.com/offers/slug"
	tcsJobBaseURL   = "https://listado.trabajoconsentido.com/trabajos/"
)

// TrabajoConSentido searches the TrabajoConSentido offer API. Listings are
// tag-filtered by category; when a tag draws nothing the unfiltered listing
// is tried once before giving up on the category.
type TrabajoConSentido struct {
	client jsonClient
	logger zerolog.Logger
}

func NewTrabajoConSentido(client jsonClient, logger zerolog.Logger) *TrabajoConSentido {
	return &TrabajoConSentido{
		client: client,
		logger: logger.With().Str("site", string(models.WebsiteTrabajoConSentido)).Logger(),
	}
}

func (s *TrabajoConSentido) Name() string {
	return string(models.WebsiteTrabajoConSentido)
}

type tcsList struct {
	Content struct {
		Offers []tcsListing `json:"offers"`
	} `json:"content"`
}

type tcsListing struct {
	Slug string `json:"slug"`
}

type tcsDetail struct {
	Content struct {
		Offer tcsOffer `json:"offer"`
	} `json:"content"`
}

type tcsOffer struct {
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Organization struct {
		Name string `json:"name"`
	} `json:"organization"`
	City        string `json:"city"`
	Description string `json:"description"`
	ModeratedAt string `json:"moderatedAt"`
	WorkingDay  string `json:"workingDay"`
	WorkingMode string `json:"workingMode"`
}

func (s *TrabajoConSentido) Run(ctx context.Context) ([]models.Job, error) {
	var all []models.Job
	for _, position := range models.Positions() {
		for _, offerURL := range s.offerURLs(ctx, position) {
			if job, ok := s.job(ctx, offerURL, position); ok {
				all = append(all, job)
			}
		}
	}
	return all, nil
}

func (s *TrabajoConSentido) offerURLs(ctx context.Context, position models.Position) []string {
	urls := s.fetchOfferURLs(ctx, tcsListURL+"?tags="+url.QueryEscape(string(position)))
	if len(urls) > 0 {
		return urls
	}
	// The tag may not be recognized; fall back to the unfiltered listing.
	return s.fetchOfferURLs(ctx, tcsListURL)
}

func (s *TrabajoConSentido) fetchOfferURLs(ctx context.Context, listURL string) []string {
	var data tcsList
	if err := s.client.GetJSON(ctx, listURL, nil, &data); err != nil {
		return nil
	}

	urls := make([]string, 0, len(data.Content.Offers))
	for _, listing := range data.Content.Offers {
		if listing.Slug == "" {
			continue
		}
		urls = append(urls, tcsOfferBaseURL+"/"+listing.Slug)
	}
	return urls
}

func (s *TrabajoConSentido) job(ctx context.Context, offerURL string, position models.Position) (models.Job, bool) {
	var data tcsDetail
	if err := s.client.GetJSON(ctx, offerURL, nil, &data); err != nil {
		return models.Job{}, false
	}

	offer := data.Content.Offer
	if offer.Slug == "" {
		s.logger.Debug().Err(&MappingError{Website: models.WebsiteTrabajoConSentido, Field: "slug"}).Msg("skipping record")
		return models.Job{}, false
	}

	id := identity{
		url:      tcsJobBaseURL + offer.Slug,
		position: position,
		website:  models.WebsiteTrabajoConSentido,
	}
	return jobFromTrabajoConSentido(id, offer), true
}
