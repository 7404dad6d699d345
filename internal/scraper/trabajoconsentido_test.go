package scraper

import (
	"context"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
	"github.com/pegacl/pegacl/internal/network"
)

func TestTrabajoConSentidoRun(t *testing.T) {
	responses := map[string]string{
		tcsListURL + "?tags=backend": `{"content": {"offers": [{"slug": "dev-java"}, {"slug": ""}]}}`,
		tcsOfferBaseURL + "/dev-java": `{"content": {"offer": {
			"slug": "dev-java",
			"title": "Desarrollador Java",
			"organization": {"name": "Fundación X"},
			"city": "Valparaíso",
			"description": "ONG",
			"moderatedAt": "2024-02-10T18:22:01.000Z",
			"workingDay": "Completa",
			"workingMode": "Remoto"
		}}}`,
	}

	client := &fakeJSONClient{
		get: func(target string, out any) error {
			payload, ok := responses[target]
			if !ok {
				return network.ErrNoData
			}
			return unmarshalInto(t, out, payload)
		},
	}

	jobs, err := NewTrabajoConSentido(client, zerolog.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	job := jobs[0]
	if job.URL != tcsJobBaseURL+"dev-java" {
		t.Fatalf("unexpected url: %q", job.URL)
	}
	if job.Modality != models.ModalityRemoto {
		t.Fatalf("unexpected modality: %s", job.Modality)
	}
	if job.JobType != models.JobTypeFullTime {
		t.Fatalf("unexpected job type: %s", job.JobType)
	}
}

func TestTrabajoConSentidoTagFallback(t *testing.T) {
	var calls []string
	responses := map[string]string{
		tcsListURL + "?tags=" + url.QueryEscape("product_manager"): `{"content": {"offers": []}}`,
		tcsListURL: `{"content": {"offers": [{"slug": "coordinador"}]}}`,
	}

	client := &fakeJSONClient{
		get: func(target string, out any) error {
			calls = append(calls, target)
			payload, ok := responses[target]
			if !ok {
				return network.ErrNoData
			}
			return unmarshalInto(t, out, payload)
		},
	}

	s := NewTrabajoConSentido(client, zerolog.Nop())
	urls := s.offerURLs(context.Background(), models.PositionProductManager)

	if len(urls) != 1 || urls[0] != tcsOfferBaseURL+"/coordinador" {
		t.Fatalf("expected the unfiltered listing to back the empty tag, got %v", urls)
	}
	if len(calls) != 2 || calls[1] != tcsListURL {
		t.Fatalf("expected a single fallback fetch, got %v", calls)
	}
}

func TestTrabajoConSentidoDetailWithoutSlug(t *testing.T) {
	responses := map[string]string{
		tcsListURL + "?tags=backend":  `{"content": {"offers": [{"slug": "fantasma"}]}}`,
		tcsOfferBaseURL + "/fantasma": `{"content": {"offer": {"title": "Sin slug"}}}`,
	}

	client := &fakeJSONClient{
		get: func(target string, out any) error {
			payload, ok := responses[target]
			if !ok {
				return network.ErrNoData
			}
			return unmarshalInto(t, out, payload)
		},
	}

	jobs, err := NewTrabajoConSentido(client, zerolog.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("a detail without slug must be skipped, got %d jobs", len(jobs))
	}
}
