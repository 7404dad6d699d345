package scraper

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestRegistryBuildsEveryAdapter(t *testing.T) {
	registry, err := Registry(LinkedInOptions{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("registry failed: %v", err)
	}

	for _, site := range []string{"laborum", "trabajando", "trabajoconsentido", "linkedin"} {
		sc, ok := registry[site]
		if !ok {
			t.Fatalf("missing adapter for %s", site)
		}
		if sc.Name() != site {
			t.Fatalf("adapter %s reports name %s", site, sc.Name())
		}
	}
	if len(registry) != 4 {
		t.Fatalf("unexpected registry size: %d", len(registry))
	}
}

func TestNormalizeSites(t *testing.T) {
	got := NormalizeSites([]string{" Laborum ", "", "LINKEDIN"})
	if len(got) != 2 || got[0] != "laborum" || got[1] != "linkedin" {
		t.Fatalf("unexpected normalization: %v", got)
	}
}
