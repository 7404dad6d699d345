package scraper

import (
	"context"

	"github.com/pegacl/pegacl/internal/models"
)

// Scraper is one posting source. Run visits every search category
// exhaustively and returns the postings it could resolve; failures inside a
// run surface as fewer records, not as an error. A returned error means the
// whole source was unreachable and is reported as zero records upstream.
type Scraper interface {
	Name() string
	Run(ctx context.Context) ([]models.Job, error)
}

// jsonClient is the slice of network.JSONClient the JSON adapters consume.
type jsonClient interface {
	GetJSON(ctx context.Context, target string, headers map[string]string, out any) error
	PostJSON(ctx context.Context, target string, headers map[string]string, body any, out any) error
}

// htmlFetcher is the slice of network.HTMLClient the guest path consumes.
type htmlFetcher interface {
	FetchText(ctx context.Context, target string) (string, error)
}
