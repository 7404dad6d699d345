package scraper

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
)

const (
	laborumSearchURL  = "https://www.laborum.cl/api/avisos/searchV2"
	laborumJobBaseURL = "https://www.laborum.cl/empleos/"
)

// Laborum searches the Laborum posting API. The search endpoint both reports
// the page count and carries the full offer payloads, so there is no separate
// detail fetch.
type Laborum struct {
	client jsonClient
	logger zerolog.Logger
}

func NewLaborum(client jsonClient, logger zerolog.Logger) *Laborum {
	return &Laborum{
		client: client,
		logger: logger.With().Str("site", string(models.WebsiteLaborum)).Logger(),
	}
}

func (l *Laborum) Name() string {
	return string(models.WebsiteLaborum)
}

func (l *Laborum) headers() map[string]string {
	return map[string]string{
		"Referer":   "https://www.laborum.cl/empleos-busqueda.html?recientes=true",
		"X-Site-Id": "BMCL",
	}
}

type laborumSearch struct {
	TotalSearched int            `json:"totalSearched"`
	Size          int            `json:"size"`
	Content       []laborumOffer `json:"content"`
}

type laborumOffer struct {
	ID               json.Number    `json:"id"`
	Titulo           string         `json:"titulo"`
	Empresa          laborumCompany `json:"empresa"`
	Localizacion     string         `json:"localizacion"`
	Detalle          string         `json:"detalle"`
	FechaPublicacion string         `json:"fechaPublicacion"`
	TipoTrabajo      string         `json:"tipoTrabajo"`
	ModalidadTrabajo string         `json:"modalidadTrabajo"`
}

// laborumCompany tolerates both the object form {"nombre": ...} and a bare
// string, which the API mixes freely.
type laborumCompany struct {
	Nombre string
}

func (c *laborumCompany) UnmarshalJSON(data []byte) error {
	var obj struct {
		Nombre string `json:"nombre"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		c.Nombre = obj.Nombre
		return nil
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		c.Nombre = plain
	}
	return nil
}

func (c laborumCompany) NameOrDefault() string {
	if strings.TrimSpace(c.Nombre) == "" {
		return "Sin empresa"
	}
	return c.Nombre
}

func (l *Laborum) Run(ctx context.Context) ([]models.Job, error) {
	var all []models.Job
	for _, position := range models.Positions() {
		for _, page := range l.pages(ctx, position) {
			all = append(all, l.jobs(ctx, position, page)...)
		}
	}
	return all, nil
}

// pages probes the first result page and derives the page count from the
// reported total and page size. An unreachable listing yields no pages.
func (l *Laborum) pages(ctx context.Context, position models.Position) []int {
	var data laborumSearch
	if err := l.client.PostJSON(ctx, laborumSearchURL, l.headers(), l.searchBody(position, 1), &data); err != nil {
		return nil
	}
	if data.Size <= 0 {
		return nil
	}

	total := (data.TotalSearched + data.Size - 1) / data.Size
	pages := make([]int, 0, total)
	for page := 1; page <= total; page++ {
		pages = append(pages, page)
	}
	return pages
}

func (l *Laborum) jobs(ctx context.Context, position models.Position, page int) []models.Job {
	var data laborumSearch
	if err := l.client.PostJSON(ctx, laborumSearchURL, l.headers(), l.searchBody(position, page), &data); err != nil {
		return nil
	}

	jobs := make([]models.Job, 0, len(data.Content))
	for _, offer := range data.Content {
		if offer.ID.String() == "" {
			l.logger.Debug().Err(&MappingError{Website: models.WebsiteLaborum, Field: "id"}).Msg("skipping record")
			continue
		}
		id := identity{
			url:      laborumJobBaseURL + offer.ID.String(),
			position: position,
			website:  models.WebsiteLaborum,
		}
		jobs = append(jobs, jobFromLaborum(id, offer))
	}
	return jobs
}

func (l *Laborum) searchBody(position models.Position, page int) map[string]any {
	return map[string]any{
		"query":  string(position),
		"pagina": page,
	}
}
