package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
)

const (
	trabajandoSearchURL    = "https://www.trabajando.cl/api/searchjob?orden=RANKING"
	trabajandoOfferBaseURL = "https://www.trabajando.cl/api/ofertas/"
	trabajandoJobBaseURL   = "https://www.trabajando.cl/trabajo-empleo/"
)

// Trabajando walks the Trabajando search API in three stages: the search
// endpoint reports the page count, each page lists offer ids, and each offer
// id resolves to a detail payload.
type Trabajando struct {
	client jsonClient
	logger zerolog.Logger
}

func NewTrabajando(client jsonClient, logger zerolog.Logger) *Trabajando {
	return &Trabajando{
		client: client,
		logger: logger.With().Str("site", string(models.WebsiteTrabajando)).Logger(),
	}
}

func (t *Trabajando) Name() string {
	return string(models.WebsiteTrabajando)
}

func (t *Trabajando) headers() map[string]string {
	return map[string]string{
		"Referer": "https://www.trabajando.cl/trabajo-empleo",
	}
}

type trabajandoSearch struct {
	CantidadPaginas int                 `json:"cantidadPaginas"`
	Ofertas         []trabajandoListing `json:"ofertas"`
}

type trabajandoListing struct {
	ID json.Number `json:"idOferta"`
}

type trabajandoOffer struct {
	ID                    json.Number `json:"idOferta"`
	NombreCargo           string      `json:"nombreCargo"`
	NombreEmpresaFantasia string      `json:"nombreEmpresaFantasia"`
	Ubicacion             struct {
		Direccion string `json:"direccion"`
	} `json:"ubicacion"`
	DescripcionOferta             string `json:"descripcionOferta"`
	RequisitosMinimos             string `json:"requisitosMinimos"`
	FechaPublicacionFormatoIngles string `json:"fechaPublicacionFormatoIngles"`
	NombreJornada                 string `json:"nombreJornada"`
}

func (t *Trabajando) Run(ctx context.Context) ([]models.Job, error) {
	var all []models.Job
	for _, position := range models.Positions() {
		for _, page := range t.pages(ctx, position) {
			for _, offerURL := range t.offers(ctx, page) {
				if job, ok := t.job(ctx, offerURL, position); ok {
					all = append(all, job)
				}
			}
		}
	}
	return all, nil
}

func (t *Trabajando) pages(ctx context.Context, position models.Position) []string {
	base := trabajandoSearchURL + "&palabraClave=" + url.QueryEscape(string(position))

	var data trabajandoSearch
	if err := t.client.GetJSON(ctx, base, t.headers(), &data); err != nil {
		return nil
	}

	pages := make([]string, 0, data.CantidadPaginas)
	for i := 0; i < data.CantidadPaginas; i++ {
		pages = append(pages, fmt.Sprintf("%s&pagina=%d", base, i+1))
	}
	return pages
}

func (t *Trabajando) offers(ctx context.Context, page string) []string {
	var data trabajandoSearch
	if err := t.client.GetJSON(ctx, page, t.headers(), &data); err != nil {
		return nil
	}

	offers := make([]string, 0, len(data.Ofertas))
	for _, listing := range data.Ofertas {
		if listing.ID.String() == "" {
			t.logger.Debug().Err(&MappingError{Website: models.WebsiteTrabajando, Field: "idOferta"}).Msg("skipping listing")
			continue
		}
		offers = append(offers, trabajandoOfferBaseURL+listing.ID.String())
	}
	return offers
}

func (t *Trabajando) job(ctx context.Context, offerURL string, position models.Position) (models.Job, bool) {
	var offer trabajandoOffer
	if err := t.client.GetJSON(ctx, offerURL, t.headers(), &offer); err != nil {
		return models.Job{}, false
	}
	if offer.ID.String() == "" {
		t.logger.Debug().Err(&MappingError{Website: models.WebsiteTrabajando, Field: "idOferta"}).Msg("skipping record")
		return models.Job{}, false
	}

	id := identity{
		url:      trabajandoJobBaseURL + string(position) + "/trabajo/" + offer.ID.String(),
		position: position,
		website:  models.WebsiteTrabajando,
	}
	return jobFromTrabajando(id, offer), true
}
