package scraper

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pegacl/pegacl/internal/models"
	"github.com/pegacl/pegacl/internal/network"
)

func TestTrabajandoRun(t *testing.T) {
	searchBase := trabajandoSearchURL + "&palabraClave=backend"
	responses := map[string]string{
		searchBase:             `{"cantidadPaginas": 1}`,
		searchBase + "&pagina=1": `{"ofertas": [{"idOferta": 123}, {}]}`,
		trabajandoOfferBaseURL + "123": `{
			"idOferta": 123,
			"nombreCargo": "Ingeniero Backend",
			"nombreEmpresaFantasia": "Beta",
			"ubicacion": {"direccion": "Providencia"},
			"descripcionOferta": "Texto",
			"requisitosMinimos": "Titulado",
			"fechaPublicacionFormatoIngles": "2023-11-30",
			"nombreJornada": "Teletrabajo"
		}`,
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

	jobs, err := NewTrabajando(client, zerolog.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// The id-less listing entry is skipped.
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	job := jobs[0]
	if job.URL != trabajandoJobBaseURL+"backend/trabajo/123" {
		t.Fatalf("unexpected url: %q", job.URL)
	}
	if job.Description != "Texto\nTitulado" {
		t.Fatalf("unexpected description: %q", job.Description)
	}
	if job.Modality != models.ModalityRemoto {
		t.Fatalf("unexpected modality: %s", job.Modality)
	}
	if job.Position != models.PositionBackend || job.Website != models.WebsiteTrabajando {
		t.Fatalf("identity fields not stamped: %+v", job)
	}
}

func TestTrabajandoRunDetailWithoutID(t *testing.T) {
	searchBase := trabajandoSearchURL + "&palabraClave=backend"
	responses := map[string]string{
		searchBase:                   `{"cantidadPaginas": 1}`,
		searchBase + "&pagina=1":     `{"ofertas": [{"idOferta": 9}]}`,
		trabajandoOfferBaseURL + "9": `{"nombreCargo": "Sin identidad"}`,
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

	jobs, err := NewTrabajando(client, zerolog.Nop()).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("a detail without idOferta must be skipped, got %d jobs", len(jobs))
	}
}
