package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pegacl/pegacl/internal/models"
)

// MappingError reports a payload missing a structurally required identity
// field. The affected record is skipped; missing optional fields never raise
// it, they map to unset.
type MappingError struct {
	Website models.Website
	Field   string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s: payload missing %s", e.Website, e.Field)
}

// identity carries the fields known before a detail payload is mapped. They
// come from the adapter's search loop, never from parsed content.
type identity struct {
	url      string
	position models.Position
	website  models.Website
}

// jobFromLaborum maps a Laborum search entry. Dates arrive as DD-MM-YYYY.
// Anything but the literal "Full-time" counts as part-time, matching the
// upstream contract.
func jobFromLaborum(id identity, offer laborumOffer) models.Job {
	job := models.Job{
		Title:       offer.Titulo,
		Company:     offer.Empresa.NameOrDefault(),
		URL:         id.url,
		PublishedAt: parseDayMonthYear(offer.FechaPublicacion),
		Position:    id.position,
		Website:     id.website,
		Location:    offer.Localizacion,
		Description: offer.Detalle,
	}

	if offer.TipoTrabajo == "Full-time" {
		job.JobType = models.JobTypeFullTime
	} else {
		job.JobType = models.JobTypePartTime
	}

	switch offer.ModalidadTrabajo {
	case "Presencial":
		job.Modality = models.ModalityPresencial
	case "Híbrido":
		job.Modality = models.ModalityHibrido
	case "Remoto":
		job.Modality = models.ModalityRemoto
	}

	job.IsInternship = models.IsInternshipTitle(job.Title)
	return job
}

// jobFromTrabajando maps a Trabajando offer detail. The description is always
// the offer text plus the minimum requirements, in that order. An unknown
// jornada label counts as presencial, not unset.
func jobFromTrabajando(id identity, offer trabajandoOffer) models.Job {
	job := models.Job{
		Title:       offer.NombreCargo,
		Company:     offer.NombreEmpresaFantasia,
		URL:         id.url,
		PublishedAt: parseISODate(offer.FechaPublicacionFormatoIngles),
		Position:    id.position,
		Website:     id.website,
		Location:    offer.Ubicacion.Direccion,
		Description: offer.DescripcionOferta + "\n" + offer.RequisitosMinimos,
	}

	if offer.NombreJornada == "Part Time" {
		job.JobType = models.JobTypePartTime
	} else {
		job.JobType = models.JobTypeFullTime
	}

	switch offer.NombreJornada {
	case "Jornada Completa":
		job.Modality = models.ModalityPresencial
	case "Mixta (Teletrabajo + Presencial)":
		job.Modality = models.ModalityHibrido
	case "Teletrabajo":
		job.Modality = models.ModalityRemoto
	default:
		job.Modality = models.ModalityPresencial
	}

	job.IsInternship = models.IsInternshipTitle(job.Title)
	return job
}

// jobFromTrabajoConSentido maps a TrabajoConSentido offer detail. moderatedAt
// is an ISO datetime; only the date portion is kept.
func jobFromTrabajoConSentido(id identity, offer tcsOffer) models.Job {
	job := models.Job{
		Title:       offer.Title,
		Company:     offer.Organization.Name,
		URL:         id.url,
		PublishedAt: parseISODateTime(offer.ModeratedAt),
		Position:    id.position,
		Website:     id.website,
		Location:    offer.City,
		Description: offer.Description,
	}

	if offer.WorkingDay == "Completa" {
		job.JobType = models.JobTypeFullTime
	} else {
		job.JobType = models.JobTypePartTime
	}

	switch offer.WorkingMode {
	case "Presencial":
		job.Modality = models.ModalityPresencial
	case "Semi-presencial":
		job.Modality = models.ModalityHibrido
	case "Remoto":
		job.Modality = models.ModalityRemoto
	}

	job.IsInternship = models.IsInternshipTitle(job.Title)
	return job
}

// jobFromLinkedInDetail maps a rendered detail document. Every landmark is
// optional; a missing one leaves its field unset. PublishedAt and modality
// come from the acquisition layer, not from the document.
func jobFromLinkedInDetail(id identity, doc *goquery.Document, published time.Time, modality models.Modality) models.Job {
	job := models.Job{
		URL:         id.url,
		PublishedAt: published,
		Position:    id.position,
		Website:     id.website,
		Modality:    modality,
	}

	job.Title = strings.TrimSpace(doc.Find(".top-card-layout__title").First().Text())
	job.Company = strings.TrimSpace(doc.Find("a.topcard__org-name-link, .topcard__org-name-link").First().Text())
	job.Location = strings.TrimSpace(doc.Find(".topcard__flavor.topcard__flavor--bullet").First().Text())

	criteria := doc.Find(".description__job-criteria-text.description__job-criteria-text--criteria")
	if criteria.Length() > 1 {
		switch strings.TrimSpace(criteria.Eq(1).Text()) {
		case "Media jornada", "Voluntario":
			job.JobType = models.JobTypePartTime
		default:
			job.JobType = models.JobTypeFullTime
		}
	}

	// Description keeps the original inner markup, unlike the JSON sources.
	if desc := doc.Find(".description__text--rich .show-more-less-html__markup").First(); desc.Length() > 0 {
		if inner, err := desc.Html(); err == nil {
			job.Description = inner
		}
	}

	job.IsInternship = models.IsInternshipTitle(job.Title)
	return job
}

// parseDayMonthYear reads Laborum's DD-MM-YYYY date text, reassembling it as
// YYYY-MM-DD before parsing. Missing or malformed values resolve to the
// fallback instant.
func parseDayMonthYear(value string) time.Time {
	if value == "" {
		value = "01-01-2000"
	}
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return models.DefaultPublishedAt
	}
	ts, err := time.Parse("2006-01-02", parts[2]+"-"+parts[1]+"-"+parts[0])
	if err != nil {
		return models.DefaultPublishedAt
	}
	return ts
}

func parseISODate(value string) time.Time {
	if value == "" {
		value = "2000-01-01"
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return models.DefaultPublishedAt
	}
	return ts
}

// parseISODateTime keeps only the date portion of an ISO datetime string.
func parseISODateTime(value string) time.Time {
	return parseISODate(strings.SplitN(value, "T", 2)[0])
}
