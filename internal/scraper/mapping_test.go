package scraper

import (
	"testing"
	"time"

	"github.com/pegacl/pegacl/internal/models"
)

func TestJobFromLaborum(t *testing.T) {
	id := identity{
		url:      "https://www.laborum.cl/empleos/123",
		position: models.PositionBackend,
		website:  models.WebsiteLaborum,
	}
	job := jobFromLaborum(id, laborumOffer{
		Titulo:           "Desarrollador Backend",
		Empresa:          laborumCompany{Nombre: "Acme"},
		Localizacion:     "Santiago",
		Detalle:          "Construir APIs",
		FechaPublicacion: "05-03-2021",
		TipoTrabajo:      "Full-time",
		ModalidadTrabajo: "Híbrido",
	})

	if job.Title != "Desarrollador Backend" || job.Company != "Acme" {
		t.Fatalf("unexpected identity fields: %+v", job)
	}
	if !job.PublishedAt.Equal(time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected published_at: %v", job.PublishedAt)
	}
	if job.JobType != models.JobTypeFullTime {
		t.Fatalf("expected full-time, got %s", job.JobType)
	}
	if job.Modality != models.ModalityHibrido {
		t.Fatalf("expected hibrido, got %s", job.Modality)
	}
	if job.IsInternship {
		t.Fatalf("internship flag should be false")
	}
}

func TestJobFromLaborumDefaults(t *testing.T) {
	id := identity{url: "u", position: models.PositionData, website: models.WebsiteLaborum}
	job := jobFromLaborum(id, laborumOffer{Titulo: "Práctica Data"})

	if !job.PublishedAt.Equal(models.DefaultPublishedAt) {
		t.Fatalf("missing date should resolve to the fallback instant, got %v", job.PublishedAt)
	}
	if job.Company != "Sin empresa" {
		t.Fatalf("missing company should default, got %q", job.Company)
	}
	// Anything but the literal "Full-time" is part-time.
	if job.JobType != models.JobTypePartTime {
		t.Fatalf("expected part-time, got %s", job.JobType)
	}
	if job.Modality != "" {
		t.Fatalf("unknown modality label should stay unset, got %s", job.Modality)
	}
	if !job.IsInternship {
		t.Fatalf("expected internship flag from title")
	}
}

func TestJobFromTrabajando(t *testing.T) {
	id := identity{
		url:      "https://www.trabajando.cl/trabajo-empleo/backend/trabajo/9",
		position: models.PositionBackend,
		website:  models.WebsiteTrabajando,
	}
	offer := trabajandoOffer{
		NombreCargo:                   "Ingeniero de Software",
		NombreEmpresaFantasia:         "Beta",
		DescripcionOferta:             "Texto de la oferta",
		RequisitosMinimos:             "Titulado",
		FechaPublicacionFormatoIngles: "2023-11-30",
		NombreJornada:                 "Mixta (Teletrabajo + Presencial)",
	}
	offer.Ubicacion.Direccion = "Providencia"

	job := jobFromTrabajando(id, offer)

	if job.Description != "Texto de la oferta\nTitulado" {
		t.Fatalf("description must be offer text plus requirements: %q", job.Description)
	}
	if job.Location != "Providencia" {
		t.Fatalf("unexpected location: %q", job.Location)
	}
	if job.JobType != models.JobTypeFullTime {
		t.Fatalf("expected full-time, got %s", job.JobType)
	}
	if job.Modality != models.ModalityHibrido {
		t.Fatalf("expected hibrido, got %s", job.Modality)
	}
}

func TestJobFromTrabajandoJornadaLabels(t *testing.T) {
	cases := []struct {
		jornada      string
		wantType     models.JobType
		wantModality models.Modality
	}{
		{"Jornada Completa", models.JobTypeFullTime, models.ModalityPresencial},
		{"Teletrabajo", models.JobTypeFullTime, models.ModalityRemoto},
		{"Part Time", models.JobTypePartTime, models.ModalityPresencial},
		{"Por turnos", models.JobTypeFullTime, models.ModalityPresencial},
	}

	for _, tc := range cases {
		job := jobFromTrabajando(identity{}, trabajandoOffer{NombreJornada: tc.jornada})
		if job.JobType != tc.wantType {
			t.Fatalf("%s: job type %s, want %s", tc.jornada, job.JobType, tc.wantType)
		}
		if job.Modality != tc.wantModality {
			t.Fatalf("%s: modality %s, want %s", tc.jornada, job.Modality, tc.wantModality)
		}
	}
}

func TestJobFromTrabajoConSentido(t *testing.T) {
	id := identity{
		url:      "https://listado.trabajoconsentido.com/trabajos/dev-java",
		position: models.PositionBackend,
		website:  models.WebsiteTrabajoConSentido,
	}
	offer := tcsOffer{
		Slug:        "dev-java",
		Title:       "Desarrollador Java",
		City:        "Valparaíso",
		Description: "ONG de educación",
		ModeratedAt: "2024-02-10T18:22:01.000Z",
		WorkingDay:  "Completa",
		WorkingMode: "Semi-presencial",
	}
	offer.Organization.Name = "Fundación X"

	job := jobFromTrabajoConSentido(id, offer)

	if !job.PublishedAt.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("moderatedAt should keep only the date portion, got %v", job.PublishedAt)
	}
	if job.Company != "Fundación X" {
		t.Fatalf("unexpected company: %q", job.Company)
	}
	if job.JobType != models.JobTypeFullTime {
		t.Fatalf("expected full-time, got %s", job.JobType)
	}
	if job.Modality != models.ModalityHibrido {
		t.Fatalf("expected hibrido, got %s", job.Modality)
	}
}

func TestJobFromLinkedInDetail(t *testing.T) {
	html := `
<html><body>
  <h1 class="top-card-layout__title">Practicante DevOps</h1>
  <a class="topcard__org-name-link" href="#"> Cloud Co </a>
  <span class="topcard__flavor topcard__flavor--bullet">Santiago, Chile</span>
  <span class="description__job-criteria-text description__job-criteria-text--criteria">Sin experiencia</span>
  <span class="description__job-criteria-text description__job-criteria-text--criteria">Media jornada</span>
  <div class="description__text--rich">
    <div class="show-more-less-html__markup"><p>Operar <b>pipelines</b>.</p></div>
  </div>
</body></html>`

	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := identity{
		url:      "https://www.linkedin.com/jobs/view/42",
		position: models.PositionDevops,
		website:  models.WebsiteLinkedIn,
	}
	job := jobFromLinkedInDetail(id, mustDoc(t, html), published, models.ModalityRemoto)

	if job.Title != "Practicante DevOps" {
		t.Fatalf("unexpected title: %q", job.Title)
	}
	if job.Company != "Cloud Co" {
		t.Fatalf("unexpected company: %q", job.Company)
	}
	if job.Location != "Santiago, Chile" {
		t.Fatalf("unexpected location: %q", job.Location)
	}
	if job.JobType != models.JobTypePartTime {
		t.Fatalf("second criteria 'Media jornada' should map to part-time, got %s", job.JobType)
	}
	if job.Description != "<p>Operar <b>pipelines</b>.</p>" {
		t.Fatalf("description should keep inner markup, got %q", job.Description)
	}
	if !job.PublishedAt.Equal(published) {
		t.Fatalf("published_at must come from the acquisition layer, got %v", job.PublishedAt)
	}
	if job.Modality != models.ModalityRemoto {
		t.Fatalf("modality must come from the acquisition layer, got %s", job.Modality)
	}
	if !job.IsInternship {
		t.Fatalf("expected internship flag from title")
	}
}

func TestJobFromLinkedInDetailMissingLandmarks(t *testing.T) {
	job := jobFromLinkedInDetail(identity{url: "u"}, mustDoc(t, "<html><body></body></html>"), models.DefaultPublishedAt, "")

	if job.Title != "" || job.Company != "" || job.Location != "" || job.Description != "" {
		t.Fatalf("missing landmarks must map to unset fields: %+v", job)
	}
	if job.JobType != "" {
		t.Fatalf("job type should stay unset without criteria, got %s", job.JobType)
	}
}

func TestMappingErrorMessage(t *testing.T) {
	err := &MappingError{Website: models.WebsiteLaborum, Field: "id"}
	if err.Error() != "laborum: payload missing id" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
