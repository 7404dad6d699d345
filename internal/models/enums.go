package models

// Position is the search category that produced a record. It is supplied by
// the adapter's search loop, never parsed from posting content.
type Position string

const (
	PositionBackend        Position = "backend"
	PositionFrontend       Position = "frontend"
	PositionFullstack      Position = "fullstack"
	PositionDevops         Position = "devops"
	PositionQA             Position = "qa"
	PositionData           Position = "data"
	PositionMobile         Position = "mobile"
	PositionProductManager Position = "product_manager"
	PositionDesigner       Position = "designer"
)

// Positions returns every search category in declaration order. Adapters
// iterate this list exhaustively on each run.
func Positions() []Position {
	return []Position{
		PositionBackend,
		PositionFrontend,
		PositionFullstack,
		PositionDevops,
		PositionQA,
		PositionData,
		PositionMobile,
		PositionProductManager,
		PositionDesigner,
	}
}

// Website identifies the adapter that produced a record.
type Website string

const (
	WebsiteLaborum           Website = "laborum"
	WebsiteTrabajando        Website = "trabajando"
	WebsiteTrabajoConSentido Website = "trabajoconsentido"
	WebsiteLinkedIn          Website = "linkedin"
)

// Modality is the work arrangement. The empty string means the source did not
// declare one.
type Modality string

const (
	ModalityRemoto     Modality = "remoto"
	ModalityHibrido    Modality = "hibrido"
	ModalityPresencial Modality = "presencial"
)

// JobType is the employment type. The empty string means unset.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)
