package models

import (
	"strings"
	"time"
)

// DefaultPublishedAt is the fallback instant used when a source omits the
// publication date or encodes one that cannot be parsed. Records never carry a
// zero PublishedAt past an adapter.
var DefaultPublishedAt = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Job is the canonical posting shape shared by every adapter. URL is the
// dedup key; Position and Website come from the adapter's loop, not from
// parsed content. Description keeps source markup for LinkedIn and plain text
// for the JSON sources.
type Job struct {
	Title        string    `json:"title" bson:"title"`
	Company      string    `json:"company" bson:"company"`
	URL          string    `json:"url" bson:"url"`
	PublishedAt  time.Time `json:"published_at" bson:"published_at"`
	Position     Position  `json:"position" bson:"position"`
	Website      Website   `json:"website" bson:"website"`
	Modality     Modality  `json:"modality,omitempty" bson:"modality,omitempty"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Salary       string    `json:"salary,omitempty" bson:"salary,omitempty"`
	JobType      JobType   `json:"job_type,omitempty" bson:"job_type,omitempty"`
	Remote       *bool     `json:"remote,omitempty" bson:"remote,omitempty"`
	IsInternship bool      `json:"is_internship" bson:"is_internship"`
}

var internshipTokens = map[string]struct{}{
	"practica":    {},
	"practicas":   {},
	"practicante": {},
}

var accentedVowels = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
)

// IsInternshipTitle reports whether a posting title names an internship
// ("práctica" in Chilean usage). Matching is on whole tokens after
// lower-casing and stripping the five accented vowels, so it is invariant
// under case and accents and identical for every source.
func IsInternshipTitle(title string) bool {
	normalized := accentedVowels.Replace(strings.ToLower(title))
	for _, word := range strings.Fields(normalized) {
		if _, ok := internshipTokens[word]; ok {
			return true
		}
	}
	return false
}
