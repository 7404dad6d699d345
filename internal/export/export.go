// Package export materializes canonical jobs as flat files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/pegacl/pegacl/internal/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

type WriteOptions struct {
	// Dedup collapses rows sharing a URL before writing, keeping the last.
	Dedup bool
}

func WriteJobs(w io.Writer, jobs []models.Job, format Format, opts WriteOptions) error {
	if opts.Dedup {
		jobs = dedupeByURL(jobs)
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	default:
		return writeCSV(w, jobs)
	}
}

func writeJSON(w io.Writer, jobs []models.Job) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

func writeCSV(w io.Writer, jobs []models.Job) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write(csvRow(job)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvHeader() []string {
	return []string{
		"title",
		"company",
		"location",
		"position",
		"website",
		"job_type",
		"modality",
		"salary",
		"remote",
		"is_internship",
		"published_at",
		"url",
		"description",
	}
}

func csvRow(job models.Job) []string {
	return []string{
		job.Title,
		job.Company,
		job.Location,
		string(job.Position),
		string(job.Website),
		string(job.JobType),
		string(job.Modality),
		job.Salary,
		boolString(job.Remote),
		requiredBoolString(job.IsInternship),
		// ISO 8601 truncated to seconds; avoids locale separators in CSV.
		job.PublishedAt.Format("2006-01-02T15:04:05"),
		job.URL,
		job.Description,
	}
}

func boolString(value *bool) string {
	if value == nil {
		return ""
	}
	return requiredBoolString(*value)
}

func requiredBoolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func dedupeByURL(jobs []models.Job) []models.Job {
	index := map[string]int{}
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.URL == "" {
			continue
		}
		if at, ok := index[job.URL]; ok {
			out[at] = job
			continue
		}
		index[job.URL] = len(out)
		out = append(out, job)
	}
	return out
}
