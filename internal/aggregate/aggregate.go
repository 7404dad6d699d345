// Package aggregate collapses the output of every adapter run into one
// record per distinct posting URL.
package aggregate

import "github.com/pegacl/pegacl/internal/models"

// Merge dedups jobs by URL with last-write-wins semantics: when the same
// posting is discovered more than once, the record seen latest in iteration
// order is retained. Records without a URL are excluded. The dedup map lives
// only for the duration of the call; no identity is kept across runs.
func Merge(lists ...[]models.Job) []models.Job {
	index := map[string]int{}
	out := make([]models.Job, 0)

	for _, jobs := range lists {
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
	}
	return out
}
