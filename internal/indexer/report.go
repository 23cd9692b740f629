package indexer

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/repindex/repindex/internal/git"
)

// ReportFileName is the per-run summary artifact.
const ReportFileName = "index_report.json"

// Warning is one file-scoped problem captured during a run. Warnings never
// abort a run; they accumulate in the report next to the headline counts.
type Warning struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Report summarizes one indexing run.
type Report struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	DurationMs     int64     `json:"duration_ms"`
	Root           string    `json:"root"`
	Ecosystems     []string  `json:"ecosystems"`
	Repository     git.Info  `json:"repository"`
	FilesTotal     int       `json:"files_total"`
	FilesExtracted int       `json:"files_extracted"`
	Edges          int       `json:"edges"`
	ExternalEdges  int       `json:"external_edges"`
	Warnings       []Warning `json:"warnings"`
}

// NewReport starts the report for one run.
func NewReport(root string, ecosystems []string) *Report {
	if ecosystems == nil {
		ecosystems = []string{}
	}
	return &Report{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Root:       root,
		Ecosystems: ecosystems,
		Warnings:   []Warning{},
	}
}

// Warnf records one file-scoped warning and logs it.
func (r *Report) Warnf(file, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, Warning{File: file, Message: msg})
	log.Printf("Warning: %s: %s", file, msg)
}

// Finish stamps the run duration.
func (r *Report) Finish() {
	r.DurationMs = time.Since(r.StartedAt).Milliseconds()
}
