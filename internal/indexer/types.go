package indexer

import (
	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/extract"
)

// Extraction is one file's classification and extraction output for a run.
// Imports hold the references as written, Exports the declared names, and
// Structure the best-effort shape used by structure artifacts and context
// documents.
type Extraction struct {
	Tag       classify.Tag
	Imports   []extract.ImportReference
	Exports   []extract.ExportDeclaration
	Structure extract.Structure
}
