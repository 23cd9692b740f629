package indexer

import (
	"github.com/repindex/repindex/internal/extract"
)

// Structure artifacts.
const (
	DetailedStructureFileName = "detailed_structure.json"
	TopLevelStructureFileName = "top_level_structure.json"
)

// TopLevel is one file's entry in top_level_structure.json: import references
// as written in the source and the exported names.
type TopLevel struct {
	Imports []string `json:"imports"`
	Exports []string `json:"exports"`
}

// StructureArtifacts projects the extraction results into the two structure
// artifacts. Only extracted files appear; config and documentation files have
// no structure to report.
func StructureArtifacts(files []string, extractions map[string]Extraction) (map[string]extract.Structure, map[string]TopLevel) {
	detailed := make(map[string]extract.Structure, len(extractions))
	top := make(map[string]TopLevel, len(extractions))

	for _, f := range files {
		ex, ok := extractions[f]
		if !ok {
			continue
		}
		detailed[f] = ex.Structure

		imports := make([]string, 0, len(ex.Imports))
		for _, imp := range ex.Imports {
			imports = append(imports, imp.Path)
		}
		exports := make([]string, 0, len(ex.Exports))
		for _, e := range ex.Exports {
			exports = append(exports, e.Name)
		}
		top[f] = TopLevel{Imports: imports, Exports: exports}
	}

	return detailed, top
}
