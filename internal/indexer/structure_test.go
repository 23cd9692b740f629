package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/extract"
)

// Test Plan for StructureArtifacts:
// - Only extracted files appear in either artifact
// - Top-level imports are the references as written, exports the names
// - The detailed entry is the precomputed structure, passed through

func TestStructureArtifacts(t *testing.T) {
	t.Parallel()

	files := []string{"app.py", "notes.md", "lib.ts"}
	extractions := map[string]Extraction{
		"app.py": {
			Tag: classify.Script,
			Imports: []extract.ImportReference{
				{Path: "os", Line: 1},
				{Path: ".lib", Symbols: []string{"helper"}, Line: 2},
			},
			Exports: []extract.ExportDeclaration{
				{Name: "main", Kind: "function", Line: 4},
			},
			Structure: extract.Structure{
				Language:  "python",
				Functions: []string{"main"},
				Classes:   []extract.ClassInfo{},
			},
		},
		"lib.ts": {
			Tag:     classify.Script,
			Imports: []extract.ImportReference{{Path: "./util", Line: 1}},
			Exports: []extract.ExportDeclaration{{Name: "helper", Kind: "function", Line: 3}},
			Structure: extract.Structure{
				Language:  "typescript",
				Functions: []string{"helper"},
				Classes:   []extract.ClassInfo{},
			},
		},
	}

	detailed, top := StructureArtifacts(files, extractions)

	assert.Len(t, detailed, 2)
	assert.Len(t, top, 2)
	assert.NotContains(t, top, "notes.md")

	assert.Equal(t, []string{"os", ".lib"}, top["app.py"].Imports)
	assert.Equal(t, []string{"main"}, top["app.py"].Exports)
	assert.Equal(t, []string{"./util"}, top["lib.ts"].Imports)

	assert.Equal(t, "python", detailed["app.py"].Language)
	assert.Equal(t, []string{"main"}, detailed["app.py"].Functions)
}

func TestStructureArtifacts_Empty(t *testing.T) {
	t.Parallel()

	detailed, top := StructureArtifacts(nil, nil)
	assert.Empty(t, detailed)
	assert.Empty(t, top)
}
