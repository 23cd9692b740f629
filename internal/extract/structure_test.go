package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for StructureOf:
// - Python: column-zero functions and classes, methods scoped to their class
// - Other code files reuse the export names as the functions list
// - Shell keeps only function exports, stylesheets report empty structure
// - Slices are always non-nil so the JSON artifacts never contain null

func TestStructureOf_Python(t *testing.T) {
	t.Parallel()

	content := `def top():
    pass


class First:
    def a(self):
        pass

    def b(self):
        pass


class Second(Base):
    def c(self):
        pass


def bottom():
    pass
`
	s := StructureOf("pkg/mod.py", content, nil)

	assert.Equal(t, "python", s.Language)
	assert.Equal(t, []string{"top", "bottom"}, s.Functions)

	require.Len(t, s.Classes, 2)
	assert.Equal(t, ClassInfo{Name: "First", Methods: []string{"a", "b"}}, s.Classes[0])
	assert.Equal(t, ClassInfo{Name: "Second", Methods: []string{"c"}}, s.Classes[1])
}

func TestStructureOf_TypeScript(t *testing.T) {
	t.Parallel()

	exports := []ExportDeclaration{
		{Name: "render", Kind: "function"},
		{Name: "VERSION", Kind: "variable"},
	}
	s := StructureOf("ui/view.tsx", "", exports)

	assert.Equal(t, "typescript", s.Language)
	assert.Equal(t, []string{"render", "VERSION"}, s.Functions)
	assert.Empty(t, s.Classes)
}

func TestStructureOf_Shell(t *testing.T) {
	t.Parallel()

	exports := []ExportDeclaration{
		{Name: "PATH_EXTRA", Kind: "variable"},
		{Name: "deploy", Kind: "function"},
	}
	s := StructureOf("scripts/run.sh", "", exports)

	assert.Equal(t, "bash", s.Language)
	assert.Equal(t, []string{"deploy"}, s.Functions)
}

func TestStructureOf_Stylesheet(t *testing.T) {
	t.Parallel()

	s := StructureOf("styles/main.css", "body {}", nil)
	assert.Equal(t, "css", s.Language)
	assert.NotNil(t, s.Functions)
	assert.NotNil(t, s.Classes)
	assert.Empty(t, s.Functions)
}
