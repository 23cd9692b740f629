package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/extract"
	"github.com/repindex/repindex/internal/graph"
)

// TEST PLAN:
// 1. Relative TS references resolve through the suffix list, first match wins
// 2. Index-file forms resolve directories
// 3. Python dotted modules map dots to separators, leading dots walk up
// 4. References that climb past the root become external, never an error
// 5. Unmatched references become external markers carrying their symbols
// 6. Python from-imports fan out to submodules when symbols name real files
// 7. Stylesheets and shell scripts try the origin directory before the root
// 8. Suffix precedence is ecosystem-dependent and overridable

func resolveOne(t *testing.T, r *Resolver, ref extract.ImportReference, origin string, files FileSet) Resolution {
	t.Helper()
	out := r.Resolve(ref, origin, files)
	require.Len(t, out, 1)
	return out[0]
}

func TestResolver_TypeScriptRelative(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)
	files := NewFileSet([]string{"web/app.ts", "web/util.ts", "web/components/index.tsx", "web/view.tsx"})

	res := resolveOne(t, r, extract.ImportReference{Path: "./util", Symbols: []string{"x"}}, "web/app.ts", files)
	assert.Equal(t, Resolution{Target: "web/util.ts", Symbols: []string{"x"}}, res)

	res = resolveOne(t, r, extract.ImportReference{Path: "./view"}, "web/app.ts", files)
	assert.Equal(t, "web/view.tsx", res.Target)

	res = resolveOne(t, r, extract.ImportReference{Path: "./components"}, "web/app.ts", files)
	assert.Equal(t, "web/components/index.tsx", res.Target)

	res = resolveOne(t, r, extract.ImportReference{Path: "../web/util"}, "web/app.ts", files)
	assert.Equal(t, "web/util.ts", res.Target)
}

func TestResolver_SuffixPrecedence(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)

	// Exact path beats appended extensions
	files := NewFileSet([]string{"lib", "lib.ts"})
	res := resolveOne(t, r, extract.ImportReference{Path: "./lib"}, "app.ts", files)
	assert.Equal(t, "lib", res.Target)

	// A file beats the directory's index form
	files = NewFileSet([]string{"lib.ts", "lib/index.ts"})
	res = resolveOne(t, r, extract.ImportReference{Path: "./lib"}, "app.ts", files)
	assert.Equal(t, "lib.ts", res.Target)
}

func TestResolver_PythonModules(t *testing.T) {
	t.Parallel()
	r := NewResolver(SuffixesFor([]string{classify.EcosystemPython}))
	files := NewFileSet([]string{
		"pkg/__init__.py", "pkg/mod.py", "pkg/sub/deep.py", "pkg/b.py", "pkg/a.py", "top.py",
	})

	// Dots become separators
	res := resolveOne(t, r, extract.ImportReference{Path: "pkg.mod"}, "top.py", files)
	assert.Equal(t, "pkg/mod.py", res.Target)

	// Bare package name lands on its __init__
	res = resolveOne(t, r, extract.ImportReference{Path: "pkg"}, "top.py", files)
	assert.Equal(t, "pkg/__init__.py", res.Target)

	// One leading dot stays in the origin package
	res = resolveOne(t, r, extract.ImportReference{Path: ".b", Symbols: []string{"x"}}, "pkg/a.py", files)
	assert.Equal(t, Resolution{Target: "pkg/b.py", Symbols: []string{"x"}}, res)

	// Two dots walk one package up
	res = resolveOne(t, r, extract.ImportReference{Path: "..mod"}, "pkg/sub/deep.py", files)
	assert.Equal(t, "pkg/mod.py", res.Target)
}

func TestResolver_RootEscape(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)
	files := NewFileSet([]string{"a.ts", "a.py", "secret.ts"})

	res := resolveOne(t, r, extract.ImportReference{Path: "../../secret"}, "a.ts", files)
	assert.True(t, res.External)
	assert.Equal(t, graph.ExternalPrefix+"../../secret", res.Target)

	// Python relative import climbing past the root
	res = resolveOne(t, r, extract.ImportReference{Path: "..mod"}, "a.py", files)
	assert.True(t, res.External)

	// Absolute filesystem paths never resolve inside the repository
	res = resolveOne(t, r, extract.ImportReference{Path: "/etc/passwd"}, "a.ts", files)
	assert.True(t, res.External)
	assert.Equal(t, graph.ExternalPrefix+"/etc/passwd", res.Target)
}

func TestResolver_ExternalCarriesSymbols(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)
	files := NewFileSet([]string{"app.py"})

	res := resolveOne(t, r, extract.ImportReference{Path: "numpy", Symbols: []string{"array", "zeros"}}, "app.py", files)
	assert.Equal(t, Resolution{
		Target:   graph.ExternalPrefix + "numpy",
		External: true,
		Symbols:  []string{"array", "zeros"},
	}, res)

	// Empty references have nowhere to land
	res = resolveOne(t, r, extract.ImportReference{Path: ""}, "app.py", files)
	assert.True(t, res.External)
}

func TestResolver_SubmoduleFanOut(t *testing.T) {
	t.Parallel()
	r := NewResolver(SuffixesFor([]string{classify.EcosystemPython}))

	// No pkg/__init__.py: symbols naming real files become their own edges,
	// the rest stay external under the written reference.
	files := NewFileSet([]string{"pkg/mod.py", "app.py"})
	out := r.Resolve(extract.ImportReference{Path: "pkg", Symbols: []string{"mod", "helper"}}, "app.py", files)
	require.Len(t, out, 2)
	assert.Equal(t, Resolution{Target: "pkg/mod.py", Symbols: []string{"mod"}}, out[0])
	assert.Equal(t, Resolution{Target: graph.ExternalPrefix + "pkg", External: true, Symbols: []string{"helper"}}, out[1])

	// `from . import mod` prefers the sibling module over the package itself
	files = NewFileSet([]string{"pkg/__init__.py", "pkg/mod.py", "pkg/a.py"})
	out = r.Resolve(extract.ImportReference{Path: ".", Symbols: []string{"mod"}}, "pkg/a.py", files)
	require.Len(t, out, 1)
	assert.Equal(t, Resolution{Target: "pkg/mod.py", Symbols: []string{"mod"}}, out[0])

	// With no resolvable submodule the package __init__ still wins
	out = r.Resolve(extract.ImportReference{Path: ".", Symbols: []string{"CONSTANT"}}, "pkg/a.py", files)
	require.Len(t, out, 1)
	assert.Equal(t, "pkg/__init__.py", out[0].Target)
	assert.Equal(t, []string{"CONSTANT"}, out[0].Symbols)
}

func TestResolver_SiblingLookup(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)
	files := NewFileSet([]string{"styles/theme.css", "styles/base.css", "base.css", "scripts/run.sh", "scripts/utils.sh"})

	// Stylesheets try the origin directory first
	res := resolveOne(t, r, extract.ImportReference{Path: "base.css"}, "styles/theme.css", files)
	assert.Equal(t, "styles/base.css", res.Target)

	// Falling back to the root when there is no sibling
	res = resolveOne(t, r, extract.ImportReference{Path: "base.css"}, "other/page.css", files)
	assert.Equal(t, "base.css", res.Target)

	res = resolveOne(t, r, extract.ImportReference{Path: "utils.sh"}, "scripts/run.sh", files)
	assert.Equal(t, "scripts/utils.sh", res.Target)
}

func TestResolver_SelfImport(t *testing.T) {
	t.Parallel()
	r := NewResolver(SuffixesFor([]string{classify.EcosystemPython}))
	files := NewFileSet([]string{"a.py"})

	res := resolveOne(t, r, extract.ImportReference{Path: "a"}, "a.py", files)
	assert.Equal(t, "a.py", res.Target)
	assert.False(t, res.External)
}

func TestSuffixesFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultSuffixes, SuffixesFor(nil))
	assert.Equal(t, DefaultSuffixes, SuffixesFor([]string{classify.EcosystemReact}))
	assert.Equal(t, DefaultSuffixes, SuffixesFor([]string{classify.EcosystemReact, classify.EcosystemPython}))
	assert.Equal(t, pythonSuffixes, SuffixesFor([]string{classify.EcosystemPython}))
}

func TestResolver_CustomSuffixes(t *testing.T) {
	t.Parallel()

	// Exact-match-only resolver: nothing is appended
	r := NewResolver([]string{""})
	files := NewFileSet([]string{"lib.ts"})

	res := resolveOne(t, r, extract.ImportReference{Path: "./lib"}, "app.ts", files)
	assert.True(t, res.External)

	res = resolveOne(t, r, extract.ImportReference{Path: "./lib.ts"}, "app.ts", files)
	assert.Equal(t, "lib.ts", res.Target)
}
