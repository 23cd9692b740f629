package resolve

import (
	"path"
	"regexp"
	"strings"

	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/extract"
	"github.com/repindex/repindex/internal/graph"
)

// DefaultSuffixes is the candidate suffix precedence: exact match first, then
// bare extensions, then the index-file forms.
var DefaultSuffixes = []string{
	"", ".ts", ".tsx", ".py", ".sh", ".css", ".scss",
	"/index.ts", "/index.tsx", "/__init__.py",
}

// pythonSuffixes promotes the Python forms when the repository is detected as
// a Python project.
var pythonSuffixes = []string{
	"", ".py", "/__init__.py", ".ts", ".tsx", ".sh", ".css", ".scss",
	"/index.ts", "/index.tsx",
}

// SuffixesFor returns the suffix precedence for the detected ecosystems. A
// pure-Python repository gets the Python-first order; anything else keeps the
// default.
func SuffixesFor(ecosystems []string) []string {
	python := false
	for _, eco := range ecosystems {
		if eco == classify.EcosystemReact {
			return DefaultSuffixes
		}
		if eco == classify.EcosystemPython {
			python = true
		}
	}
	if python {
		return pythonSuffixes
	}
	return DefaultSuffixes
}

// FileSet is the complete set of repository-relative file paths surviving
// discovery, computed once per run before resolution begins.
type FileSet map[string]struct{}

// NewFileSet builds a FileSet from slash-separated relative paths.
func NewFileSet(paths []string) FileSet {
	fs := make(FileSet, len(paths))
	for _, p := range paths {
		fs[p] = struct{}{}
	}
	return fs
}

// Contains reports whether the exact path is in the set.
func (fs FileSet) Contains(p string) bool {
	_, ok := fs[p]
	return ok
}

// Resolution is one resolved outcome of an import reference. A reference
// usually yields exactly one resolution; Python from-imports fan out when
// their symbols name real submodules.
type Resolution struct {
	Target   string // repository-relative path, or graph.ExternalPrefix + reference
	External bool
	Symbols  []string
}

// Resolver maps raw import references to repository files. Resolution never
// fails: anything that does not land on a file inside the root becomes an
// external marker, including references that would escape the root.
type Resolver struct {
	suffixes []string
}

// NewResolver creates a resolver with the given suffix precedence; nil or
// empty means DefaultSuffixes.
func NewResolver(suffixes []string) *Resolver {
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	return &Resolver{suffixes: suffixes}
}

// dottedRef matches Python-style module references: optional leading relative
// dots, then dotted identifiers. No slashes.
var dottedRef = regexp.MustCompile(`^\.*[A-Za-z_][\w.]*$|^\.+$`)

// Resolve maps one reference from originFile to at least one Resolution.
// Candidates are tried against files with each configured suffix in order;
// the first hit wins.
func (r *Resolver) Resolve(ref extract.ImportReference, originFile string, files FileSet) []Resolution {
	external := []Resolution{{
		Target:   graph.ExternalPrefix + ref.Path,
		External: true,
		Symbols:  ref.Symbols,
	}}

	spec := strings.TrimSpace(ref.Path)
	if spec == "" {
		return external
	}
	// Absolute filesystem paths never resolve into the repository.
	if strings.HasPrefix(spec, "/") {
		return external
	}

	originDir := path.Dir(originFile)
	pythonOrigin := strings.HasSuffix(originFile, ".py")
	pythonRef := pythonOrigin && dottedRef.MatchString(spec)

	var candidates []string
	switch {
	case pythonRef:
		cand, ok := pythonCandidate(spec, originDir)
		if !ok {
			return external // relative level escapes the root
		}
		// `from . import mod` names submodules, not objects: give the
		// symbols first shot before falling back to the package itself.
		if strings.Trim(spec, ".") == "" && len(ref.Symbols) > 0 {
			if out, ok := r.expandSubmodules(ref, cand, files); ok {
				return out
			}
		}
		candidates = []string{cand}

	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == "..":
		cand := path.Clean(path.Join(originDir, spec))
		if cand == ".." || strings.HasPrefix(cand, "../") {
			return external
		}
		candidates = []string{cand}

	default:
		cand := path.Clean(spec)
		if cand == ".." || strings.HasPrefix(cand, "../") {
			return external
		}
		// Stylesheets and shell scripts reference siblings without a ./
		// prefix, so try the origin directory before the repository root.
		if ext := path.Ext(originFile); ext == ".css" || ext == ".scss" || ext == ".sh" || ext == ".bash" {
			candidates = []string{path.Clean(path.Join(originDir, spec)), cand}
		} else {
			candidates = []string{cand}
		}
	}

	for _, cand := range candidates {
		if target, ok := r.match(cand, files); ok {
			return []Resolution{{Target: target, Symbols: ref.Symbols}}
		}
	}

	// Python from-imports: symbols may name submodules rather than objects
	// (`from pkg import mod`). Symbols that land on real files become their
	// own edges; the rest stay external.
	if pythonRef && len(ref.Symbols) > 0 {
		if out, ok := r.expandSubmodules(ref, candidates[0], files); ok {
			return out
		}
	}
	return external
}

// match tries a candidate against the file set with each suffix in order.
func (r *Resolver) match(cand string, files FileSet) (string, bool) {
	cand = strings.TrimSuffix(cand, "/")
	if cand == "" || cand == "." {
		return "", false
	}
	for _, suffix := range r.suffixes {
		if p := cand + suffix; files.Contains(p) {
			return p, true
		}
	}
	return "", false
}

// pythonCandidate turns a dotted module reference into a repo-relative path.
// Leading dots walk up from the origin directory (one dot = same package);
// the remainder's dots become separators. Reports failure when the relative
// level climbs past the repository root.
func pythonCandidate(spec, originDir string) (string, bool) {
	level := 0
	for level < len(spec) && spec[level] == '.' {
		level++
	}
	rest := strings.ReplaceAll(spec[level:], ".", "/")

	if level == 0 {
		return rest, true
	}

	base := originDir
	for i := 1; i < level; i++ {
		if base == "." || base == "" {
			return "", false
		}
		base = path.Dir(base)
	}
	return path.Clean(path.Join(base, rest)), true
}

// expandSubmodules tries each symbol as a submodule path under base. Reports
// false when no symbol resolved, so the caller can fall back.
func (r *Resolver) expandSubmodules(ref extract.ImportReference, base string, files FileSet) ([]Resolution, bool) {
	var (
		out      []Resolution
		leftover []string
	)
	for _, sym := range ref.Symbols {
		if !isModuleName(sym) {
			leftover = append(leftover, sym)
			continue
		}
		cand := path.Clean(path.Join(base, sym))
		if target, ok := r.match(cand, files); ok {
			out = append(out, Resolution{Target: target, Symbols: []string{sym}})
			continue
		}
		leftover = append(leftover, sym)
	}
	if len(out) == 0 {
		return nil, false
	}
	if len(leftover) > 0 {
		out = append(out, Resolution{
			Target:   graph.ExternalPrefix + ref.Path,
			External: true,
			Symbols:  leftover,
		})
	}
	return out, true
}

func isModuleName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
