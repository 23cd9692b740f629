package extract

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/repindex/repindex/internal/classify"
)

// ImportReference is one raw import found in a file. References are ephemeral:
// produced by a single extraction pass, consumed by resolution.
type ImportReference struct {
	Path    string   // module/path string as written, quotes stripped
	Symbols []string // symbol names crossing the edge, when the syntax names them
	Line    int      // 1-based line of first appearance
}

// ExportDeclaration is one symbol a file declares for the outside.
type ExportDeclaration struct {
	Name string
	Kind string // function, class, variable, type - best effort, may be empty
	Line int
}

// Extract runs the tag's rule table over content and returns the references
// and declarations in order of first appearance. Identical input always yields
// identical output. Lines that merely resemble an import or export produce
// nothing; extraction never fails.
func Extract(content string, tag classify.Tag) ([]ImportReference, []ExportDeclaration) {
	rules := rulesByTag[tag]
	if len(rules) == 0 {
		return nil, nil
	}

	type hit struct {
		start int
		order int
		imp   *ImportReference
		exp   *ExportDeclaration
	}
	var hits []hit

	for order, r := range rules {
		for _, idx := range r.re.FindAllStringSubmatchIndex(content, -1) {
			start := idx[0]
			if commentedOut(content, start, r.comments) {
				continue
			}
			line := 1 + strings.Count(content[:start], "\n")

			switch r.kind {
			case ruleImport:
				path := capture(content, idx, r.pathGroup)
				if path == "" {
					continue
				}
				if r.listSplit {
					for _, mod := range splitModuleList(path) {
						hits = append(hits, hit{start, order, &ImportReference{Path: mod, Line: line}, nil})
					}
					continue
				}
				ref := &ImportReference{Path: path, Line: line}
				if r.clauseGroup > 0 && r.clauseParse != nil {
					ref.Symbols = r.clauseParse(capture(content, idx, r.clauseGroup))
				}
				hits = append(hits, hit{start, order, ref, nil})

			case ruleExport:
				if r.nameGroup > 0 {
					name := capture(content, idx, r.nameGroup)
					if name == "" {
						continue
					}
					hits = append(hits, hit{start, order, nil, &ExportDeclaration{Name: name, Kind: r.exportKind, Line: line}})
					continue
				}
				if r.clauseGroup > 0 && r.clauseParse != nil {
					for _, name := range r.clauseParse(capture(content, idx, r.clauseGroup)) {
						hits = append(hits, hit{start, order, nil, &ExportDeclaration{Name: name, Kind: r.exportKind, Line: line}})
					}
				}
			}
		}
	}

	// Reference order = order of first appearance, rule order breaks ties.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].order < hits[j].order
	})

	type lineKey struct {
		line int
		text string
	}
	var (
		imports     []ImportReference
		exports     []ExportDeclaration
		seenImports = map[lineKey]bool{}
		seenExports = map[lineKey]bool{}
	)
	for _, h := range hits {
		// Overlapping rules can hit the same statement (an assignment require
		// and the bare require form); collapse those, keep true repeats on
		// other lines.
		if h.imp != nil {
			k := lineKey{h.imp.Line, h.imp.Path}
			if seenImports[k] {
				continue
			}
			seenImports[k] = true
			imports = append(imports, *h.imp)
		} else {
			k := lineKey{h.exp.Line, h.exp.Name}
			if seenExports[k] {
				continue
			}
			seenExports[k] = true
			exports = append(exports, *h.exp)
		}
	}
	return imports, exports
}

// capture returns the text of a submatch group, empty when the group is
// absent or did not participate in the match.
func capture(content string, idx []int, group int) string {
	if 2*group+1 >= len(idx) || idx[2*group] < 0 {
		return ""
	}
	return content[idx[2*group]:idx[2*group+1]]
}

// commentedOut reports whether the text before the match on its own line
// starts with a comment prefix. Single-line prefixes only; block comments
// and trailing comments are not detected.
func commentedOut(content string, offset int, prefixes []string) bool {
	lineStart := strings.LastIndexByte(content[:offset], '\n') + 1
	lead := strings.TrimLeft(content[lineStart:offset], " \t")
	for _, p := range prefixes {
		if strings.HasPrefix(lead, p) {
			return true
		}
	}
	return false
}

// Structure is the best-effort shape of one file, recorded in
// detailed_structure.json.
type Structure struct {
	Language  string      `json:"language"`
	Functions []string    `json:"functions"`
	Classes   []ClassInfo `json:"classes"`
}

// ClassInfo is one class with its method names.
type ClassInfo struct {
	Name    string   `json:"name"`
	Methods []string `json:"methods"`
}

var (
	pyTopDefRe   = regexp.MustCompile(`(?m)^(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`)
	pyTopClassRe = regexp.MustCompile(`(?m)^class[ \t]+([A-Za-z_]\w*)[ \t]*(?:\([^)]*\))?[ \t]*:`)
	pyTopLevelRe = regexp.MustCompile(`(?m)^(?:async[ \t]+)?(?:def|class)[ \t]`)
	pyMethodRe   = regexp.MustCompile(`(?m)^[ \t]+(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`)
)

// StructureOf derives the per-file structure record. Python files get a
// column-zero scan for functions and classes with their methods; other code
// files reuse the export names, mirroring the shape the graph artifacts carry.
func StructureOf(path, content string, exports []ExportDeclaration) Structure {
	s := Structure{
		Language:  classify.FenceLanguage(path),
		Functions: []string{},
		Classes:   []ClassInfo{},
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return pythonStructure(content, s)
	case ".sh", ".bash":
		for _, e := range exports {
			if e.Kind == "function" {
				s.Functions = append(s.Functions, e.Name)
			}
		}
	case ".css", ".scss":
		// Stylesheets have no callable structure
	default:
		for _, e := range exports {
			s.Functions = append(s.Functions, e.Name)
		}
	}
	return s
}

func pythonStructure(content string, s Structure) Structure {
	s.Language = "python"

	for _, m := range pyTopDefRe.FindAllStringSubmatchIndex(content, -1) {
		s.Functions = append(s.Functions, content[m[2]:m[3]])
	}

	boundaries := pyTopLevelRe.FindAllStringIndex(content, -1)
	for _, cm := range pyTopClassRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[cm[2]:cm[3]]

		// The class body runs until the next column-zero def or class.
		end := len(content)
		for _, b := range boundaries {
			if b[0] > cm[0] {
				end = b[0]
				break
			}
		}

		methods := []string{}
		body := content[cm[0]:end]
		for _, mm := range pyMethodRe.FindAllStringSubmatchIndex(body, -1) {
			methods = append(methods, body[mm[2]:mm[3]])
		}
		s.Classes = append(s.Classes, ClassInfo{Name: name, Methods: methods})
	}
	return s
}
