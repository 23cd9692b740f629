package extract

import (
	"regexp"
	"strings"

	"github.com/repindex/repindex/internal/classify"
)

// ruleKind tags whether a rule captures import references or export declarations.
type ruleKind int

const (
	ruleImport ruleKind = iota
	ruleExport
)

// rule is one matcher and capture pattern in a tag's extraction table.
// Tables are data: adding a language means adding rules, not code paths.
type rule struct {
	kind ruleKind
	re   *regexp.Regexp

	// Imports: pathGroup captures the module/path string. clauseGroup (optional)
	// captures the symbol clause, turned into names by clauseParse. listSplit
	// marks pathGroup as a comma-separated module list (Python `import a, b`),
	// which expands into one reference per module.
	pathGroup   int
	clauseGroup int
	clauseParse func(string) []string
	listSplit   bool

	// Exports: nameGroup captures the declared symbol, exportKind its kind.
	// A clauseGroup+clauseParse pair may be used instead for list forms.
	nameGroup  int
	exportKind string

	// Line prefixes that mark a match as commented out. Most rules anchor at
	// the start of a line, so this matters for the unanchored ones.
	comments []string
}

var (
	slashComments = []string{"//"}
	hashComments  = []string{"#"}
	cssComments   = []string{"/*", "//"}
)

// TS/JS family: ES module imports/exports plus the CommonJS forms.
var tsRules = []rule{
	// import <clause> from '<path>' (clause may span lines)
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*import\s+([^'";]+?)\s*from\s*['"]([^'"]+)['"]`),
		clauseGroup: 1, pathGroup: 2, clauseParse: parseImportClause, comments: slashComments},
	// import '<path>' (side effect only)
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*import\s*['"]([^'"]+)['"]`),
		pathGroup: 1, comments: slashComments},
	// export <clause> from '<path>' (re-export pulls from the target)
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+(\*(?:\s+as\s+[\w$]+)?|\{[^}]*\})\s*from\s*['"]([^'"]+)['"]`),
		clauseGroup: 1, pathGroup: 2, clauseParse: parseImportClause, comments: slashComments},
	// const/let/var <clause> = require('<path>')
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*(?:const|let|var)\s+([^=;]+?)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`),
		clauseGroup: 1, pathGroup: 2, clauseParse: parseImportClause, comments: slashComments},
	// require('<path>') anywhere on a line (unanchored, so comment check applies)
	{kind: ruleImport, re: regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
		pathGroup: 1, comments: slashComments},

	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+(?:async\s+)?function\s+([A-Za-z_$][\w$]*)`),
		nameGroup: 1, exportKind: "function", comments: slashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+class\s+([A-Za-z_$][\w$]*)`),
		nameGroup: 1, exportKind: "class", comments: slashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+default\s+([A-Za-z_$][\w$]*)[ \t]*;?[ \t]*$`),
		nameGroup: 1, exportKind: "variable", comments: slashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+(?:declare\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)`),
		nameGroup: 1, exportKind: "function", comments: slashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+(?:declare\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`),
		nameGroup: 1, exportKind: "class", comments: slashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+(?:declare\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)`),
		nameGroup: 1, exportKind: "variable", comments: slashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+(?:declare\s+)?(?:interface|type|enum)\s+([A-Za-z_$][\w$]*)`),
		nameGroup: 1, exportKind: "type", comments: slashComments},
	// export { a, b as c } lists public names. Line-end anchored so re-exports
	// (handled above) stay out
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export\s+\{([^}]*)\}[ \t]*;?[ \t]*$`),
		clauseGroup: 1, clauseParse: parseExportList, comments: slashComments},
	// module.exports.X = / exports.X =
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*module\.exports\.([A-Za-z_$][\w$]*)\s*=`),
		nameGroup: 1, exportKind: "variable", comments: slashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*exports\.([A-Za-z_$][\w$]*)\s*=`),
		nameGroup: 1, exportKind: "variable", comments: slashComments},
}

// Python family. The module part of a from-import keeps its leading dots: the
// resolver needs the relative level (`from .b import x` references ".b").
var pyRules = []rule{
	// from <module> import (<names>), parenthesized list, may span lines
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*from[ \t]+(\.*[\w.]*)[ \t]+import[ \t]*\(([^)]*)\)`),
		pathGroup: 1, clauseGroup: 2, clauseParse: parsePyNames, comments: hashComments},
	// from <module> import <names>
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*from[ \t]+(\.*[\w.]*)[ \t]+import[ \t]+([^(\n][^\n]*)`),
		pathGroup: 1, clauseGroup: 2, clauseParse: parsePyNames, comments: hashComments},
	// import a.b, c as d yields one reference per module, no symbols
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*import[ \t]+([A-Za-z_][\w.]*(?:[ \t]+as[ \t]+\w+)?(?:[ \t]*,[ \t]*[A-Za-z_][\w.]*(?:[ \t]+as[ \t]+\w+)?)*)[ \t]*(?:#.*)?$`),
		pathGroup: 1, listSplit: true, comments: hashComments},

	// Top-level defs and classes are the file's exports. Column-zero anchors
	// keep nested defs out; the trailing `(` / `:` keep these from firing on
	// TS/JS content sharing the script tag.
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^(?:async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`),
		nameGroup: 1, exportKind: "function", comments: hashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^class[ \t]+([A-Za-z_]\w*)[ \t]*(?:\([^)]*\))?[ \t]*:`),
		nameGroup: 1, exportKind: "class", comments: hashComments},
}

// Stylesheets: @import and @use pull in other sheets.
var cssRules = []rule{
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*@import[ \t]+url\(\s*['"]?([^'")]+?)['"]?\s*\)`),
		pathGroup: 1, comments: cssComments},
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*@import[ \t]+['"]([^'"]+)['"]`),
		pathGroup: 1, comments: cssComments},
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*@use[ \t]+['"]([^'"]+)['"]`),
		pathGroup: 1, comments: cssComments},
}

// Shell: sourced files are imports, exported variables and functions are exports.
var shellRules = []rule{
	{kind: ruleImport, re: regexp.MustCompile(`(?m)^[ \t]*(?:source|\.)[ \t]+["']?([^"'\s;]+)["']?`),
		pathGroup: 1, comments: hashComments},

	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*export[ \t]+([A-Za-z_]\w*)=`),
		nameGroup: 1, exportKind: "variable", comments: hashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*function[ \t]+([A-Za-z_]\w*)[ \t]*\{`),
		nameGroup: 1, exportKind: "function", comments: hashComments},
	{kind: ruleExport, re: regexp.MustCompile(`(?m)^[ \t]*(?:function[ \t]+)?([A-Za-z_]\w*)[ \t]*\(\)[ \t]*\{`),
		nameGroup: 1, exportKind: "function", comments: hashComments},
}

// rulesByTag maps each Tag to its ordered extraction table. The script tag
// carries both the TS/JS and Python families; their patterns are disjoint.
var rulesByTag = map[classify.Tag][]rule{
	classify.Script:          concatRules(tsRules, pyRules),
	classify.MarkupComponent: tsRules,
	classify.Stylesheet:      cssRules,
	classify.Shell:           shellRules,
}

func concatRules(tables ...[]rule) []rule {
	var out []rule
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

// parseImportClause turns a TS/JS import clause into the symbol names crossing
// the edge: named imports use the exported (pre-`as`) name, a default import
// uses its local name, a namespace import records "*". Braces are flattened to
// separators, so `X, { a as b, c }` yields X, a, c.
func parseImportClause(clause string) []string {
	norm := strings.NewReplacer("{", ",", "}", ",", "\n", " ", "\r", " ").Replace(clause)
	var names []string
	for _, part := range strings.Split(norm, ",") {
		name := strings.TrimSpace(part)
		name = strings.TrimPrefix(name, "type ")
		if name == "" || name == "type" {
			continue
		}
		if strings.HasPrefix(name, "*") {
			names = append(names, "*")
			continue
		}
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if isIdent(name) {
			names = append(names, name)
		}
	}
	return names
}

// parseExportList turns `a, b as c` from an export brace list into public names
// (the post-`as` side).
func parseExportList(clause string) []string {
	var names []string
	for _, part := range strings.Split(clause, ",") {
		name := strings.TrimSpace(part)
		name = strings.TrimPrefix(name, "type ")
		if idx := strings.LastIndex(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[idx+4:])
		}
		if isIdent(name) {
			names = append(names, name)
		}
	}
	return names
}

// parsePyNames turns a Python import-name list into symbols: aliases are
// dropped (the exported name crosses the edge), `*` is kept as written.
func parsePyNames(clause string) []string {
	if idx := strings.Index(clause, "#"); idx >= 0 {
		clause = clause[:idx]
	}
	var names []string
	for _, part := range strings.Split(clause, ",") {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if name == "*" {
			names = append(names, name)
			continue
		}
		if isIdent(name) {
			names = append(names, name)
		}
	}
	return names
}

// splitModuleList expands Python's `import a.b, c as d` into module paths.
func splitModuleList(list string) []string {
	var modules []string
	for _, part := range strings.Split(list, ",") {
		name := strings.TrimSpace(part)
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		if name != "" {
			modules = append(modules, name)
		}
	}
	return modules
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
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
