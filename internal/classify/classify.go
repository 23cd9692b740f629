package classify

import (
	"os"
	"path/filepath"
	"strings"
)

// Tag is the language/category label assigned to a file. The tag decides which
// extraction rules apply; files tagged Config, Documentation or Unknown still
// appear in tree and documentation outputs but are never extracted.
type Tag string

const (
	Script          Tag = "script"
	MarkupComponent Tag = "markup-component"
	Stylesheet      Tag = "stylesheet"
	Shell           Tag = "shell"
	Config          Tag = "config"
	Documentation   Tag = "documentation"
	Unknown         Tag = "unknown"
)

// Ecosystems recognized by marker-file detection.
const (
	EcosystemReact  = "react"
	EcosystemPython = "python"
)

// tagByExt is the static extension table. Anything not listed maps to Unknown.
var tagByExt = map[string]Tag{
	".py":   Script,
	".ts":   Script,
	".js":   Script,
	".mjs":  Script,
	".tsx":  MarkupComponent,
	".jsx":  MarkupComponent,
	".css":  Stylesheet,
	".scss": Stylesheet,
	".sh":   Shell,
	".bash": Shell,
	".json": Config,
	".yaml": Config,
	".yml":  Config,
	".toml": Config,
	".ini":  Config,
	".md":   Documentation,
	".rst":  Documentation,
	".txt":  Documentation,
}

// Classify maps a file path to its Tag. Pure function of the extension;
// there is no failure mode.
func Classify(path string) Tag {
	ext := strings.ToLower(filepath.Ext(path))
	if tag, ok := tagByExt[ext]; ok {
		return tag
	}
	return Unknown
}

// Extractable reports whether files with this tag carry extraction rules.
func (t Tag) Extractable() bool {
	switch t {
	case Script, MarkupComponent, Stylesheet, Shell:
		return true
	}
	return false
}

// FenceLanguage returns the Markdown code-fence language for a file name.
// Extensions without a well-known fence render as a plain block.
func FenceLanguage(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".tsx":
		return "typescript"
	case ".py":
		return "python"
	case ".sh":
		return "bash"
	case ".css":
		return "css"
	}
	return ""
}

// DetectEcosystems inspects marker files at the repository root and returns the
// detected ecosystems: package.json marks a react/Node project, any of
// pyproject.toml, requirements.txt or setup.py marks a Python project. A repo
// can be both. A non-empty forced value short-circuits detection.
func DetectEcosystems(rootDir string, forced string) []string {
	if forced != "" {
		return []string{forced}
	}

	var langs []string
	if fileExists(filepath.Join(rootDir, "package.json")) {
		langs = append(langs, EcosystemReact)
	}
	if fileExists(filepath.Join(rootDir, "pyproject.toml")) ||
		fileExists(filepath.Join(rootDir, "requirements.txt")) ||
		fileExists(filepath.Join(rootDir, "setup.py")) {
		langs = append(langs, EcosystemPython)
	}
	return langs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
