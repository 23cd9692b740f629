package indexer

import (
	"fmt"
	"strings"

	"github.com/repindex/repindex/internal/classify"
)

// Markdown documentation artifacts.
const (
	DocFileName      = "documentation.md"
	DocLightFileName = "documentation_light.md"
)

// lightExtensions are the extensions kept by the light documentation variant.
var lightExtensions = []string{".ts", ".tsx", ".css", ".py", ".sh"}

// Documentation renders every discovered file as a fenced section in walk
// order. A file whose content could not be read renders an error note so the
// artifact still accounts for it.
func Documentation(files []string, contents map[string]string) string {
	var b strings.Builder
	for _, f := range files {
		writeDocSection(&b, f, contents)
	}
	return b.String()
}

// DocumentationLight is Documentation restricted to code files.
func DocumentationLight(files []string, contents map[string]string) string {
	var b strings.Builder
	for _, f := range files {
		if !isLightFile(f) {
			continue
		}
		writeDocSection(&b, f, contents)
	}
	return b.String()
}

func writeDocSection(b *strings.Builder, f string, contents map[string]string) {
	content, ok := contents[f]
	if !ok {
		fmt.Fprintf(b, "### %s\n\nError reading file.\n\n", f)
		return
	}
	fmt.Fprintf(b, "### %s\n\n```%s\n%s\n```\n\n", f, classify.FenceLanguage(f), content)
}

func isLightFile(f string) bool {
	for _, ext := range lightExtensions {
		if strings.HasSuffix(f, ext) {
			return true
		}
	}
	return false
}
