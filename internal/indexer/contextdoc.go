package indexer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/graph"
)

// ContextDoc assembles the consolidated context document for a set of target
// files: the transitive import closure as a file list, then each involved
// file's content and structure. Targets come first, marked as main files.
// Files the reader cannot supply are silently left out of the contents
// section, matching how the rest of the pipeline treats unreadable files.
func ContextDoc(targets []string, g *graph.DependencyGraph, extractions map[string]Extraction, readFile func(string) (string, error)) string {
	involved := graph.ImportClosure(g, targets)

	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Context for Files: %s\n\n", strings.Join(targets, ", "))

	b.WriteString("## Involved Files\n\n")
	for _, f := range involved {
		if targetSet[f] {
			fmt.Fprintf(&b, "- %s (TARGET)\n", f)
		} else {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	b.WriteString("\n## File Contents\n\n")
	for _, f := range targets {
		writeContextSection(&b, f, " (Main)", extractions, readFile)
	}
	for _, f := range involved {
		if !targetSet[f] {
			writeContextSection(&b, f, "", extractions, readFile)
		}
	}

	return b.String()
}

func writeContextSection(b *strings.Builder, f, suffix string, extractions map[string]Extraction, readFile func(string) (string, error)) {
	content, err := readFile(f)
	if err != nil {
		return
	}
	fmt.Fprintf(b, "### %s%s\n\n```%s\n%s\n```\n\n", f, suffix, classify.FenceLanguage(f), content)

	if ex, ok := extractions[f]; ok {
		data, err := json.MarshalIndent(ex.Structure, "", "    ")
		if err == nil {
			b.WriteString("#### Structure\n\n```json\n" + string(data) + "\n```\n\n")
		}
	}
}
