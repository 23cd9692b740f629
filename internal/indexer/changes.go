package indexer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangesFileName is the Markdown changes report artifact.
const ChangesFileName = "repindex_changes.md"

// ChangesReport renders the Markdown report for a change set. The cache keeps
// hashes only, so there is no previous content to diff against: added and
// modified files show their full current content as additions. A file whose
// current content is empty gets the no-diff marker instead.
func ChangesReport(cs *ChangeSet, contents map[string]string, now time.Time) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Changes since last run (%s)\n\n", now.Format(time.RFC3339))

	changed := make([]string, 0, len(cs.Added)+len(cs.Modified))
	changed = append(changed, cs.Added...)
	changed = append(changed, cs.Modified...)
	sort.Strings(changed)

	if len(changed) > 0 {
		b.WriteString("## Changed or New Files:\n\n")
		for _, f := range changed {
			fmt.Fprintf(&b, "### %s\n\n", f)

			text, err := unifiedDiff("", contents[f])
			if err != nil {
				return "", fmt.Errorf("failed to diff %s: %w", f, err)
			}
			text = strings.TrimRight(text, "\n")
			if text != "" {
				b.WriteString("```diff\n" + text + "\n```\n\n")
			} else {
				b.WriteString("_No diff available (new file)_\n\n")
			}
		}
	}

	if len(cs.Deleted) > 0 {
		b.WriteString("## Removed Files:\n\n")
		for _, f := range cs.Deleted {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	return b.String(), nil
}

// unifiedDiff renders a unified diff with three lines of context.
func unifiedDiff(oldContent, newContent string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: "old",
		ToFile:   "new",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
