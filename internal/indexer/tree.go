package indexer

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// TreeFileName is the directory tree artifact.
const TreeFileName = "tree_structure.txt"

// RenderTree produces the tree artifact: the repository basename on the first
// line, then one line per entry with box-drawing connectors. Entries at each
// level are sorted by name and pruned with the same ignore rules as discovery.
func RenderTree(rootDir string, fd *FileDiscovery) (string, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(filepath.Base(abs) + "\n")
	if err := renderTreeLevel(&b, rootDir, "", "", fd); err != nil {
		return "", err
	}
	return b.String(), nil
}

type treeEntry struct {
	name  string
	isDir bool
}

func renderTreeLevel(b *strings.Builder, dir, rel, prefix string, fd *FileDiscovery) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	kept := make([]treeEntry, 0, len(entries))
	for _, entry := range entries {
		entryRel := entry.Name()
		if rel != "" {
			entryRel = path.Join(rel, entry.Name())
		}
		if entry.IsDir() {
			if fd.shouldIgnoreDir(entryRel) {
				continue
			}
		} else if fd.shouldIgnoreFile(entryRel) {
			continue
		}
		kept = append(kept, treeEntry{name: entry.Name(), isDir: entry.IsDir()})
	}

	for idx, entry := range kept {
		connector, extension := "├── ", "│   "
		if idx == len(kept)-1 {
			connector, extension = "└── ", "    "
		}
		b.WriteString(prefix + connector + entry.name + "\n")

		if entry.isDir {
			childRel := entry.name
			if rel != "" {
				childRel = path.Join(rel, entry.name)
			}
			if err := renderTreeLevel(b, filepath.Join(dir, entry.name), childRel, prefix+extension, fd); err != nil {
				return err
			}
		}
	}
	return nil
}
