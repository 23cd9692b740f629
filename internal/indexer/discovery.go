package indexer

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/repindex/repindex/internal/classify"
)

// compiledPattern holds both the pattern string and its compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery walks a repository and produces the ordered file set an
// indexing run covers. Dot-prefixed entries are always skipped, detected
// ecosystems bring their conventional directories (node_modules for react,
// __pycache__ and the env/venv virtualenvs for python), and user glob
// patterns can add more. NoIgnore disables all of that except the artifact
// directory guard: the output directory never indexes itself.
type FileDiscovery struct {
	rootDir    string
	ecosystems []string
	noIgnore   bool
	outputRel  string // artifact dir relative to root, "" when outside the repo
	extra      []compiledPattern
}

// NewFileDiscovery compiles the ignore patterns for a repository root.
// outputDir is the artifact directory to exclude from walks; extraPatterns are
// glob strings matched against slash-separated relative paths.
func NewFileDiscovery(rootDir string, ecosystems []string, outputDir string, extraPatterns []string, noIgnore bool) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir:    rootDir,
		ecosystems: ecosystems,
		noIgnore:   noIgnore,
	}

	if outputDir != "" {
		rel, err := filepath.Rel(rootDir, outputDir)
		if err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			fd.outputRel = filepath.ToSlash(rel)
		}
	}

	for _, pattern := range extraPatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		fd.extra = append(fd.extra, compiledPattern{pattern: pattern, glob: g})
	}

	return fd, nil
}

// DiscoverFiles walks the repository and returns repository-relative,
// slash-separated paths in lexical walk order. Every non-ignored file is
// included regardless of type; classification happens later. Unreadable
// subdirectories are logged and skipped, only a failure at the root itself is
// an error.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(fd.rootDir, func(p string, info os.FileInfo, err error) error {
		relPath, relErr := filepath.Rel(fd.rootDir, p)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if err != nil {
			if relPath == "." {
				return err
			}
			log.Printf("Warning: skipping %s: %v", relPath, err)
			return nil
		}

		if relPath == "." {
			return nil
		}

		if info.IsDir() {
			if fd.shouldIgnoreDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnoreFile(relPath) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// shouldIgnoreDir decides whether a directory is pruned from the walk.
func (fd *FileDiscovery) shouldIgnoreDir(relPath string) bool {
	if fd.outputRel != "" && relPath == fd.outputRel {
		return true
	}
	if fd.noIgnore {
		return false
	}
	base := path.Base(relPath)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if fd.ecosystemIgnored(base) {
		return true
	}
	return fd.matchesAnyPattern(relPath) || fd.matchesAnyPattern(relPath+"/**")
}

// shouldIgnoreFile decides whether a single file is excluded.
func (fd *FileDiscovery) shouldIgnoreFile(relPath string) bool {
	if fd.noIgnore {
		return false
	}
	if strings.HasPrefix(path.Base(relPath), ".") {
		return true
	}
	return fd.matchesAnyPattern(relPath)
}

// ShouldIgnore reports whether an arbitrary relative path lies outside the
// indexed set. The watcher uses this for event paths, which may name files or
// directories that no longer exist, so the directory rules apply to every
// path component.
func (fd *FileDiscovery) ShouldIgnore(relPath string) bool {
	relPath = path.Clean(filepath.ToSlash(relPath))
	if fd.outputRel != "" && (relPath == fd.outputRel || strings.HasPrefix(relPath, fd.outputRel+"/")) {
		return true
	}
	if fd.noIgnore {
		return false
	}
	for _, part := range strings.Split(relPath, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
		if fd.ecosystemIgnored(part) {
			return true
		}
	}
	return fd.matchesAnyPattern(relPath) || fd.matchesAnyPattern(relPath+"/**")
}

// ecosystemIgnored reports whether a base name is a conventional dependency
// or build-cache directory for one of the active ecosystems.
func (fd *FileDiscovery) ecosystemIgnored(base string) bool {
	for _, eco := range fd.ecosystems {
		switch eco {
		case classify.EcosystemReact:
			if base == "node_modules" {
				return true
			}
		case classify.EcosystemPython:
			if base == "__pycache__" || base == "env" || base == "venv" {
				return true
			}
		}
	}
	return false
}

// matchesAnyPattern checks the user patterns against a relative path. A
// pattern like "**/*.log" never matches root-level files with gobwas/glob, so
// patterns with a "**/" prefix get a second chance against the simplified
// form.
func (fd *FileDiscovery) matchesAnyPattern(relPath string) bool {
	for _, cp := range fd.extra {
		if cp.glob.Match(relPath) {
			return true
		}
	}
	if !strings.Contains(relPath, "/") {
		for _, cp := range fd.extra {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(relPath) {
					return true
				}
			}
		}
	}
	return false
}
