package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/repindex/repindex/internal/classify"
	"github.com/repindex/repindex/internal/extract"
	"github.com/repindex/repindex/internal/git"
	"github.com/repindex/repindex/internal/graph"
	"github.com/repindex/repindex/internal/resolve"
)

// ArtifactDirName is the directory created under the output path that holds
// every artifact of a run.
const ArtifactDirName = "repindex"

// Options configure one Indexer.
type Options struct {
	RootDir     string   // repository to index
	OutputDir   string   // parent of the artifact directory, defaults to "."
	Languages   []string // forced ecosystems, empty means detect from markers
	IgnoreGlobs []string // extra ignore patterns from configuration
	Suffixes    []string // resolution suffix precedence override
	NoIgnore    bool     // index everything except the artifact directory
	NoCache     bool     // drop incremental state, skip change reporting
	Minimal     bool     // write only cache, changes and report
	Progress    ProgressReporter
	Git         git.Operations // overrides repository metadata collection in tests
}

// Indexer runs the pipeline: discover, extract, resolve, assemble, write.
// The phases run sequentially; a run's outputs are a pure function of the
// repository contents plus the previous cache.
type Indexer struct {
	opts       Options
	rootDir    string
	outDir     string
	ecosystems []string
	discovery  *FileDiscovery
	writer     *AtomicWriter
	storage    graph.Storage
	resolver   *resolve.Resolver
	progress   ProgressReporter
	gitOps     git.Operations
}

// Result carries everything a run produced for callers that keep going after
// the artifacts are on disk, like watch mode and the context command.
type Result struct {
	Files   []string
	Graph   *graph.DependencyGraph
	Report  *Report
	Changes *ChangeSet
}

// New validates the repository root and prepares a ready-to-run Indexer.
func New(opts Options) (*Indexer, error) {
	rootDir, err := filepath.Abs(opts.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path: %w", err)
	}
	info, err := os.Stat(rootDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("repository path %q does not exist or is not a directory", opts.RootDir)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	outDir, err := filepath.Abs(filepath.Join(outputDir, ArtifactDirName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}

	ecosystems := opts.Languages
	if len(ecosystems) == 0 {
		ecosystems = classify.DetectEcosystems(rootDir, "")
	}

	discovery, err := NewFileDiscovery(rootDir, ecosystems, outDir, opts.IgnoreGlobs, opts.NoIgnore)
	if err != nil {
		return nil, err
	}

	writer, err := NewAtomicWriter(outDir)
	if err != nil {
		return nil, err
	}

	storage, err := graph.NewStorage(outDir)
	if err != nil {
		return nil, err
	}

	suffixes := opts.Suffixes
	if len(suffixes) == 0 {
		suffixes = resolve.SuffixesFor(ecosystems)
	}

	progress := opts.Progress
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	gitOps := opts.Git
	if gitOps == nil {
		gitOps = git.NewOperations()
	}

	return &Indexer{
		opts:       opts,
		rootDir:    rootDir,
		outDir:     outDir,
		ecosystems: ecosystems,
		discovery:  discovery,
		writer:     writer,
		storage:    storage,
		resolver:   resolve.NewResolver(suffixes),
		progress:   progress,
		gitOps:     gitOps,
	}, nil
}

// RootDir returns the absolute repository root.
func (ix *Indexer) RootDir() string { return ix.rootDir }

// OutputDir returns the artifact directory for this indexer.
func (ix *Indexer) OutputDir() string { return ix.outDir }

// Ecosystems returns the forced or detected ecosystems.
func (ix *Indexer) Ecosystems() []string { return ix.ecosystems }

// Run executes the full pipeline. The returned error is non-nil only for
// fatal failures, an unreadable root or artifact write errors; per-file
// problems land in the report and the run keeps going.
func (ix *Indexer) Run(ctx context.Context) (*Result, error) {
	report := NewReport(ix.rootDir, ix.ecosystems)
	report.Repository = git.Describe(ix.gitOps, ix.rootDir)

	ix.progress.OnDiscoveryStart()
	files, err := ix.discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	ix.progress.OnDiscoveryComplete(len(files))

	contents, extractions, err := ix.extract(ctx, files, report)
	if err != nil {
		return nil, err
	}

	g := ix.buildGraph(files, extractions)

	report.FilesTotal = len(files)
	report.FilesExtracted = len(extractions)
	report.Edges = len(g.Edges)
	for _, e := range g.Edges {
		if e.External {
			report.ExternalEdges++
		}
	}

	ix.progress.OnArtifactsStart()
	if !ix.opts.Minimal {
		if err := ix.writeArtifacts(files, contents, extractions, g); err != nil {
			return nil, err
		}
	}

	changes, err := ix.updateCache(ctx, files, contents, report)
	if err != nil {
		return nil, err
	}

	report.Finish()
	if err := ix.writer.WriteJSON(ReportFileName, report); err != nil {
		return nil, err
	}

	ix.progress.OnComplete(report)

	return &Result{Files: files, Graph: g, Report: report, Changes: changes}, nil
}

// extract reads and classifies every discovered file, running the rule tables
// over the extractable ones. Unreadable files are recorded as warnings and
// skipped.
func (ix *Indexer) extract(ctx context.Context, files []string, report *Report) (map[string]string, map[string]Extraction, error) {
	contents := make(map[string]string, len(files))
	extractions := make(map[string]Extraction)

	extractable := 0
	for _, f := range files {
		if classify.Classify(f).Extractable() {
			extractable++
		}
	}
	ix.progress.OnExtractionStart(extractable)

	for _, relPath := range files {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		data, err := os.ReadFile(filepath.Join(ix.rootDir, filepath.FromSlash(relPath)))
		if err != nil {
			report.Warnf(relPath, "unreadable: %v", err)
			continue
		}
		content := string(data)
		contents[relPath] = content

		tag := classify.Classify(relPath)
		if !tag.Extractable() {
			continue
		}

		imports, exports := extract.Extract(content, tag)
		extractions[relPath] = Extraction{
			Tag:       tag,
			Imports:   imports,
			Exports:   exports,
			Structure: extract.StructureOf(relPath, content, exports),
		}
		ix.progress.OnFileProcessed(relPath)
	}

	return contents, extractions, nil
}

// buildGraph resolves every reference against the complete file set and
// assembles the dependency graph. A file's exported names become one
// self-referential export edge.
func (ix *Indexer) buildGraph(files []string, extractions map[string]Extraction) *graph.DependencyGraph {
	fileSet := resolve.NewFileSet(files)

	var edges []graph.Edge
	for _, relPath := range files {
		ex, ok := extractions[relPath]
		if !ok {
			continue
		}

		for _, imp := range ex.Imports {
			for _, res := range ix.resolver.Resolve(imp, relPath, fileSet) {
				edges = append(edges, graph.Edge{
					Source:   relPath,
					Target:   res.Target,
					Origin:   graph.OriginImport,
					Symbols:  res.Symbols,
					External: res.External,
				})
			}
		}

		if len(ex.Exports) > 0 {
			names := make([]string, 0, len(ex.Exports))
			for _, e := range ex.Exports {
				names = append(names, e.Name)
			}
			edges = append(edges, graph.Edge{
				Source:  relPath,
				Target:  relPath,
				Origin:  graph.OriginExport,
				Symbols: names,
			})
		}
	}

	return graph.Assemble(edges)
}

// writeArtifacts writes the full artifact set: tree, the four graph
// projections, both structure files and both documentation variants.
func (ix *Indexer) writeArtifacts(files []string, contents map[string]string, extractions map[string]Extraction, g *graph.DependencyGraph) error {
	tree, err := RenderTree(ix.rootDir, ix.discovery)
	if err != nil {
		return fmt.Errorf("failed to render tree: %w", err)
	}
	if err := ix.writer.WriteText(TreeFileName, tree); err != nil {
		return err
	}

	if err := ix.storage.Save(g); err != nil {
		return err
	}

	detailed, top := StructureArtifacts(files, extractions)
	if err := ix.writer.WriteJSON(DetailedStructureFileName, detailed); err != nil {
		return err
	}
	if err := ix.writer.WriteJSON(TopLevelStructureFileName, top); err != nil {
		return err
	}

	if err := ix.writer.WriteText(DocFileName, Documentation(files, contents)); err != nil {
		return err
	}
	return ix.writer.WriteText(DocLightFileName, DocumentationLight(files, contents))
}

// updateCache maintains the incremental cache and, when something changed,
// the changes report. NoCache removes the cache and skips change detection
// entirely, making the next cached run a full baseline again.
func (ix *Indexer) updateCache(ctx context.Context, files []string, contents map[string]string, report *Report) (*ChangeSet, error) {
	cachePath := ix.writer.Path(CacheFileName)

	if ix.opts.NoCache {
		if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove cache: %w", err)
		}
		return nil, nil
	}

	previous, err := LoadCache(cachePath)
	if err != nil {
		report.Warnf(CacheFileName, "ignoring unreadable cache: %v", err)
		previous = &Cache{Files: map[string]CacheEntry{}}
	}

	changes, hashes, err := DetectChanges(ctx, files, contents, previous)
	if err != nil {
		return nil, err
	}

	if changes.HasChanges() {
		md, err := ChangesReport(changes, contents, time.Now())
		if err != nil {
			return nil, err
		}
		if err := ix.writer.WriteText(ChangesFileName, md); err != nil {
			return nil, err
		}
	}

	if err := ix.writer.WriteJSON(CacheFileName, NewCache(hashes)); err != nil {
		return nil, err
	}

	return changes, nil
}

// BuildGraph indexes the repository in memory and returns the assembled
// dependency graph without writing any artifacts.
func (ix *Indexer) BuildGraph(ctx context.Context) (*graph.DependencyGraph, error) {
	report := NewReport(ix.rootDir, ix.ecosystems)

	files, err := ix.discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	_, extractions, err := ix.extract(ctx, files, report)
	if err != nil {
		return nil, err
	}

	return ix.buildGraph(files, extractions), nil
}

// WriteContext runs discovery and extraction, builds the graph and writes a
// timestamped context document for the target files. Returns the artifact
// path.
func (ix *Indexer) WriteContext(ctx context.Context, targets []string) (string, error) {
	if len(targets) == 0 {
		return "", fmt.Errorf("at least one target file is required")
	}

	report := NewReport(ix.rootDir, ix.ecosystems)

	files, err := ix.discovery.DiscoverFiles()
	if err != nil {
		return "", fmt.Errorf("failed to discover files: %w", err)
	}

	contents, extractions, err := ix.extract(ctx, files, report)
	if err != nil {
		return "", err
	}

	g := ix.buildGraph(files, extractions)

	normalized := make([]string, 0, len(targets))
	for _, t := range targets {
		normalized = append(normalized, filepath.ToSlash(filepath.Clean(t)))
	}

	doc := ContextDoc(normalized, g, extractions, func(f string) (string, error) {
		if content, ok := contents[f]; ok {
			return content, nil
		}
		return "", fmt.Errorf("file %s not indexed", f)
	})

	name := fmt.Sprintf("context_%s.md", time.Now().Format("20060102_150405"))
	if err := ix.writer.WriteText(name, doc); err != nil {
		return "", err
	}
	return ix.writer.Path(name), nil
}
