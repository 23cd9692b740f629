package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/repindex/repindex/internal/indexer"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet          bool
	fileBar        *progressbar.ProgressBar
	startTime      time.Time
	totalFiles     int
	processedFiles int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Scanning repository...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if c.quiet {
		return
	}
	log.Printf("Processing %d files\n", totalFiles)
	fmt.Println()
}

func (c *CLIProgressReporter) OnExtractionStart(extractableFiles int) {
	if c.quiet {
		return
	}
	c.totalFiles = extractableFiles
	c.processedFiles = 0

	c.fileBar = progressbar.NewOptions(extractableFiles,
		progressbar.OptionSetDescription("Indexing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(fileName string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.processedFiles++
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnArtifactsStart() {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	log.Println("Building dependency graphs and documentation...")
}

func (c *CLIProgressReporter) OnComplete(report *indexer.Report) {
	if c.quiet {
		return
	}

	fmt.Println()
	fmt.Printf("✓ Indexing complete: %d files, %d edges in %.1fs\n",
		report.FilesTotal, report.Edges, float64(report.DurationMs)/1000.0)
	if len(report.Warnings) > 0 {
		fmt.Printf("  Warnings: %d (see %s)\n", len(report.Warnings), indexer.ReportFileName)
	}
}
