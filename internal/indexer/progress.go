package indexer

// ProgressReporter provides callbacks for reporting indexing progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(totalFiles int)

	// OnExtractionStart is called before per-file extraction begins.
	OnExtractionStart(extractableFiles int)

	// OnFileProcessed is called after each extractable file is processed.
	OnFileProcessed(fileName string)

	// OnArtifactsStart is called when artifact writing begins.
	OnArtifactsStart()

	// OnComplete is called when the run finishes successfully.
	OnComplete(report *Report)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                      {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int)     {}
func (n *NoOpProgressReporter) OnExtractionStart(extractableFiles int) {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string)        {}
func (n *NoOpProgressReporter) OnArtifactsStart()                      {}
func (n *NoOpProgressReporter) OnComplete(report *Report)              {}
