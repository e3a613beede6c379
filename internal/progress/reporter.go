package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalEntries is the number of catalog entries scheduled for resolution.
	TotalEntries int

	// Workers is the number of parallel workers.
	Workers int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration

	// CatalogPath is the catalog being packed (for display).
	CatalogPath string
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options

	mu               sync.Mutex
	completedBytes   atomic.Int64
	completedEntries atomic.Int32
	failedEntries    atomic.Int32
	inProgress       atomic.Int32
	startTime        time.Time
	stopCh           chan struct{}
	stopped          bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()

	fmt.Fprintf(r.opts.Output, "[airgap] Packing: %s\n", r.opts.CatalogPath)
	fmt.Fprintf(r.opts.Output, "[airgap] Entries: %d | Workers: %d\n",
		r.opts.TotalEntries,
		r.opts.Workers,
	)

	go r.updateLoop()
}

// Stop stops the progress reporter.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// EntryStarted marks an entry as in progress.
func (r *Reporter) EntryStarted() {
	r.inProgress.Add(1)
}

// EntryCompleted marks an entry as resolved, with the number of schema bytes
// written for it.
func (r *Reporter) EntryCompleted(size int64) {
	r.completedBytes.Add(size)
	r.completedEntries.Add(1)
	r.inProgress.Add(-1)
}

// EntryFailed marks an entry as failed.
func (r *Reporter) EntryFailed() {
	r.failedEntries.Add(1)
	r.inProgress.Add(-1)
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	completed := int(r.completedEntries.Load())
	failed := int(r.failedEntries.Load())
	done := completed + failed

	var percent float64
	if r.opts.TotalEntries > 0 {
		percent = float64(done) / float64(r.opts.TotalEntries) * 100
	}

	fmt.Fprintf(r.opts.Output, "\r[airgap] Progress: %.1f%% | %d/%d entries | %d failed | %s fetched    ",
		percent,
		done,
		r.opts.TotalEntries,
		failed,
		formatBytes(r.completedBytes.Load()),
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	completed := int(r.completedEntries.Load())
	failed := int(r.failedEntries.Load())
	duration := time.Since(r.startTime)

	fmt.Fprintf(r.opts.Output, "\r[airgap] Resolved: %d entries | %d failed | %s fetched    \n",
		completed,
		failed,
		formatBytes(r.completedBytes.Load()),
	)
	fmt.Fprintf(r.opts.Output, "[airgap] Total time: %s\n", formatDuration(duration))
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}
