// Package progress provides progress reporting for pack runs.
//
// This package outputs human-readable progress information to stderr,
// including resolved entry counts, failures and fetched bytes.
//
// # Usage
//
//	reporter := progress.NewReporter(Options{
//	    TotalEntries: len(cat.Entries),
//	    Workers:      10,
//	    CatalogPath:  "src/api/json/catalog.json",
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as entries resolve
//	reporter.EntryCompleted(size)
//
// # Output Format
//
//	[airgap] Packing: src/api/json/catalog.json
//	[airgap] Entries: 812 | Workers: 10
//	[airgap] Progress: 45.2% | 367/812 entries | 2 failed | 14.3 MB fetched
package progress
