package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	"github.com/ebuildy/schemastore/internal/catalog"
	"github.com/ebuildy/schemastore/internal/config"
	"github.com/ebuildy/schemastore/internal/fetch"
	"github.com/ebuildy/schemastore/internal/packer"
	"github.com/ebuildy/schemastore/internal/progress"
)

// runPack builds the air-gapped bundle from the source catalog.
func runPack(args []string) int {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)

	catalogPath := fs.String("catalog", "", "Source catalog path (default src/api/json/catalog.json)")
	out := fs.String("out", "", "Output bundle directory (default build)")
	schemasDir := fs.String("schemas-dir", "", "Bundle subdirectory for schema files (default schemas)")
	source := fs.String("src", "", "Local override directory consulted before the network (default src/schemas/json)")
	concurrency := fs.Int("concurrency", 0, "Number of entries fetched in parallel (default 10)")
	retryAttempts := fs.Int("retry-attempts", 0, "Max download attempts per entry (default 4)")
	retryBackoff := fs.Duration("retry-backoff", 0, "Initial retry backoff (default 1s)")
	retryMaxBackoff := fs.Duration("retry-max-backoff", 0, "Max retry backoff (default 30s)")
	showProgress := fs.Bool("progress", false, "Show progress output")
	configFile := fs.String("config", "", "YAML configuration file")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: airgap pack [options]

Fetch every schema listed in the catalog and write an air-gapped bundle:
a directory holding the schema files plus a rewritten catalog whose URLs
point at the local copies. Entries that fail to resolve keep their remote
URL; they are counted and reported but do not fail the run.

Options:`)
		fs.PrintDefaults()
	}

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("AIRGAP")); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadFromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = loaded
	}
	cfg = cfg.Merge(config.Config{
		Catalog:     *catalogPath,
		Out:         *out,
		SchemasDir:  *schemasDir,
		Source:      *source,
		Concurrency: *concurrency,
		Progress:    *showProgress,
		Retry: config.RetryConfig{
			Attempts:   *retryAttempts,
			Backoff:    *retryBackoff,
			MaxBackoff: *retryMaxBackoff,
		},
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[airgap] Received interrupt, shutting down...")
		cancel()
	}()

	return pack(ctx, cfg)
}

func pack(ctx context.Context, cfg config.Config) int {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrInvalidCatalog) {
			return ExitCatalogError
		}
		return ExitGeneralError
	}

	outBucket, err := fileblob.OpenBucket(cfg.Out, &fileblob.Options{
		CreateDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening output directory: %v\n", err)
		return ExitStorageError
	}
	defer outBucket.Close()

	srcBucket, err := openOverrideBucket(cfg.Source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening override directory: %v\n", err)
		return ExitStorageError
	}
	if srcBucket != nil {
		defer srcBucket.Close()
	}

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalEntries:   len(cat.Entries),
			Workers:        cfg.Concurrency,
			UpdateInterval: 5 * time.Second,
			CatalogPath:    cfg.Catalog,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	result, err := packer.Pack(ctx, cat, srcBucket, outBucket, packer.Options{
		SchemasDir:  cfg.SchemasDir,
		Concurrency: cfg.Concurrency,
		Progress:    reporter,
		Fetch: fetch.Options{
			Attempts:            cfg.Retry.Attempts,
			Backoff:             cfg.Retry.Backoff,
			MaxBackoff:          cfg.Retry.MaxBackoff,
			MaxIdleConnsPerHost: cfg.Concurrency * 2,
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "[airgap] Pack interrupted")
			return ExitGeneralError
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}
	if reporter != nil {
		reporter.Stop()
	}

	for _, f := range result.Failures {
		fmt.Fprintf(os.Stderr, "[airgap] entry %d (%s): %v\n", f.Index, f.URL, f.Err)
	}

	fmt.Fprintf(os.Stderr, "[airgap] Packed %d of %d entries (%d failed, %d skipped) | %s\n",
		result.Packed, result.Total, result.Failed, result.Skipped,
		progress.FormatBytes(result.Bytes))
	fmt.Fprintf(os.Stderr, "[airgap] Bundle: %s/%s\n", cfg.Out, packer.CatalogFilename)

	if result.Failed > 0 {
		fmt.Fprintf(os.Stderr, "[airgap] Warning: %d entries kept their remote URL\n", result.Failed)
	}

	return ExitSuccess
}

// openOverrideBucket opens the local override directory as a bucket, or
// returns nil when the directory does not exist (overrides are optional).
func openOverrideBucket(dir string) (*blob.Bucket, error) {
	if dir == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return fileblob.OpenBucket(dir, &fileblob.Options{Metadata: fileblob.MetadataDontWrite})
}
