package packer

import (
	"context"
	"fmt"
	"sync"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/ebuildy/schemastore/internal/catalog"
	"github.com/ebuildy/schemastore/internal/fetch"
	"github.com/ebuildy/schemastore/internal/planner"
	"github.com/ebuildy/schemastore/internal/progress"
)

// CatalogFilename is the name of the rewritten catalog inside the bundle.
const CatalogFilename = "catalog.json"

// Options configures the packer.
type Options struct {
	// SchemasDir is the bundle subdirectory that receives schema files.
	// Default: "schemas"
	SchemasDir string

	// Concurrency is the number of entries resolved in parallel.
	// Default: 10
	Concurrency int

	// Fetch configures the HTTP client (retry attempts, backoff).
	Fetch fetch.Options

	// Progress is an optional progress reporter.
	Progress *progress.Reporter
}

// Failure records one entry that could not be resolved.
type Failure struct {
	Index int    // Entry index in the catalog
	URL   string // The entry's remote URL
	Err   error  // What went wrong
}

// Result summarizes a pack run.
type Result struct {
	Total    int   // Entries in the catalog
	Packed   int   // Entries fetched (or copied) and rewritten
	Skipped  int   // Entries without a usable URL, passed through verbatim
	Failed   int   // Entries that kept their remote URL after errors
	Bytes    int64 // Schema bytes written into the bundle
	Failures []Failure
}

type packer struct {
	cat    *catalog.Catalog
	names  []string
	src    *blob.Bucket
	out    *blob.Bucket
	client *fetch.Client
	opts   Options
}

// Pack builds the air-gapped bundle: every entry of cat is resolved from
// src (the local override bucket, may be nil) or downloaded from its URL,
// written under opts.SchemasDir in out, and the rewritten catalog is
// persisted as CatalogFilename in out.
//
// Per-entry errors are absorbed and reported on the Result; the returned
// error is non-nil only for run-level failures (context cancellation,
// catalog reassembly, writing the catalog itself).
func Pack(ctx context.Context, cat *catalog.Catalog, src, out *blob.Bucket, opts Options) (*Result, error) {
	// Apply defaults
	if opts.SchemasDir == "" {
		opts.SchemasDir = "schemas"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}

	p := &packer{
		cat:    cat,
		names:  planner.Plan(cat.Entries),
		src:    src,
		out:    out,
		client: fetch.NewClient(opts.Fetch),
		opts:   opts,
	}

	// Per-index result slots. Workers write only to their own index, so the
	// slices need no locking; failures are counted in the reduction below.
	entries := make([]catalog.Entry, len(cat.Entries))
	copy(entries, cat.Entries)
	errs := make([]error, len(cat.Entries))
	sizes := make([]int64, len(cat.Entries))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if opts.Progress != nil {
					opts.Progress.EntryStarted()
				}

				rewritten, n, err := p.resolve(ctx, i)
				if err != nil {
					errs[i] = err
					if opts.Progress != nil {
						opts.Progress.EntryFailed()
					}
					continue
				}

				entries[i] = rewritten
				sizes[i] = n
				if opts.Progress != nil {
					opts.Progress.EntryCompleted(n)
				}
			}
		}()
	}

	res := &Result{Total: len(cat.Entries)}

feed:
	for i := range cat.Entries {
		if p.names[i] == "" {
			res.Skipped++
			continue
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Reduce per-index outcomes sequentially.
	for i, err := range errs {
		if err == nil {
			continue
		}
		url, _ := cat.Entries[i].URL()
		res.Failed++
		res.Failures = append(res.Failures, Failure{Index: i, URL: url, Err: err})
	}
	for _, n := range sizes {
		res.Bytes += n
	}
	res.Packed = res.Total - res.Skipped - res.Failed

	doc, err := cat.Assemble(entries)
	if err != nil {
		return nil, err
	}
	if err := out.WriteAll(ctx, CatalogFilename, doc, nil); err != nil {
		return nil, fmt.Errorf("write %s: %w", CatalogFilename, err)
	}

	return res, nil
}

// resolve produces the rewritten entry for index i: the schema content is
// taken from the override bucket when present, downloaded otherwise, and
// written into the bundle.
func (p *packer) resolve(ctx context.Context, i int) (catalog.Entry, int64, error) {
	entry := p.cat.Entries[i]
	name := p.names[i]

	url, _ := entry.URL()

	data, err := p.content(ctx, url, name)
	if err != nil {
		return catalog.Entry{}, 0, err
	}

	key := p.opts.SchemasDir + "/" + name
	if err := p.out.WriteAll(ctx, key, data, nil); err != nil {
		return catalog.Entry{}, 0, fmt.Errorf("write %s: %w", key, err)
	}

	rewritten, err := entry.WithURL("./" + key)
	if err != nil {
		return catalog.Entry{}, 0, err
	}

	return rewritten, int64(len(data)), nil
}

// content resolves the schema bytes for one entry. A file named name in the
// override bucket wins unconditionally: it is copied verbatim and the
// network is never contacted for that entry.
func (p *packer) content(ctx context.Context, url, name string) ([]byte, error) {
	if p.src != nil {
		data, err := p.src.ReadAll(ctx, name)
		if err == nil {
			return data, nil
		}
		if gcerrors.Code(err) != gcerrors.NotFound {
			return nil, fmt.Errorf("read override %s: %w", name, err)
		}
	}

	return p.client.Get(ctx, url)
}
