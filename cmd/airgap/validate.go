package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v3"
	"gocloud.dev/blob/fileblob"

	"github.com/ebuildy/schemastore/internal/catalog"
	"github.com/ebuildy/schemastore/internal/packer"
)

// runValidate checks that a built bundle is self-contained: every entry of
// the bundle's catalog whose URL was rewritten to a local path must point at
// an existing, non-empty file.
func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	out := fs.String("out", "build", "Bundle directory to validate")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: airgap validate [options]

Verify that the bundle's catalog only references schema files that exist in
the bundle. Entries still pointing at remote URLs (failed during packing)
are reported but do not invalidate the bundle.

Options:`)
		fs.PrintDefaults()
	}

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("AIRGAP")); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return ExitInvalidArgs
	}

	ctx := context.Background()

	cat, err := catalog.Load(filepath.Join(*out, packer.CatalogFilename))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitCatalogError
	}

	bucket, err := fileblob.OpenBucket(*out, &fileblob.Options{Metadata: fileblob.MetadataDontWrite})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bundle directory: %v\n", err)
		return ExitStorageError
	}
	defer bucket.Close()

	var local, remote, missing, empty int
	for i, e := range cat.Entries {
		url, ok := e.URL()
		if !ok {
			continue
		}
		if !strings.HasPrefix(url, "./") {
			remote++
			continue
		}
		local++

		key := strings.TrimPrefix(url, "./")
		attrs, err := bucket.Attributes(ctx, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[airgap] entry %d: missing %s\n", i, key)
			missing++
			continue
		}
		if attrs.Size == 0 {
			fmt.Fprintf(os.Stderr, "[airgap] entry %d: empty %s\n", i, key)
			empty++
		}
	}

	fmt.Printf("Bundle: %s\n", *out)
	fmt.Printf("Entries: %d\n", len(cat.Entries))
	fmt.Printf("Local: %d\n", local)
	fmt.Printf("Remote: %d\n", remote)

	if missing == 0 && empty == 0 {
		fmt.Println("Status: VALID")
		return ExitSuccess
	}

	fmt.Println("Status: INVALID")
	fmt.Printf("Missing files: %d\n", missing)
	fmt.Printf("Empty files: %d\n", empty)
	return ExitValidationFailed
}
