package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v3"

	"github.com/ebuildy/schemastore/internal/catalog"
	"github.com/ebuildy/schemastore/internal/config"
	"github.com/ebuildy/schemastore/internal/planner"
)

// runPlan prints the local filename planned for every catalog entry without
// touching the network. Useful for inspecting slugs and collision suffixes.
func runPlan(args []string) int {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)

	catalogPath := fs.String("catalog", config.Default().Catalog, "Source catalog path")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: airgap plan [options]

Load the catalog and print the local filename each entry would be packaged
under. Entries without a usable URL are marked as skipped. No network
access, no files written.

Options:`)
		fs.PrintDefaults()
	}

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("AIRGAP")); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return ExitInvalidArgs
	}

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrInvalidCatalog) {
			return ExitCatalogError
		}
		return ExitGeneralError
	}

	names := planner.Plan(cat.Entries)
	for i, name := range names {
		url, _ := cat.Entries[i].URL()
		if name == "" {
			fmt.Printf("%4d  (skipped)\n", i)
			continue
		}
		fmt.Printf("%4d  %-40s  %s\n", i, name, url)
	}

	return ExitSuccess
}
