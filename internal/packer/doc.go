// Package packer orchestrates the air-gapped bundle build.
//
// This package coordinates the catalog loader, filename planner and fetch
// client: it resolves every catalog entry — local override first, network
// second — writes the schema files into the output bucket, and reassembles
// the catalog with rewritten local URLs. It manages the worker pool and the
// per-entry failure bookkeeping.
//
// # Usage
//
// The main entry point is the Pack function:
//
//	result, err := packer.Pack(ctx, cat, srcBucket, outBucket, packer.Options{
//	    SchemasDir:  "schemas",
//	    Concurrency: 10,
//	})
//
// # Worker Pool
//
// A fixed number of workers receive entry indices from a channel, resolve
// the content and write each result into its own pre-assigned slot. Output
// order therefore always matches catalog order, regardless of completion
// order.
//
// # Failure Containment
//
// An error while resolving one entry never aborts the run: the entry keeps
// its original bytes in the output catalog, the failure is recorded on the
// Result, and the remaining entries proceed. Only top-level errors (the
// catalog itself, the output directory) are fatal.
package packer
