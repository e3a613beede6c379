// Package catalog reads, rewrites and reassembles schema catalog documents.
//
// A catalog is a JSON object with a "schemas" array of entries plus arbitrary
// metadata fields. Entries are kept as raw JSON throughout the pipeline:
// only the "url" field of successfully packaged entries is ever rewritten,
// everything else — unknown entry fields, unknown top-level fields, key
// order — survives byte-for-byte.
//
// # Loading
//
//	cat, err := catalog.Load("src/api/json/catalog.json")
//	// errors.Is(err, catalog.ErrNotFound)       missing file
//	// errors.Is(err, catalog.ErrInvalidCatalog) no schemas array
//
// # Assembly
//
// After processing, Assemble splices the (possibly rewritten) entries back
// into the source document at their original indices and pretty-prints the
// result with a trailing newline.
package catalog
