// Package planner derives local filenames for catalog entries.
//
// Filenames are planned for the whole catalog up front, before any entry is
// fetched, so that naming never depends on the order in which concurrent
// fetches complete.
//
// # Derivation
//
// For each entry:
//   - entries that are not JSON objects, or have no string "url", get no
//     filename and are passed through the pipeline untouched
//   - if the entry has a string "name", the filename is slug(name) + ".json"
//   - otherwise it is derived from the URL's last path segment
//
// # Collisions
//
// Two entries may derive the same base filename. The first occurrence (in
// catalog order) keeps the base name; the Nth occurrence gets an "-N" suffix
// inserted before the extension:
//
//	foo.json, foo-2.json, foo-3.json, ...
package planner
