// Package store provides file-backed storage for symbolic records.
//
// Each Store owns one text file. Every non-blank line that is not a ';'
// comment holds one record in atom notation. The file is an ordered,
// append-mostly log:
//   - Scan re-reads the file from the start on every call and yields one
//     atom.List per parsable line
//   - Append writes a record as the new final line
//   - InsertBeforeMarker places a record immediately before the first line
//     containing a marker, rewriting the file atomically
//
// # Critical Patterns
//
// Skip, don't fail: lines that do not parse are logged at Debug, counted
// through the Observer and skipped. One bad line never hides the rest of the
// file.
//
// Line order is meaning: lines before the marker are data facts, the marker
// line onward holds rules. InsertBeforeMarker preserves the relative order of
// every existing line.
//
// Single writer per file: Append and InsertBeforeMarker hold a per-path
// mutex plus an advisory flock on "<file>.lock" for their whole
// read-modify-write sequence. Readers take no lock; Scan only ever sees a
// complete file because rewrites go through write-temp-then-rename.
// Writers that bypass this package (editors, scripts) must be serialized by
// the host.
//
// # Missing Files
//
// A missing file is an empty store for Scan. Writers create the file and
// its directory on first write unless WithCreateMissing(false) is given, in
// which case they fail with an *Error wrapping ErrResourceMissing.
package store
