// Package history records generation runs in a local SQLite database.
//
// Each successful generation appends one row holding the run identifier, the
// chosen variant and route, whether the copy came from the rewrite service or
// the fallback composer, and the serialized post. The CLI lists and shows
// these rows; the pipeline treats recording as best effort.
//
// Schema changes ship as numbered files under migrations/ and are applied in
// order inside a single transaction on Open.
package history
