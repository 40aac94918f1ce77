// Package database provides SQLite-based storage for wordrank.
//
// The DB stores:
//   - Analysis results: the all-words and significant-words counts of
//     every analysed page, with the ranked list and content hash
//   - Users: the minimal user directory exposed over HTTP
//
// Word counts are stored as JSON objects whose key order is the order in
// which words first appeared, so a result read back ranks ties exactly as
// it did when it was computed.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external service - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode gives readers (the history command, the web page) good
//    concurrency while an analysis is being saved
//
// Every failure wraps ErrStore so callers can distinguish storage problems
// from fetch problems with errors.Is.
package database
