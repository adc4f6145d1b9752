// Package database provides the SQLite-backed case library for qrguard.
//
// The library stores fraud case batches fetched from the classification
// service, so they can be read again offline, and the answers given to quiz
// questions. Scan results are never stored.
//
// modernc.org/sqlite is a CGO-free driver, so the binary cross-compiles and
// the database is a single file under the XDG data directory.
package database
