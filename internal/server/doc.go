// Package server exposes the scan flow as a JSON API for the mobile web
// client. It is stateless apart from the optional quiz answer log: scan
// results are returned to the caller and discarded.
package server
