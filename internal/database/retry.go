package database

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// The serve command and a CLI command may write to the same library file.
// Writes that find the database locked are retried with exponential backoff.
const (
	busyRetries = 5
	busyBackoff = 20 * time.Millisecond
)

// withBusyRetry runs op, retrying while it fails with SQLITE_BUSY or
// SQLITE_LOCKED. Other errors are returned immediately.
func withBusyRetry(ctx context.Context, op func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(busyRetries, retry.NewExponential(busyBackoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := op(ctx)
		if isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// isBusy reports whether err is a lock contention error from SQLite.
func isBusy(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	default:
		return false
	}
}
