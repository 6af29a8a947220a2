//go:build !cgo

package sqlitestore

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
)

const driverName = "sqlite"

func dsn(path string, readOnly bool) string {
	if readOnly {
		return "file:" + path + "?mode=ro&_pragma=busy_timeout(5000)"
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// isSQLiteError checks if err is a *sqlite.Error with a message containing substr.
func isSQLiteError(err error, substr string) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr != nil {
		return strings.Contains(sqliteErr.Error(), substr)
	}
	return false
}
