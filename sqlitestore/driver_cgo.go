//go:build cgo

package sqlitestore

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

func dsn(path string, readOnly bool) string {
	if readOnly {
		return "file:" + path + "?mode=ro&_busy_timeout=5000"
	}
	return "file:" + path + "?_busy_timeout=5000&_foreign_keys=ON"
}

// isSQLiteError checks if err is a sqlite3.Error with a message containing substr.
// Handles both value (sqlite3.Error) and pointer (*sqlite3.Error) forms.
func isSQLiteError(err error, substr string) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return strings.Contains(sqliteErr.Error(), substr)
	}
	var sqliteErrPtr *sqlite3.Error
	if errors.As(err, &sqliteErrPtr) && sqliteErrPtr != nil {
		return strings.Contains(sqliteErrPtr.Error(), substr)
	}
	return false
}
