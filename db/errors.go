package db

import (
	"strings"

	"github.com/teranos/tripgen/errors"
)

// ErrDatabaseClosed marks storage calls that reached a closed pool, as
// happens when `tripgen serve` closes the database while a request is still
// being handled.
var ErrDatabaseClosed = errors.New("database is closed")

// closedMessage is what database/sql reports for a call on a closed *sql.DB.
const closedMessage = "database is closed"

// IsDatabaseClosed reports whether err came from a closed database, either
// marked with ErrDatabaseClosed or carrying the database/sql message.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), closedMessage)
}

// markClosed tags err with ErrDatabaseClosed when it reports a closed pool
// and wraps it with msg either way.
func markClosed(err error, msg string) error {
	wrapped := errors.Wrap(err, msg)
	if IsDatabaseClosed(err) {
		return errors.Mark(wrapped, ErrDatabaseClosed)
	}
	return wrapped
}
