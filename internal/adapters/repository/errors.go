package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

const pgDiskFull = "53100"

// storageErr tags a driver failure as domain.ErrStorage, or as
// domain.ErrStorageFull when the database ran out of space.
func storageErr(op string, err error) error {
	kind := domain.ErrStorage
	if isFull(err) {
		kind = domain.ErrStorageFull
	}
	return fmt.Errorf("%w: %s: %w", kind, op, err)
}

func isFull(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_FULL {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgDiskFull {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgDiskFull {
		return true
	}

	return false
}
