package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"event_calendar/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
)

// wrapStorageError translates driver-level failures into domain errors at
// the repository boundary. Timeouts and connection exhaustion surface as
// ErrServiceUnavailable; unique violations as ErrConflict. Raw storage
// errors are wrapped with the operation name for server-side logs only.
func wrapStorageError(op string, err error) error {
	var pgErr *pgconn.PgError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return fmt.Errorf("%s: %w", op, common.ErrServiceUnavailable)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%s: %w", op, common.ErrServiceUnavailable)
	case errors.As(err, &pgErr) && pgErr.Code == "23505": // unique violation
		return fmt.Errorf("%s: %w", op, common.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
