package runtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// DriverName is the database/sql driver used for the catalog.
const DriverName = "mysql"

// ErrConnection is returned when the catalog cannot be reached.
var ErrConnection = errors.New("connection failed")

// Connect opens the catalog and pings it so that an unreachable server is
// reported before any table work starts.
func Connect(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: DSN is empty", ErrConnection)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return db, nil
}
