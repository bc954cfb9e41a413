// Package db constructs the store driver selected by configuration. The
// database handle is connected lazily here, with ping-retry backoff, and
// owned by the returned driver until Close.
package db

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/shahidain/mcp-server/profile"
	"github.com/shahidain/mcp-server/store"
	"github.com/shahidain/mcp-server/store/db/mysql"
	"github.com/shahidain/mcp-server/store/db/postgres"
	"github.com/shahidain/mcp-server/store/db/sqlite"
)

const (
	connectAttempts = 3
	connectDelay    = 1000 * time.Millisecond
)

// NewDriver opens the configured backend and verifies connectivity.
func NewDriver(ctx context.Context, p profile.Profile) (store.Driver, error) {
	switch p.DBDriver {
	case "sqlite":
		h, err := open(ctx, "sqlite", p.DBDSN)
		if err != nil {
			return nil, err
		}
		return sqlite.NewDB(h), nil
	case "mysql":
		h, err := open(ctx, "mysql", p.DBDSN)
		if err != nil {
			return nil, err
		}
		return mysql.NewDB(h), nil
	case "postgres":
		h, err := open(ctx, "postgres", p.DBDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewDB(h), nil
	default:
		return nil, errors.Errorf("unknown database driver %q", p.DBDriver)
	}
}

func open(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	h, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", driverName)
	}
	delay := connectDelay
	var last error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if last = h.PingContext(ctx); last == nil {
			return h, nil
		}
		if attempt < connectAttempts {
			slog.Warn("database unreachable, retrying", "driver", driverName, "attempt", attempt, "delay", delay, "err", last)
			select {
			case <-ctx.Done():
				h.Close()
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = delay * 3 / 2
		}
	}
	h.Close()
	return nil, errors.Wrapf(last, "connect %s database", driverName)
}
