// Package sqldb implements driver.Driver on top of database/sql for MySQL,
// PostgreSQL and SQLite. Each driver.Conn pins a single physical session so
// autocommit and transaction state belong to that session.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/joestump/rwdb/internal/driver"
)

// Supported dialects.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite3"
)

// Driver opens database/sql backed sessions for one dialect.
type Driver struct {
	dialect string
	sslMode string
}

// Option configures a Driver.
type Option func(*Driver)

// WithSSLMode sets the PostgreSQL sslmode connection parameter (default "disable").
func WithSSLMode(mode string) Option {
	return func(d *Driver) {
		if mode != "" {
			d.sslMode = mode
		}
	}
}

var _ driver.Driver = (*Driver)(nil)

// New returns a Driver for the given dialect.
// Supported dialects: sqlite3, mysql, postgres.
func New(dialect string, opts ...Option) (*Driver, error) {
	switch dialect {
	case MySQL, Postgres, SQLite:
	default:
		return nil, fmt.Errorf("unsupported DB driver %q: must be sqlite3, mysql, or postgres", dialect)
	}
	d := &Driver{dialect: dialect, sslMode: "disable"}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Dialect returns the dialect name the driver was created with.
func (d *Driver) Dialect() string { return d.dialect }

// Connect opens a session to srv. The returned error is the driver's native
// error so callers can extract its code with driver.Code.
func (d *Driver) Connect(ctx context.Context, srv driver.Server) (driver.Conn, error) {
	name, dsn, err := d.dataSource(srv)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.dialect, err)
	}
	// One physical session per Conn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	sc, err := db.Connx(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := sc.PingContext(ctx); err != nil {
		_ = errors.Join(sc.Close(), db.Close())
		return nil, err
	}

	c := &conn{db: db, sc: sc, dialect: d.dialect, autocommit: true}
	if d.dialect == SQLite {
		// WAL mode for concurrent readers, busy timeout for writer contention.
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := sc.ExecContext(ctx, pragma); err != nil {
				_ = c.Close()
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}
	return c, nil
}

// Open returns a database/sql pool for srv, for callers such as migrations
// that need a plain *sqlx.DB rather than a pinned session.
func (d *Driver) Open(srv driver.Server) (*sqlx.DB, error) {
	name, dsn, err := d.dataSource(srv)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.dialect, err)
	}
	return db, nil
}

// dataSource returns the database/sql driver name and DSN for srv.
func (d *Driver) dataSource(srv driver.Server) (string, string, error) {
	switch d.dialect {
	case MySQL:
		port := srv.Port
		if port == 0 {
			port = 3306
		}
		cfg := mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(srv.Host, strconv.Itoa(port))
		cfg.User = srv.User
		cfg.Passwd = srv.Password
		cfg.DBName = srv.Name
		return "mysql", cfg.FormatDSN(), nil
	case Postgres:
		port := srv.Port
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(srv.Host, strconv.Itoa(port)),
			Path:     "/" + srv.Name,
			RawQuery: url.Values{"sslmode": {d.sslMode}}.Encode(),
		}
		if srv.User != "" {
			u.User = url.UserPassword(srv.User, srv.Password)
		}
		return "postgres", u.String(), nil
	default:
		if srv.Name == "" {
			return "", "", errors.New("sqlite3 requires a database file name")
		}
		// modernc/sqlite uses "sqlite" as the driver name (CGO-free)
		return "sqlite", srv.Name, nil
	}
}
