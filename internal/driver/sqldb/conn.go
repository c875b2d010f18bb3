package sqldb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/rwdb/internal/driver"
)

var charsetRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// rowKeywords are the leading keywords of statements that return a row set.
var rowKeywords = []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "PRAGMA", "VALUES"}

// conn is one pinned database/sql session.
type conn struct {
	db      *sqlx.DB
	sc      *sqlx.Conn
	dialect string

	autocommit bool
	inTx       bool
	lastID     int64
}

func (c *conn) SetCharset(ctx context.Context, name string) error {
	if !charsetRe.MatchString(name) {
		return fmt.Errorf("invalid character set name %q", name)
	}
	switch c.dialect {
	case MySQL:
		_, err := c.sc.ExecContext(ctx, "SET NAMES "+name)
		return err
	case Postgres:
		_, err := c.sc.ExecContext(ctx, "SET client_encoding TO '"+name+"'")
		return err
	default:
		switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
		case "utf8", "utf8mb4":
			return nil
		}
		return fmt.Errorf("sqlite3 only supports UTF-8, got %q", name)
	}
}

func (c *conn) Escape(s string) string {
	if c.dialect == MySQL {
		return escapeBackslash(s)
	}
	return escapeQuotes(s)
}

func (c *conn) Execute(ctx context.Context, query string) (*driver.Outcome, error) {
	if returnsRows(c.dialect, query) {
		return c.query(ctx, query)
	}
	res, err := c.sc.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &driver.Outcome{}
	out.Affected, _ = res.RowsAffected()
	// lib/pq does not support LastInsertId; the id stays 0 there.
	if id, err := res.LastInsertId(); err == nil {
		out.InsertID = id
	}
	c.lastID = out.InsertID
	return out, nil
}

func (c *conn) query(ctx context.Context, query string) (*driver.Outcome, error) {
	rows, err := c.sc.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := &driver.Outcome{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out.Rows = append(out.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A write with RETURNING reports one row per affected row. INSERT ...
	// RETURNING reports the generated id through its first column.
	c.lastID = 0
	if hasReturning(c.dialect, query) {
		out.Affected = int64(len(out.Rows))
		if strings.EqualFold(firstWord(query), "INSERT") && len(out.Rows) > 0 && len(cols) > 0 {
			c.lastID = toInt64(out.Rows[0][0])
			out.InsertID = c.lastID
		}
	}
	return out, nil
}

func (c *conn) LastInsertID() int64 { return c.lastID }

func (c *conn) SetAutocommit(ctx context.Context, on bool) error {
	if c.dialect == MySQL {
		v := "0"
		if on {
			v = "1"
		}
		if _, err := c.sc.ExecContext(ctx, "SET autocommit="+v); err != nil {
			return err
		}
		c.autocommit, c.inTx = on, !on
		return nil
	}

	c.autocommit = on
	if on {
		// Re-enabling autocommit commits pending work, as MySQL does.
		return c.end(ctx, "COMMIT")
	}
	return c.begin(ctx)
}

func (c *conn) Commit(ctx context.Context) error {
	if c.dialect == MySQL {
		_, err := c.sc.ExecContext(ctx, "COMMIT")
		return err
	}
	return c.restart(ctx, "COMMIT")
}

func (c *conn) Rollback(ctx context.Context) error {
	if c.dialect == MySQL {
		_, err := c.sc.ExecContext(ctx, "ROLLBACK")
		return err
	}
	return c.restart(ctx, "ROLLBACK")
}

// restart ends the current transaction and, with autocommit off, opens the next one.
func (c *conn) restart(ctx context.Context, stmt string) error {
	if err := c.end(ctx, stmt); err != nil {
		return err
	}
	if !c.autocommit {
		return c.begin(ctx)
	}
	return nil
}

func (c *conn) begin(ctx context.Context) error {
	if c.inTx {
		return nil
	}
	if _, err := c.sc.ExecContext(ctx, "BEGIN"); err != nil {
		return err
	}
	c.inTx = true
	return nil
}

func (c *conn) end(ctx context.Context, stmt string) error {
	if !c.inTx {
		return nil
	}
	if _, err := c.sc.ExecContext(ctx, stmt); err != nil {
		return err
	}
	c.inTx = false
	return nil
}

func (c *conn) Close() error {
	return errors.Join(c.sc.Close(), c.db.Close())
}

func (c *conn) ServerVersion(ctx context.Context) (string, error) {
	q := "SELECT sqlite_version()"
	switch c.dialect {
	case MySQL:
		q = "SELECT VERSION()"
	case Postgres:
		q = "SHOW server_version"
	}
	var v string
	if err := c.sc.GetContext(ctx, &v, q); err != nil {
		return "", err
	}
	return v, nil
}

func (c *conn) Stat(ctx context.Context) (string, error) {
	switch c.dialect {
	case MySQL:
		var vars []struct {
			Name  string `db:"Variable_name"`
			Value string `db:"Value"`
		}
		err := c.sc.SelectContext(ctx, &vars, `SHOW GLOBAL STATUS WHERE Variable_name IN
			('Uptime', 'Threads_connected', 'Questions', 'Slow_queries', 'Opened_tables')`)
		if err != nil {
			return "", err
		}
		m := make(map[string]string, len(vars))
		for _, v := range vars {
			m[v.Name] = v.Value
		}
		return fmt.Sprintf("Uptime: %s  Threads: %s  Questions: %s  Slow queries: %s  Opens: %s",
			m["Uptime"], m["Threads_connected"], m["Questions"], m["Slow_queries"], m["Opened_tables"]), nil
	case Postgres:
		var s struct {
			Uptime   int64 `db:"uptime"`
			Backends int64 `db:"backends"`
		}
		err := c.sc.GetContext(ctx, &s, `
			SELECT CAST(EXTRACT(EPOCH FROM now() - pg_postmaster_start_time()) AS BIGINT) AS uptime,
			       (SELECT count(*) FROM pg_stat_activity) AS backends`)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Uptime: %d  Backends: %d", s.Uptime, s.Backends), nil
	default:
		var pages, size int64
		if err := c.sc.GetContext(ctx, &pages, "PRAGMA page_count"); err != nil {
			return "", err
		}
		if err := c.sc.GetContext(ctx, &size, "PRAGMA page_size"); err != nil {
			return "", err
		}
		return fmt.Sprintf("Pages: %d  Page size: %d", pages, size), nil
	}
}

// returnsRows reports whether query should be run through Query rather than Exec.
func returnsRows(dialect, query string) bool {
	w := strings.ToUpper(firstWord(query))
	for _, k := range rowKeywords {
		if w == k {
			return true
		}
	}
	return hasReturning(dialect, query)
}

var returningRe = regexp.MustCompile(`(?i)\bRETURNING\b`)

// hasReturning reports whether query has a RETURNING clause outside its
// quoted literals and identifiers.
func hasReturning(dialect, query string) bool {
	return returningRe.MatchString(stripQuoted(query, dialect == MySQL))
}

// stripQuoted replaces every quoted span of query with a single space.
// Doubled quotes inside a span are honored, and so are backslash escapes
// when backslash is set.
func stripQuoted(query string, backslash bool) string {
	var b strings.Builder
	b.Grow(len(query))
	var quote byte
	for i := 0; i < len(query); i++ {
		ch := query[i]
		if quote == 0 {
			switch ch {
			case '\'', '"', '`':
				quote = ch
				b.WriteByte(' ')
			default:
				b.WriteByte(ch)
			}
			continue
		}
		switch {
		case backslash && ch == '\\' && quote != '`':
			i++
		case ch == quote && i+1 < len(query) && query[i+1] == quote:
			i++
		case ch == quote:
			quote = 0
		}
	}
	return b.String()
}

func firstWord(query string) string {
	query = strings.TrimLeft(query, " \t\r\n(")
	if i := strings.IndexAny(query, " \t\r\n(;"); i >= 0 {
		return query[:i]
	}
	return query
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}
