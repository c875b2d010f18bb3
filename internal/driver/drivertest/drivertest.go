// Package drivertest provides a recording in-memory implementation of
// driver.Driver for tests.
package drivertest

import (
	"context"
	"fmt"
	"strings"

	"github.com/joestump/rwdb/internal/driver"
)

// Error is a driver error with a native code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("drivertest: %s (%s)", e.Message, e.Code) }
func (e *Error) NativeCode() string { return e.Code }

// Exec records one statement executed on a Conn.
type Exec struct {
	Conn string
	SQL  string
}

// Driver is a fake driver. Connections are named "<host>[n]" in opening order.
// Responses and Errors are matched by the longest SQL prefix; unmatched
// statements succeed with an empty row set for SELECT and one affected row
// otherwise.
type Driver struct {
	Logf func(string, ...any)

	// ConnectErr, when set, is returned by Connect for hosts it names ("" matches all).
	ConnectErr   map[string]error
	CharsetErr   error
	Responses    map[string]*driver.Outcome
	Errors       map[string]error
	NextInsertID int64

	conns []*Conn
	execs []Exec
}

var _ driver.Driver = (*Driver)(nil)

// Connect opens a fake connection.
func (d *Driver) Connect(_ context.Context, srv driver.Server) (driver.Conn, error) {
	if err, ok := d.ConnectErr[srv.Host]; ok {
		return nil, err
	}
	if err, ok := d.ConnectErr[""]; ok {
		return nil, err
	}
	c := &Conn{driver: d, Server: srv, Name: fmt.Sprintf("%s[%d]", srv.Host, len(d.conns)+1), Autocommit: true}
	d.conns = append(d.conns, c)
	d.logf("opening: %s", c.Name)
	return c, nil
}

// Conns returns every connection opened so far, in order.
func (d *Driver) Conns() []*Conn { return d.conns }

// Execs returns every statement executed so far across all connections.
func (d *Driver) Execs() []Exec { return d.execs }

func (d *Driver) logf(format string, args ...any) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}

// Conn is a fake connection that records what it receives.
type Conn struct {
	driver *Driver

	Name       string
	Server     driver.Server
	Charset    string
	Autocommit bool
	Closed     bool
	Commits    int
	Rollbacks  int
	Executed   []string

	lastID int64
}

var _ driver.Conn = (*Conn)(nil)

func (c *Conn) SetCharset(_ context.Context, name string) error {
	if c.driver.CharsetErr != nil {
		return c.driver.CharsetErr
	}
	c.Charset = name
	return nil
}

// Escape backslash-escapes quotes and backslashes.
func (c *Conn) Escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`).Replace(s)
}

func (c *Conn) Execute(_ context.Context, query string) (*driver.Outcome, error) {
	if c.Closed {
		return nil, &Error{Code: "2006", Message: "server has gone away"}
	}
	c.Executed = append(c.Executed, query)
	c.driver.execs = append(c.driver.execs, Exec{Conn: c.Name, SQL: query})
	c.driver.logf("%s: %s", c.Name, query)

	if err, ok := longestPrefix(c.driver.Errors, query); ok {
		return nil, err
	}
	if out, ok := longestPrefix(c.driver.Responses, query); ok {
		c.lastID = out.InsertID
		return out, nil
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		c.lastID = 0
		return &driver.Outcome{Columns: []string{}, Rows: [][]any{}}, nil
	}
	c.driver.NextInsertID++
	c.lastID = c.driver.NextInsertID
	return &driver.Outcome{Affected: 1, InsertID: c.lastID}, nil
}

func (c *Conn) LastInsertID() int64 { return c.lastID }

func (c *Conn) SetAutocommit(_ context.Context, on bool) error {
	c.Autocommit = on
	return nil
}

func (c *Conn) Commit(context.Context) error {
	c.Commits++
	return nil
}

func (c *Conn) Rollback(context.Context) error {
	c.Rollbacks++
	return nil
}

func (c *Conn) Close() error {
	c.driver.logf("closing: %s", c.Name)
	c.Closed = true
	return nil
}

func (c *Conn) ServerVersion(context.Context) (string, error) { return "drivertest-1.0", nil }

func (c *Conn) Stat(context.Context) (string, error) {
	return fmt.Sprintf("Conn: %s  Statements: %d", c.Name, len(c.Executed)), nil
}

// longestPrefix returns the value whose key is the longest prefix of query.
func longestPrefix[V any](m map[string]V, query string) (V, bool) {
	var best V
	n := -1
	for prefix, v := range m {
		if len(prefix) > n && strings.HasPrefix(query, prefix) {
			best, n = v, len(prefix)
		}
	}
	return best, n >= 0
}
