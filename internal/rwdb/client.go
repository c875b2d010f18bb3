// Package rwdb is a database access facade that routes statements between one
// primary (write) server and a set of read replicas.
//
// A Client owns at most one write and one read connection, both opened lazily.
// Statements beginning with SELECT go to a randomly chosen replica until the
// Client opens a write connection; from then on every statement, reads
// included, runs on the write connection so callers always observe their own
// writes. With a single configured server both roles share one connection.
//
// A Client is not safe for concurrent use. Confine one Client per goroutine or
// guard it with a mutex.
package rwdb

import (
	"errors"
	"math/rand/v2"

	"github.com/joestump/rwdb/internal/driver"
	"github.com/joestump/rwdb/internal/metrics"
)

// Server describes one database server. Index 0 of a server list is the
// primary; the rest are read replicas.
type Server = driver.Server

// Option configures a Client.
type Option func(*Client)

// WithLogf sets a function called with debug-level messages about routing and
// failures.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(c *Client) {
		c.logf = logf
	}
}

// WithRand replaces the replica picker. intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(c *Client) {
		c.intn = intn
	}
}

// WithMetrics sets the recorder for connection and statement events.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		c.rec = r
	}
}

// Client is the routing facade. Create one with New and release it with Close.
type Client struct {
	drv     driver.Driver
	servers []Server
	logf    func(string, ...any)
	intn    func(int) int
	rec     metrics.Recorder

	write *Conn
	read  *Conn

	lastQuery string
	result    *Result
	err       error
}

// New returns a Client for servers. No connection is opened until needed.
func New(drv driver.Driver, servers []Server, opts ...Option) (*Client, error) {
	if len(servers) == 0 {
		return nil, ErrNoServers
	}
	if drv == nil {
		return nil, errors.New("rwdb: driver is required")
	}

	c := &Client{
		drv:     drv,
		servers: append([]Server(nil), servers...),
		intn:    rand.IntN,
		rec:     metrics.Nop{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Servers returns a copy of the configured server list.
func (c *Client) Servers() []Server {
	return append([]Server(nil), c.servers...)
}

// Err returns the error of the most recent failed call, or nil if the most
// recent statement succeeded.
func (c *Client) Err() error { return c.err }

// LastQuery returns the SQL text of the most recently executed statement,
// including one that failed.
func (c *Client) LastQuery() string { return c.lastQuery }

// Free releases the current Result.
func (c *Client) Free() {
	if c.result != nil {
		c.result.Free()
		c.result = nil
	}
}

// NumRows returns the number of rows in the current Result.
func (c *Client) NumRows() int {
	if c.result == nil {
		return 0
	}
	return c.result.NumRows()
}

// AffectedRows returns the number of rows changed by the current Result.
func (c *Client) AffectedRows() int64 {
	if c.result == nil {
		return 0
	}
	return c.result.AffectedRows()
}

// InsertID returns the id generated by the last insert on the write connection.
func (c *Client) InsertID() int64 {
	if c.write == nil {
		return 0
	}
	return c.write.raw.LastInsertID()
}

// Close closes the connections for the given modes, or both when none are
// given. A connection shared by both slots is closed once and cleared from
// both. After the write connection is closed reads may be routed to a replica
// again.
func (c *Client) Close(modes ...Mode) error {
	if len(modes) == 0 {
		modes = []Mode{Write, Read}
	}

	var errs []error
	for _, m := range modes {
		switch m {
		case Write:
			errs = append(errs, c.closeConn(c.write))
		case Read:
			errs = append(errs, c.closeConn(c.read))
		default:
			errs = append(errs, invalidMode(m))
		}
	}
	return errors.Join(errs...)
}

func (c *Client) closeConn(conn *Conn) error {
	if conn == nil {
		return nil
	}
	if c.write == conn {
		c.write = nil
	}
	if c.read == conn {
		c.read = nil
	}
	c.debugf("closing %s connection %s to server %d", conn.Mode, conn.ID, conn.Index)
	return conn.raw.Close()
}

func (c *Client) debugf(format string, args ...any) {
	if c.logf != nil {
		c.logf("rwdb: "+format, args...)
	}
}
