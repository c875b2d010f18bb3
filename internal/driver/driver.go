// Package driver defines the capability the rwdb facade needs from a database
// driver: open a session to one server, escape literals, execute SQL text and
// control the session's transaction state.
package driver

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Server identifies one physical database server.
type Server struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     int    `mapstructure:"port"`
	Charset  string `mapstructure:"charset"`
}

// Driver opens sessions.
type Driver interface {
	Connect(ctx context.Context, srv Server) (Conn, error)
}

// Conn is an open session to one server. A Conn is not safe for concurrent use.
type Conn interface {
	SetCharset(ctx context.Context, name string) error
	Escape(s string) string
	Execute(ctx context.Context, query string) (*Outcome, error)
	LastInsertID() int64
	SetAutocommit(ctx context.Context, on bool) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close() error
	ServerVersion(ctx context.Context) (string, error)
	Stat(ctx context.Context) (string, error)
}

// Outcome is what a driver returns for one executed statement. Read statements
// fill Columns and Rows; write statements fill Affected and InsertID.
type Outcome struct {
	Columns  []string
	Rows     [][]any
	Affected int64
	InsertID int64
}

// HasRows reports whether the outcome came from a row-returning statement.
func (o *Outcome) HasRows() bool {
	return o != nil && o.Columns != nil
}

// nativeCoder is implemented by driver errors that carry their own code.
type nativeCoder interface {
	NativeCode() string
}

// Code returns the server's native error code for err, or "" when none is known.
func Code(err error) string {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return strconv.Itoa(int(me.Number))
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return string(pe.Code)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return strconv.Itoa(se.Code())
	}
	var nc nativeCoder
	if errors.As(err, &nc) {
		return nc.NativeCode()
	}
	return ""
}

// Message returns the server's message for err without any driver prefix.
func Message(err error) string {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Message
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
