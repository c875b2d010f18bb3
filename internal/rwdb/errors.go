package rwdb

import (
	"errors"
	"fmt"

	"github.com/joestump/rwdb/internal/driver"
)

var (
	// ErrNoServers is returned by New when the server list is empty.
	ErrNoServers = errors.New("rwdb: at least one server is required")

	// ErrInvalidMode is wrapped by the ConnectionError returned for a mode
	// other than Read or Write.
	ErrInvalidMode = errors.New("rwdb: invalid connection mode")
)

// ConnectionError reports a failed connect, a failed character set
// negotiation, or an invalid routing mode.
type ConnectionError struct {
	Code    string
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("rwdb: connect failed: [%s] %s", e.Code, e.Message)
	}
	return "rwdb: connect failed: " + e.Message
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failed statement. SQL is the rendered statement text.
type QueryError struct {
	Code    string
	Message string
	SQL     string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("rwdb: query failed: [%s] %s; sql: %s", e.Code, e.Message, e.SQL)
	}
	return fmt.Sprintf("rwdb: query failed: %s; sql: %s", e.Message, e.SQL)
}

func (e *QueryError) Unwrap() error { return e.Err }

func connectionError(err error) *ConnectionError {
	return &ConnectionError{Code: driver.Code(err), Message: driver.Message(err), Err: err}
}

func queryError(err error, sql string) *QueryError {
	return &QueryError{Code: driver.Code(err), Message: driver.Message(err), SQL: sql, Err: err}
}
