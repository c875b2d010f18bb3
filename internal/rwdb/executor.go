package rwdb

import (
	"context"
	"time"
)

// Query renders tmpl with args, runs it on the connection chosen for its
// classification and stores the outcome as the current Result. A connection
// failure is returned as *ConnectionError and a statement failure as
// *QueryError; in both cases there is no current Result afterwards.
func (c *Client) Query(ctx context.Context, tmpl string, args ...Value) (*Result, error) {
	conn, err := c.resolve(ctx, Classify(tmpl))
	c.Free()
	if err != nil {
		c.lastQuery = tmpl
		return nil, err
	}

	sql, err := render(tmpl, args, conn.raw.Escape)
	if err != nil {
		c.lastQuery = tmpl
		return nil, c.fail(&QueryError{Message: err.Error(), SQL: tmpl, Err: err})
	}
	c.lastQuery = sql

	start := time.Now()
	out, err := conn.raw.Execute(ctx, sql)
	c.rec.Statement(string(conn.Mode), time.Since(start), err)
	if err != nil {
		qe := queryError(err, sql)
		c.debugf("query on %s connection %s failed: %v", conn.Mode, conn.ID, qe)
		return nil, c.fail(qe)
	}

	c.err = nil
	c.result = newResult(out)
	return c.result, nil
}
