package rwdb

import "context"

// The accessors below run Query and reshape its Result. They report failure
// through ok=false instead of an error; the error is then available from Err.

// Select returns every row.
func (c *Client) Select(ctx context.Context, tmpl string, args ...Value) (rows []Row, ok bool) {
	r, err := c.Query(ctx, tmpl, args...)
	if err != nil {
		return nil, false
	}
	return r.Rows(), true
}

// SelectObject returns the Result for manual iteration.
func (c *Client) SelectObject(ctx context.Context, tmpl string, args ...Value) (*Result, bool) {
	r, err := c.Query(ctx, tmpl, args...)
	if err != nil {
		return nil, false
	}
	return r, true
}

// SelectFlat returns every value of every row in row-major order. It is meant
// for single-column queries.
func (c *Client) SelectFlat(ctx context.Context, tmpl string, args ...Value) ([]any, bool) {
	r, err := c.Query(ctx, tmpl, args...)
	if err != nil {
		return nil, false
	}
	return r.Flat(), true
}

// SelectRow returns the first row, or nil when there are no rows.
func (c *Client) SelectRow(ctx context.Context, tmpl string, args ...Value) (Row, bool) {
	r, err := c.Query(ctx, tmpl, args...)
	if err != nil {
		return nil, false
	}
	if !r.Next() {
		return nil, true
	}
	return r.Row(), true
}

// SelectValue returns the first column of the first row, or nil when there are
// no rows. Stored zero values such as 0 or "" are returned as they are.
func (c *Client) SelectValue(ctx context.Context, tmpl string, args ...Value) (any, bool) {
	r, err := c.Query(ctx, tmpl, args...)
	if err != nil {
		return nil, false
	}
	if !r.Next() {
		return nil, true
	}
	if v := r.Values(); len(v) > 0 {
		return v[0], true
	}
	return nil, true
}

// Insert returns the id generated on the write connection.
func (c *Client) Insert(ctx context.Context, tmpl string, args ...Value) (int64, bool) {
	if _, err := c.Query(ctx, tmpl, args...); err != nil {
		return 0, false
	}
	return c.InsertID(), true
}

// Update returns the number of affected rows.
func (c *Client) Update(ctx context.Context, tmpl string, args ...Value) (int64, bool) {
	r, err := c.Query(ctx, tmpl, args...)
	if err != nil {
		return 0, false
	}
	return r.AffectedRows(), true
}

// Delete returns the number of affected rows.
func (c *Client) Delete(ctx context.Context, tmpl string, args ...Value) (int64, bool) {
	return c.Update(ctx, tmpl, args...)
}

// Replace returns the Result of a REPLACE (or any other write) statement.
func (c *Client) Replace(ctx context.Context, tmpl string, args ...Value) (*Result, bool) {
	return c.SelectObject(ctx, tmpl, args...)
}
