package rwdb

import "context"

// Begin opens the write connection if needed and disables autocommit.
func (c *Client) Begin(ctx context.Context) error {
	conn, err := c.ensureWrite(ctx)
	if err != nil {
		return err
	}
	if err := conn.raw.SetAutocommit(ctx, false); err != nil {
		return c.fail(queryError(err, "BEGIN"))
	}
	c.rec.Transaction("begin")
	c.debugf("begin on write connection %s", conn.ID)
	return nil
}

// Commit commits pending work on the write connection and re-enables
// autocommit. Without a prior Begin it commits nothing.
func (c *Client) Commit(ctx context.Context) error {
	return c.finish(ctx, "commit", "COMMIT", func(conn *Conn) error { return conn.raw.Commit(ctx) })
}

// Rollback discards pending work on the write connection and re-enables
// autocommit. Without a prior Begin it discards nothing.
func (c *Client) Rollback(ctx context.Context) error {
	return c.finish(ctx, "rollback", "ROLLBACK", func(conn *Conn) error { return conn.raw.Rollback(ctx) })
}

func (c *Client) finish(ctx context.Context, action, stmt string, end func(*Conn) error) error {
	conn, err := c.ensureWrite(ctx)
	if err != nil {
		return err
	}
	if err := end(conn); err != nil {
		return c.fail(queryError(err, stmt))
	}
	if err := conn.raw.SetAutocommit(ctx, true); err != nil {
		return c.fail(queryError(err, "SET autocommit=1"))
	}
	c.rec.Transaction(action)
	c.debugf("%s on write connection %s", action, conn.ID)
	return nil
}
