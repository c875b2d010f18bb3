package rwdb

import "context"

// Stat returns the server status summary reported on the connection for mode,
// opening that connection if needed.
func (c *Client) Stat(ctx context.Context, mode Mode) (string, error) {
	conn, err := c.Connect(ctx, mode)
	if err != nil {
		return "", err
	}
	s, err := conn.raw.Stat(ctx)
	if err != nil {
		return "", c.fail(queryError(err, "STAT"))
	}
	return s, nil
}

// ServerVersion returns the server version reported on the connection for
// mode, opening that connection if needed.
func (c *Client) ServerVersion(ctx context.Context, mode Mode) (string, error) {
	conn, err := c.Connect(ctx, mode)
	if err != nil {
		return "", err
	}
	v, err := conn.raw.ServerVersion(ctx)
	if err != nil {
		return "", c.fail(queryError(err, "VERSION"))
	}
	return v, nil
}
