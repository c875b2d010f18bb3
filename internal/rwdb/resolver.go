package rwdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/joestump/rwdb/internal/driver"
)

// Mode selects the read or write connection.
type Mode string

const (
	Read  Mode = "read"
	Write Mode = "write"
)

// Valid reports whether m is Read or Write.
func (m Mode) Valid() bool { return m == Read || m == Write }

// Classify returns Read if stmt begins with SELECT (ignoring case and leading
// white space) and Write otherwise.
func Classify(stmt string) Mode {
	s := strings.TrimSpace(stmt)
	if len(s) >= 6 && strings.EqualFold(s[:6], "SELECT") {
		return Read
	}
	return Write
}

// Override replaces a field of the target server for one Connect call.
type Override func(*Server)

// WithHost, WithUser, WithPassword, WithName, WithPort and WithCharset
// override the matching Server field.
func WithHost(host string) Override { return func(s *Server) { s.Host = host } }
func WithUser(user string) Override { return func(s *Server) { s.User = user } }
func WithPassword(password string) Override { return func(s *Server) { s.Password = password } }
func WithName(name string) Override { return func(s *Server) { s.Name = name } }
func WithPort(port int) Override { return func(s *Server) { s.Port = port } }
func WithCharset(charset string) Override { return func(s *Server) { s.Charset = charset } }

// Conn is a connection owned by a Client.
type Conn struct {
	// ID is a random identifier assigned when the connection opens.
	ID string
	// Mode is the slot the connection was opened for.
	Mode Mode
	// Index is the position of the server in the Client's server list.
	Index int
	// Server is the effective descriptor after overrides.
	Server Server

	raw driver.Conn
}

// Driver returns the underlying driver connection.
func (c *Conn) Driver() driver.Conn { return c.raw }

// Connect returns the connection for mode, opening it if the slot is empty.
// With overrides a new connection is always opened and replaces the slot's
// current one once it succeeds. On failure nothing is stored.
func (c *Client) Connect(ctx context.Context, mode Mode, overrides ...Override) (*Conn, error) {
	if !mode.Valid() {
		return nil, c.fail(invalidMode(mode))
	}
	current := c.slot(mode)
	if current != nil && len(overrides) == 0 {
		return current, nil
	}

	idx := c.target(mode)
	srv := c.servers[idx]
	for _, o := range overrides {
		o(&srv)
	}

	raw, err := c.drv.Connect(ctx, srv)
	if err != nil {
		c.rec.ConnectionFailed(string(mode))
		c.debugf("%s connect to server %d (%s) failed: %v", mode, idx, srv.Host, err)
		return nil, c.fail(connectionError(err))
	}
	if srv.Charset != "" {
		if err := raw.SetCharset(ctx, srv.Charset); err != nil {
			_ = raw.Close()
			c.rec.ConnectionFailed(string(mode))
			c.debugf("%s charset %q on server %d failed: %v", mode, srv.Charset, idx, err)
			return nil, c.fail(connectionError(err))
		}
	}

	conn := &Conn{ID: uuid.NewString(), Mode: mode, Index: idx, Server: srv, raw: raw}
	c.rec.ConnectionOpened(string(mode))
	c.debugf("opened %s connection %s to server %d (%s)", mode, conn.ID, idx, srv.Host)

	if current != nil {
		_ = c.closeConn(current)
	}
	if len(c.servers) == 1 {
		c.write, c.read = conn, conn
	} else if mode == Write {
		c.write = conn
	} else {
		c.read = conn
	}
	return conn, nil
}

func (c *Client) slot(mode Mode) *Conn {
	if mode == Write {
		return c.write
	}
	return c.read
}

// target returns the index of the server to connect to for mode.
func (c *Client) target(mode Mode) int {
	if mode == Write || len(c.servers) == 1 {
		return 0
	}
	return 1 + c.intn(len(c.servers)-1)
}

// resolve picks the connection for a statement classified as mode. An open
// write connection always wins.
func (c *Client) resolve(ctx context.Context, mode Mode) (*Conn, error) {
	if c.write != nil {
		return c.write, nil
	}
	return c.Connect(ctx, mode)
}

// ensureWrite returns the write connection, opening it if needed.
func (c *Client) ensureWrite(ctx context.Context) (*Conn, error) {
	return c.Connect(ctx, Write)
}

func invalidMode(m Mode) *ConnectionError {
	return &ConnectionError{Message: fmt.Sprintf("invalid connection mode %q", string(m)), Err: ErrInvalidMode}
}

// fail records err as the Client's last error and returns it.
func (c *Client) fail(err error) error {
	c.err = err
	return err
}
