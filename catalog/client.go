package catalog

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/crozier-io/crozier/iox"
	"github.com/crozier-io/crozier/log"
	"github.com/crozier-io/crozier/query"
	"github.com/crozier-io/crozier/types"
	"github.com/crozier-io/crozier/wire"
)

// Config holds the connection parameters for a catalog session.
type Config struct {
	Host     string
	Port     int
	Zone     string
	User     string
	Secret   string
	ClientID string
}

// Addr returns the dial address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client is a catalog session over a single TCP connection, speaking
// length-prefixed msgpack frames. Calls are strictly sequential: one
// request frame, one (or, for transfers, a series of) response frames.
type Client struct {
	conn   net.Conn
	enc    *wire.Encoder
	dec    *wire.Decoder
	logger *log.Logger
	nextID uint64
	closed bool
}

// Connect dials the catalog service and performs the authentication
// handshake. Dial failures classify as ErrNetwork, handshake rejections
// as ErrAuth; both are fatal to a run.
func Connect(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr())
	if err != nil {
		return nil, &SessionError{Kind: ErrNetwork, Op: "connect", Err: err}
	}

	c := &Client{
		conn:   conn,
		enc:    wire.NewEncoder(conn),
		dec:    wire.NewDecoder(conn),
		logger: logger,
	}

	resp, err := c.roundTrip(&wire.Request{
		Kind:     wire.KindHandshake,
		ClientID: cfg.ClientID,
		Zone:     cfg.Zone,
		User:     cfg.User,
		Secret:   cfg.Secret,
		Version:  types.Version,
	})
	if err != nil {
		iox.DiscardClose(conn)
		return nil, &SessionError{Kind: ErrNetwork, Op: "handshake", Err: err}
	}
	if resp.Status != 0 {
		iox.DiscardClose(conn)
		return nil, &SessionError{
			Kind: ErrAuth,
			Op:   "handshake",
			Err:  types.NewError(resp.Status, "%s", resp.Message),
		}
	}

	logger.Debug("handshake accepted", map[string]any{
		"zone": cfg.Zone,
		"user": cfg.User,
	})

	return c, nil
}

// roundTrip sends one request frame and reads its response frame.
func (c *Client) roundTrip(req *wire.Request) (*wire.Response, error) {
	if c.closed {
		return nil, &SessionError{Kind: ErrClosed, Op: req.Kind, Err: ErrClosed}
	}

	c.nextID++
	req.ID = c.nextID

	if err := c.enc.WriteFrame(req); err != nil {
		return nil, &SessionError{Kind: ErrNetwork, Op: req.Kind, Err: err}
	}
	return c.readResponse(req)
}

// readResponse reads one response frame and matches it to req.
func (c *Client) readResponse(req *wire.Request) (*wire.Response, error) {
	payload, err := c.dec.ReadFrame()
	if err != nil {
		return nil, &SessionError{Kind: ErrNetwork, Op: req.Kind, Err: err}
	}
	resp, err := wire.DecodeResponse(payload)
	if err != nil {
		return nil, &SessionError{Kind: ErrNetwork, Op: req.Kind, Err: err}
	}
	if resp.ID != req.ID {
		return nil, &SessionError{
			Kind: ErrNetwork,
			Op:   req.Kind,
			Err:  fmt.Errorf("response id %d does not match request id %d", resp.ID, req.ID),
		}
	}
	return resp, nil
}

// Query implements Session.
func (c *Client) Query(ctx context.Context, req *query.Request) (*query.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	condCols := make([]int32, len(req.Conditions))
	condVals := make([]string, len(req.Conditions))
	for i, cond := range req.Conditions {
		condCols[i] = int32(cond.Column)
		condVals[i] = cond.Literal()
	}
	columns := make([]int32, len(req.Columns))
	for i, col := range req.Columns {
		columns[i] = int32(col)
	}

	resp, err := c.roundTrip(&wire.Request{
		Kind:     wire.KindQuery,
		Columns:  columns,
		MaxRows:  req.MaxRows,
		CondCols: condCols,
		CondVals: condVals,
		Continue: req.Continue,
		Zone:     req.Zone,
	})
	if err != nil {
		return nil, err
	}
	if err := statusError(resp.Status, resp.Message); err != nil {
		return nil, err
	}

	return &query.Page{Rows: resp.Rows, Continue: resp.Continue}, nil
}

// Invoke implements Session.
func (c *Client) Invoke(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	resp, err := c.roundTrip(&wire.Request{
		Kind: wire.KindInvoke,
		Verb: cmd.Verb,
		Args: cmd.Args,
	})
	if err != nil {
		return err
	}
	return statusError(resp.Status, resp.Message)
}

// Stat implements Session.
func (c *Client) Stat(ctx context.Context, path string) (*Stat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := c.roundTrip(&wire.Request{Kind: wire.KindStat, Path: path})
	if err != nil {
		return nil, err
	}
	if err := statusError(resp.Status, resp.Message); err != nil {
		return nil, err
	}
	return &Stat{Path: path, Type: resp.ObjectType, Size: resp.Size}, nil
}

// Get implements Session. The service streams the object's bytes back as
// a series of data frames ending with a frame marked last.
func (c *Client) Get(ctx context.Context, path string, w io.Writer, bufSize int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := &wire.Request{Kind: wire.KindGet, Path: path, MaxRows: int32(bufSize)}
	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}

	for {
		if err := statusError(resp.Status, resp.Message); err != nil {
			return err
		}
		if len(resp.Data) > 0 {
			if _, err := w.Write(resp.Data); err != nil {
				return fmt.Errorf("writing object data for '%s': %w", path, err)
			}
		}
		if resp.Last {
			return nil
		}
		resp, err = c.readResponse(req)
		if err != nil {
			return err
		}
	}
}

// Put implements Session: a direct upload of a local file.
func (c *Client) Put(ctx context.Context, localPath, path string, bufSize int, force bool) error {
	f, err := os.Open(localPath)
	if err != nil {
		return types.NewError(types.CodeInvalidArgument,
			"failed to open '%s' for reading: %v", localPath, err)
	}
	defer iox.DiscardClose(f)

	return c.stream(ctx, wire.KindPut, f, path, bufSize, force)
}

// Write implements Session: streams bytes from r through this session.
func (c *Client) Write(ctx context.Context, r io.Reader, path string, bufSize int, force bool) error {
	return c.stream(ctx, wire.KindWrite, r, path, bufSize, force)
}

// stream sends r's bytes as chunked frames sharing one request id; the
// service answers once, after the frame marked last.
func (c *Client) stream(ctx context.Context, kind string, r io.Reader, path string, bufSize int, force bool) error {
	if c.closed {
		return &SessionError{Kind: ErrClosed, Op: kind, Err: ErrClosed}
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	c.nextID++
	id := c.nextID
	buf := make([]byte, bufSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := io.ReadFull(r, buf)
		last := readErr == io.EOF || readErr == io.ErrUnexpectedEOF
		if readErr != nil && !last {
			return fmt.Errorf("reading data for '%s': %w", path, readErr)
		}

		req := &wire.Request{
			ID:    id,
			Kind:  kind,
			Path:  path,
			Force: force,
			Data:  buf[:n],
			Last:  last,
		}
		if err := c.enc.WriteFrame(req); err != nil {
			return &SessionError{Kind: ErrNetwork, Op: kind, Err: err}
		}

		if last {
			resp, err := c.readResponse(req)
			if err != nil {
				return err
			}
			return statusError(resp.Status, resp.Message)
		}
	}
}

// Checksum implements Session.
func (c *Client) Checksum(ctx context.Context, path string, force bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resp, err := c.roundTrip(&wire.Request{
		Kind:  wire.KindChecksum,
		Path:  path,
		Force: force,
	})
	if err != nil {
		return "", err
	}
	if err := statusError(resp.Status, resp.Message); err != nil {
		return "", err
	}
	return resp.Checksum, nil
}

// Close implements Session. A goodbye frame is best effort; the
// connection closes regardless.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	c.nextID++
	iox.DiscardErr(func() error {
		return c.enc.WriteFrame(&wire.Request{ID: c.nextID, Kind: wire.KindGoodbye})
	})
	return c.conn.Close()
}

// DefaultBufferSize is the transfer chunk size when none is configured.
const DefaultBufferSize = 1024 * 1024

// Verify Client implements Session.
var _ Session = (*Client)(nil)
