// Package tagclient reads and writes tags of a remote tag server.
package tagclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/arloliu/go-tagwire/frame"
	"github.com/arloliu/go-tagwire/transport"
)

var (
	// ErrClosed is returned by calls on a closed client.
	ErrClosed = errors.New("tagclient: client closed")
	// ErrUnexpectedReply indicates a reply that does not answer the request.
	ErrUnexpectedReply = errors.New("tagclient: unexpected reply")
	// ErrInvalidName indicates an empty tag name or one that does not fit the frame.
	ErrInvalidName = errors.New("tagclient: invalid tag name")
	// ErrValueTooLong indicates a tag value that does not fit the frame.
	ErrValueTooLong = errors.New("tagclient: tag value too long")
)

// Client is a connection to a tag server. A Client is safe for concurrent use;
// requests are serialized since a connection carries one frame at a time.
// A transport failure or a mismatched reply closes the client.
type Client struct {
	mu     sync.Mutex
	conn   *transport.Conn
	closed bool
}

// Dial connects to the tag server at addr.
func Dial(ctx context.Context, addr string, opts ...transport.ConnOption) (*Client, error) {
	cfg, err := transport.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	conn, err := transport.Dial(ctx, addr, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

// New creates a client over an established connection.
func New(nc net.Conn, opts ...transport.ConnOption) (*Client, error) {
	cfg, err := transport.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	conn, err := transport.NewConn(nc, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

// Metrics returns the frame counters of the client's connection.
func (c *Client) Metrics() *transport.Metrics {
	return c.conn.Config().Metrics()
}

// GetTag returns the textual value of the named tag.
// A server-side failure is returned as *frame.ExceptionError.
func (c *Client) GetTag(ctx context.Context, name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	var value string
	err := c.roundTrip(ctx, frame.FuncGetTag, func(f *frame.Frame) {
		f.PrepareGetTag(name)
	}, func(f *frame.Frame) {
		value = f.TagValue()
	})

	return value, err
}

// SetTag writes the textual value of the named tag. The server converts value
// to the tag's native width.
func (c *Client) SetTag(ctx context.Context, name, value string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if len(value) > frame.TagValueLen {
		return fmt.Errorf("%w: %d bytes, max %d", ErrValueTooLong, len(value), frame.TagValueLen)
	}

	return c.roundTrip(ctx, frame.FuncSetTag, func(f *frame.Frame) {
		f.PrepareSetTag(name, value)
	}, nil)
}

// Close closes the connection. Pending and later requests fail.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	return c.conn.Close()
}

func (c *Client) roundTrip(ctx context.Context, fn frame.FunctionID, prepare, result func(*frame.Frame)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	f := c.conn.Frame()
	prepare(f)

	if _, err := c.conn.Send(ctx); err != nil {
		return c.abort(err)
	}

	if _, err := c.conn.Receive(ctx); err != nil {
		return c.abort(err)
	}

	if err := checkReply(f, fn); err != nil {
		return c.abort(err)
	}

	if err := f.Exception().Err(); err != nil {
		return err
	}

	if result != nil {
		result(f)
	}

	return nil
}

// abort closes a connection whose stream position is no longer known.
func (c *Client) abort(err error) error {
	c.closed = true
	_ = c.conn.Close()

	return err
}

func checkReply(f *frame.Frame, fn frame.FunctionID) error {
	if v := f.Version(); v != frame.Version {
		return fmt.Errorf("%w: %w: got %d", ErrUnexpectedReply, frame.ErrUnsupportedVersion, v)
	}

	if got := f.Function(); got != fn {
		return fmt.Errorf("%w: function %s, want %s", ErrUnexpectedReply, got, fn)
	}

	return nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > frame.TagNameLen {
		return fmt.Errorf("%w: %d bytes, max %d", ErrInvalidName, len(name), frame.TagNameLen)
	}

	return nil
}
