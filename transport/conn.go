package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/arloliu/go-tagwire/frame"
	"github.com/arloliu/go-tagwire/logger"
)

// aLongTimeAgo is a deadline in the past, used to wake a blocked read or write.
var aLongTimeAgo = time.Unix(1, 0)

// Conn is a connection handle: one stream and the one frame buffer used on it.
//
// Conn is NOT goroutine-safe. A single goroutine drives it, or the caller
// serializes access. Distinct Conns share nothing but their Config.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
	frame  frame.Frame
	cfg    *Config
	logger logger.Logger
}

// NewConn wraps an established stream. A nil cfg uses the defaults.
func NewConn(conn net.Conn, cfg *Config) (*Conn, error) {
	if conn == nil {
		return nil, errors.New("transport: nil conn")
	}

	if cfg == nil {
		var err error
		if cfg, err = NewConfig(); err != nil {
			return nil, err
		}
	}

	return &Conn{
		conn:   conn,
		reader: bufio.NewReaderSize(conn, frame.Size),
		cfg:    cfg,
		logger: cfg.logger.With("remoteAddr", conn.RemoteAddr().String()),
	}, nil
}

// Dial connects to addr over TCP within the configured connect timeout.
func Dial(ctx context.Context, addr string, cfg *Config) (*Conn, error) {
	if cfg == nil {
		var err error
		if cfg, err = NewConfig(); err != nil {
			return nil, err
		}
	}

	dialer := net.Dialer{Timeout: cfg.connectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	return NewConn(conn, cfg)
}

// Frame returns the frame buffer owned by c.
func (c *Conn) Frame() *frame.Frame {
	return &c.frame
}

// Config returns the configuration c was created with.
func (c *Conn) Config() *Config {
	return c.cfg
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the underlying stream. A pending Receive or Send fails with ErrIO.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Receive reads one frame into c.Frame() and returns the number of bytes consumed.
//
// The frame is cleared first. On failure it is cleared again, so a partial
// frame is never observable.
func (c *Conn) Receive(ctx context.Context) (int, error) {
	stop := c.watch(ctx)
	defer stop()

	c.frame.Reset()

	// Some streams refuse a deadline once the peer is gone; the read below
	// then reports why, so only a cancellation ends the receive here.
	if err := c.arm(ctx, c.conn.SetReadDeadline); err != nil && ctx != nil && ctx.Err() != nil {
		return 0, c.fail(ctx, opReceive, StageAwaitingLength, 0, 1, err)
	}

	// Peek leaves the length byte in the reader; it is consumed with the body.
	peek, err := c.reader.Peek(1)
	if err != nil {
		return 0, c.fail(ctx, opReceive, StageAwaitingLength, 0, 1, err)
	}

	length := peek[0]
	if err := frame.CheckLength(length); err != nil {
		return 0, c.fail(ctx, opReceive, StageAwaitingLength, 0, int(length), err)
	}

	// The peek does not mean the body has arrived: open a fresh window for it.
	if err := c.arm(ctx, c.conn.SetReadDeadline); err != nil {
		return 0, c.fail(ctx, opReceive, StageAwaitingBody, 0, int(length), err)
	}

	n, err := io.ReadFull(c.reader, c.frame.Bytes()[:length])
	if err != nil {
		return n, c.fail(ctx, opReceive, StageAwaitingBody, n, int(length), err)
	}

	c.cfg.metrics.recordRecv(n)
	if c.cfg.trace {
		c.logger.Debug("frame received", "len", n, "frame", c.frame.HexString())
	}

	return n, nil
}

// Send writes the first Length() bytes of c.Frame() and returns the number of
// bytes written. The caller sets an accurate length before calling Send.
func (c *Conn) Send(ctx context.Context) (int, error) {
	length := c.frame.Length()
	if err := frame.CheckLength(length); err != nil {
		return 0, c.fail(ctx, opSend, StageIdle, 0, int(length), err)
	}

	stop := c.watch(ctx)
	defer stop()

	if err := c.arm(ctx, c.conn.SetWriteDeadline); err != nil {
		return 0, c.fail(ctx, opSend, StageAwaitingWritable, 0, int(length), err)
	}

	n, err := c.conn.Write(c.frame.Bytes()[:length])
	if err == nil && n < int(length) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, c.fail(ctx, opSend, StageAwaitingWritable, n, int(length), err)
	}

	c.cfg.metrics.recordSend(n)
	if c.cfg.trace {
		c.logger.Debug("frame sent", "len", n, "frame", c.frame.HexString())
	}

	return n, nil
}

// watch arranges for a cancelled ctx to abort the pending wait by pulling the
// stream deadline into the past. The returned func detaches the watcher.
func (c *Conn) watch(ctx context.Context) func() bool {
	if ctx == nil || ctx.Done() == nil {
		return func() bool { return true }
	}

	return context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(aLongTimeAgo)
	})
}

// arm opens a fresh wait window with set. It re-checks ctx afterwards, so a
// cancellation that fired before the deadline was armed is not overridden.
func (c *Conn) arm(ctx context.Context, set func(time.Time) error) error {
	if err := set(time.Now().Add(c.cfg.timeout)); err != nil {
		return err
	}

	if ctx != nil {
		return ctx.Err()
	}

	return nil
}

func (c *Conn) fail(ctx context.Context, op string, stage Stage, count, want int, cause error) error {
	if op == opReceive {
		c.frame.Reset()
	}

	kind := ErrIO
	switch {
	case errors.Is(cause, frame.ErrFraming):
		kind = ErrFraming
	case ctx != nil && ctx.Err() != nil:
		cause = context.Cause(ctx)
	case isTimeout(cause):
		kind = ErrTimeout
	case errors.Is(cause, io.EOF), errors.Is(cause, io.ErrUnexpectedEOF), errors.Is(cause, io.ErrShortWrite):
		kind = ErrShortTransfer
	}

	c.cfg.metrics.recordErr(kind == ErrTimeout)

	return &TransferError{
		Op:    op,
		Stage: stage,
		Count: count,
		Want:  want,
		Kind:  kind,
		Cause: cause,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
