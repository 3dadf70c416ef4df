package tagserver

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/arloliu/go-tagwire/codes"
	"github.com/arloliu/go-tagwire/logger"
	"github.com/arloliu/go-tagwire/tagcache"
	"github.com/arloliu/go-tagwire/tagclient"
	"github.com/arloliu/go-tagwire/transport"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "plc1"
	testTimeout = 500 * time.Millisecond
)

var quietLogger = logger.NewSlogWriter(io.Discard, logger.DebugLevel, false)

// newTestStore creates a cache with one tag of every width.
func newTestStore(t *testing.T) *tagcache.Store {
	t.Helper()

	store := tagcache.NewStore(testKey)
	require.NoError(t, store.Define("Run", codes.WidthBit))
	require.NoError(t, store.Define("Level", codes.WidthInt16))
	require.NoError(t, store.Define("Count", codes.WidthInt32))
	require.NoError(t, store.Define("Temp", codes.WidthFloat32))
	require.NoError(t, store.SetText("Temp", "81.5"))

	return store
}

// startServer serves connect on a loopback listener until the test ends.
// It returns the server and a channel receiving the result of Serve.
func startServer(t *testing.T, connect tagcache.Connector, opts ...ServerOption) (*Server, <-chan error) {
	t.Helper()

	opts = append([]ServerOption{WithTimeout(testTimeout), WithLogger(quietLogger)}, opts...)
	cfg, err := NewConfig(opts...)
	require.NoError(t, err)

	srv, err := New(connect, testKey, cfg)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(context.Background(), ln) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)
	t.Cleanup(func() { _ = srv.Close() })

	return srv, errCh
}

// dialClient connects a tag client to srv.
func dialClient(t *testing.T, srv *Server) *tagclient.Client {
	t.Helper()

	c, err := tagclient.Dial(context.Background(), srv.Addr().String(), transport.WithTimeout(testTimeout))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

// dialRaw opens a transport connection to srv for hand-built frames.
func dialRaw(t *testing.T, srv *Server) *transport.Conn {
	t.Helper()

	cfg, err := transport.NewConfig(transport.WithTimeout(testTimeout))
	require.NoError(t, err)

	conn, err := transport.Dial(context.Background(), srv.Addr().String(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}
