package tagserver

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/arloliu/go-tagwire/frame"
	"github.com/arloliu/go-tagwire/tagcache"
	"github.com/arloliu/go-tagwire/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_GetSetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	srv, _ := startServer(t, store.Connect)
	client := dialClient(t, srv)
	ctx := context.Background()

	value, err := client.GetTag(ctx, "Temp")
	require.NoError(t, err)
	assert.Equal(t, "81.5", value)

	require.NoError(t, client.SetTag(ctx, "Count", "100000"))
	value, err = client.GetTag(ctx, "Count")
	require.NoError(t, err)
	assert.Equal(t, "100000", value)

	require.NoError(t, client.SetTag(ctx, "Run", "true"))
	value, err = client.GetTag(ctx, "Run")
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	m := client.Metrics()
	assert.Equal(t, uint64(5), m.FrameSendCount.Load())
	assert.Equal(t, uint64(5), m.FrameRecvCount.Load())
	assert.Equal(t, 1, srv.ActiveConns())
}

func TestServer_ExceptionReplies(t *testing.T) {
	store := newTestStore(t)
	srv, _ := startServer(t, store.Connect)
	client := dialClient(t, srv)
	ctx := context.Background()

	_, err := client.GetTag(ctx, "Missing")
	require.ErrorIs(t, err, frame.ErrReadError)
	status, ok := frame.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, frame.StatusNoSuchTag, status)

	err = client.SetTag(ctx, "Level", "not-a-number")
	require.ErrorIs(t, err, frame.ErrWriteError)
	require.NotErrorIs(t, err, frame.ErrReadError)
	status, _ = frame.StatusOf(err)
	assert.Equal(t, frame.StatusBadValue, status)

	// exceptions keep the connection usable
	value, err := client.GetTag(ctx, "Temp")
	require.NoError(t, err)
	assert.Equal(t, "81.5", value)
}

func TestServer_CacheNotConnected(t *testing.T) {
	store := newTestStore(t)
	connect := func(key string) (tagcache.Cache, error) {
		c, err := store.Connect(key)
		if err != nil {
			return nil, err
		}
		_ = c.Disconnect()

		return c, nil
	}

	srv, _ := startServer(t, connect)
	client := dialClient(t, srv)

	_, err := client.GetTag(context.Background(), "Temp")
	require.ErrorIs(t, err, frame.ErrApplicationError)
	status, _ := frame.StatusOf(err)
	assert.Equal(t, frame.StatusNotConnected, status)
}

func TestServer_ConnectorFailureClosesConnection(t *testing.T) {
	srv, _ := startServer(t, func(string) (tagcache.Cache, error) {
		return nil, tagcache.ErrBadKey
	})
	client := dialClient(t, srv)

	_, err := client.GetTag(context.Background(), "Temp")
	require.Error(t, err)
	require.Eventually(t, func() bool { return srv.ActiveConns() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServer_UnknownFunction(t *testing.T) {
	store := newTestStore(t)
	srv, _ := startServer(t, store.Connect)
	conn := dialRaw(t, srv)
	ctx := context.Background()

	f := conn.Frame()
	f.PrepareGetTag("Temp")
	f.SetFunction(7)

	_, err := conn.Send(ctx)
	require.NoError(t, err)
	n, err := conn.Receive(ctx)
	require.NoError(t, err)

	assert.Equal(t, frame.Size, n)
	assert.Equal(t, frame.FunctionID(7), f.Function())
	assert.True(t, f.Exception().Has(frame.ExFunctionError))
	require.ErrorIs(t, f.Exception().Err(), frame.ErrFunctionError)
}

func TestServer_UnsupportedVersionClosesConnection(t *testing.T) {
	store := newTestStore(t)
	srv, _ := startServer(t, store.Connect)
	conn := dialRaw(t, srv)
	ctx := context.Background()

	f := conn.Frame()
	f.PrepareGetTag("Temp")
	f.SetVersion(9)

	_, err := conn.Send(ctx)
	require.NoError(t, err)

	_, err = conn.Receive(ctx)
	require.ErrorIs(t, err, transport.ErrShortTransfer)
	require.ErrorIs(t, err, io.EOF)
}

func TestServer_MaxConns(t *testing.T) {
	store := newTestStore(t)
	srv, _ := startServer(t, store.Connect, WithMaxConns(1))
	ctx := context.Background()

	first := dialClient(t, srv)
	_, err := first.GetTag(ctx, "Temp")
	require.NoError(t, err)

	second := dialClient(t, srv)
	_, err = second.GetTag(ctx, "Temp")
	require.Error(t, err)

	_, err = first.GetTag(ctx, "Temp")
	require.NoError(t, err)
}

func TestServer_IdleTimeout(t *testing.T) {
	store := newTestStore(t)
	srv, _ := startServer(t, store.Connect, WithTimeout(50*time.Millisecond))
	conn := dialRaw(t, srv)

	_, err := conn.Receive(context.Background())
	require.ErrorIs(t, err, io.EOF)
	require.Eventually(t, func() bool { return srv.ActiveConns() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServer_Close(t *testing.T) {
	store := newTestStore(t)
	srv, errCh := startServer(t, store.Connect, WithTimeout(5*time.Second))
	client := dialClient(t, srv)
	ctx := context.Background()

	_, err := client.GetTag(ctx, "Temp")
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, srv.Close())
	assert.Less(t, time.Since(start), time.Second, "close must cancel idle connections")
	assert.Equal(t, ClosedState, srv.State())
	assert.Equal(t, 0, srv.ActiveConns())

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrServerClosed)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Close")
	}

	_, err = client.GetTag(ctx, "Temp")
	require.Error(t, err)

	require.NoError(t, srv.Close())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.ErrorIs(t, srv.Serve(ctx, ln), ErrServerClosed)
}

func TestServer_ServeTwice(t *testing.T) {
	store := newTestStore(t)
	srv, _ := startServer(t, store.Connect)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.ErrorIs(t, srv.Serve(context.Background(), ln), ErrServerRunning)
}

func TestServer_ContextCancel(t *testing.T) {
	store := newTestStore(t)
	cfg, err := NewConfig(WithLogger(quietLogger))
	require.NoError(t, err)
	srv, err := New(store.Connect, testKey, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, ClosedState, srv.State())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.ErrorIs(t, srv.Serve(context.Background(), ln), ErrServerClosed)
	require.NoError(t, srv.Close())
}

func TestServer_ContextCancelStopsConnections(t *testing.T) {
	store := newTestStore(t)
	cfg, err := NewConfig(WithLogger(quietLogger), WithTimeout(5*time.Second))
	require.NoError(t, err)
	srv, err := New(store.Connect, testKey, cfg)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 5*time.Millisecond)
	client := dialClient(t, srv)
	_, err = client.GetTag(context.Background(), "Temp")
	require.NoError(t, err)
	require.Equal(t, 1, srv.ActiveConns())

	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, 0, srv.ActiveConns(), "served connections must end before Serve returns")
	assert.Equal(t, ClosedState, srv.State())

	_, err = client.GetTag(context.Background(), "Temp")
	require.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, testKey, nil)
	require.Error(t, err)

	srv, err := New(newTestStore(t).Connect, testKey, nil)
	require.NoError(t, err)
	assert.Equal(t, IdleState, srv.State())
	assert.Nil(t, srv.Addr())
	require.NoError(t, srv.Close())
	assert.Equal(t, ClosedState, srv.State())
}
