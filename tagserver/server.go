package tagserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-tagwire/logger"
	"github.com/arloliu/go-tagwire/tagcache"
	"github.com/arloliu/go-tagwire/transport"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	// ErrServerClosed is returned by Serve after Close.
	ErrServerClosed = errors.New("tagserver: server closed")
	// ErrServerRunning is returned by a second call to Serve.
	ErrServerRunning = errors.New("tagserver: server already serving")
)

// Server serves tag requests against the cache reached through a Connector.
type Server struct {
	connect tagcache.Connector
	key     string
	cfg     *Config
	logger  logger.Logger

	state  atomicState
	mu     sync.Mutex // protects ln and cancel
	ln     net.Listener
	cancel context.CancelFunc

	conns  *xsync.MapOf[*transport.Conn, struct{}]
	active atomic.Int32
	wg     sync.WaitGroup // accept loop
	connWG sync.WaitGroup // served connections
}

// New creates a server that opens one cache handle per connection by calling
// connect(key). A nil cfg selects the defaults.
func New(connect tagcache.Connector, key string, cfg *Config) (*Server, error) {
	if connect == nil {
		return nil, errors.New("tagserver: nil cache connector")
	}

	if cfg == nil {
		var err error
		if cfg, err = NewConfig(); err != nil {
			return nil, err
		}
	}

	return &Server{
		connect: connect,
		key:     key,
		cfg:     cfg,
		logger:  cfg.GetLogger(),
		conns:   xsync.NewMapOf[*transport.Conn, struct{}](),
	}, nil
}

// State returns the lifecycle state of the server.
func (s *Server) State() State {
	return s.state.Get()
}

// Addr returns the listener address, or nil when the server is not serving.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}

	return s.ln.Addr()
}

// ActiveConns returns the number of connections currently served.
func (s *Server) ActiveConns() int {
	return int(s.active.Load())
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		s.logger.Error("tag server: failed to listen", "address", addr, "error", err)
		return err
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and serves each one in its own goroutine.
// It blocks until ctx is cancelled, Close is called or Accept fails, and
// always closes ln. After Close it returns ErrServerClosed. When it stops on
// its own, it cancels and waits for the served connections and leaves the
// server closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if !s.state.ToServing() {
		s.mu.Unlock()
		_ = ln.Close()

		if s.state.IsServing() {
			return ErrServerRunning
		}

		return ErrServerClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	s.ln = ln
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	defer cancel()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.logger.Info("tag server: listening", "address", ln.Addr(), "cacheKey", s.key)

	for {
		nc, err := ln.Accept()
		if err != nil {
			if retry := s.handleAcceptError(ctx, err); retry {
				continue
			}
			_ = ln.Close()

			switch st := s.state.Get(); {
			case st == ClosingState || st == ClosedState:
				return ErrServerClosed
			case ctx.Err() != nil:
				s.shutdown(cancel)
				return ctx.Err()
			default:
				s.shutdown(cancel)
				return fmt.Errorf("tagserver: accept: %w", err)
			}
		}

		if int(s.active.Load()) >= s.cfg.maxConns {
			s.logger.Warn("tag server: rejecting connection, limit reached",
				"remoteAddr", nc.RemoteAddr(), "maxConns", s.cfg.maxConns)
			_ = nc.Close()

			continue
		}

		s.active.Add(1)
		s.connWG.Add(1)

		go s.serveConn(ctx, nc)
	}
}

// shutdown closes a server whose accept loop ended without Close.
func (s *Server) shutdown(cancel context.CancelFunc) {
	if !s.state.ToClosing() {
		return
	}

	cancel()
	s.connWG.Wait()
	s.state.ToClosed()
	s.logger.Info("tag server: stopped")
}

// handleAcceptError reports whether the accept loop should retry.
func (s *Server) handleAcceptError(ctx context.Context, err error) bool {
	if ctx.Err() != nil || !s.state.IsServing() {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if !errors.Is(err, net.ErrClosed) {
		s.logger.Error("tag server: accept failed", "error", err)
	}

	return false
}

// Close stops accepting connections, cancels every served connection and waits
// for them up to the close timeout before closing them forcibly.
func (s *Server) Close() error {
	s.mu.Lock()
	if !s.state.ToClosing() {
		s.mu.Unlock()
		return nil
	}
	ln, cancel := s.ln, s.cancel
	s.mu.Unlock()

	var err error
	if cancel != nil {
		cancel()
	}
	if ln != nil {
		if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	}

	if !waitTimeout(s.wait, s.cfg.closeTimeout) {
		s.logger.Warn("tag server: close timeout, closing connections",
			"active", s.active.Load(), "timeout", s.cfg.closeTimeout)

		s.conns.Range(func(conn *transport.Conn, _ struct{}) bool {
			_ = conn.Close()
			return true
		})
		s.wait()
	}

	s.state.ToClosed()
	s.logger.Info("tag server: closed")

	return err
}

// wait blocks until the accept loop and then every served connection ended.
// The loop is waited first, so no connection is added while connWG is waited.
func (s *Server) wait() {
	s.wg.Wait()
	s.connWG.Wait()
}

func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	defer s.connWG.Done()
	defer s.active.Add(-1)

	conn, err := transport.NewConn(nc, s.cfg.transport)
	if err != nil {
		s.logger.Error("tag server: failed to create connection", "error", err)
		_ = nc.Close()

		return
	}
	defer func() { _ = conn.Close() }()

	s.conns.Store(conn, struct{}{})
	defer s.conns.Delete(conn)

	log := s.logger.With("remoteAddr", conn.RemoteAddr())

	cache, err := s.connect(s.key)
	if err != nil {
		log.Error("tag server: cache connect failed", "cacheKey", s.key, "error", err)
		return
	}
	defer func() {
		if err := cache.Disconnect(); err != nil {
			log.Warn("tag server: cache disconnect failed", "error", err)
		}
	}()

	log.Info("tag server: client connected")

	for {
		if _, err := conn.Receive(ctx); err != nil {
			logReceiveError(ctx, log, err)
			return
		}

		if !dispatch(log, conn.Frame(), cache) {
			return
		}

		if _, err := conn.Send(ctx); err != nil {
			log.Warn("tag server: send failed", "error", err)
			return
		}
	}
}

func logReceiveError(ctx context.Context, log logger.Logger, err error) {
	switch {
	case ctx.Err() != nil:
		log.Debug("tag server: connection cancelled")
	case errors.Is(err, io.EOF):
		log.Info("tag server: client disconnected")
	case errors.Is(err, transport.ErrTimeout):
		log.Info("tag server: client idle, closing", "error", err)
	case errors.Is(err, transport.ErrFraming):
		log.Warn("tag server: framing error, closing", "error", err)
	default:
		log.Warn("tag server: receive failed", "error", err)
	}
}

func waitTimeout(wait func(), timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
