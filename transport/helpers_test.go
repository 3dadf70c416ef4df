package transport

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testTimeout keeps readiness waits short in tests.
const testTimeout = 100 * time.Millisecond

// newTestConfig creates a Config with short timeouts suitable for tests.
func newTestConfig(t *testing.T, opts ...ConnOption) *Config {
	t.Helper()

	cfg, err := NewConfig(append([]ConnOption{WithTimeout(testTimeout)}, opts...)...)
	require.NoError(t, err)

	return cfg
}

// newTestConn creates a Conn backed by the local end of net.Pipe().
// Returns the Conn and the remote end for test simulation.
func newTestConn(t *testing.T, cfg *Config) (*Conn, net.Conn) {
	t.Helper()

	local, remote := net.Pipe()
	t.Cleanup(func() {
		_ = local.Close()
		_ = remote.Close()
	})

	c, err := NewConn(local, cfg)
	require.NoError(t, err)

	return c, remote
}

// readExactly reads exactly n bytes from r, failing the test on error.
func readExactly(t *testing.T, r io.Reader, n int) []byte {
	t.Helper()

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Errorf("readExactly: %v", err)
	}

	return buf
}

// mustWrite writes data to w, failing the test on error.
func mustWrite(t *testing.T, w io.Writer, data []byte) {
	t.Helper()

	if _, err := w.Write(data); err != nil {
		t.Errorf("mustWrite: %v", err)
	}
}
